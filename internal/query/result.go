package query

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the tri-state view of one key: exactly one of pending, success
// with Data, or error with Err.
type Result[T any] struct {
	Status    Status
	Data      T
	Err       error
	UpdatedAt time.Time
}

func (r Result[T]) Pending() bool { return r.Status == StatusPending }
func (r Result[T]) OK() bool      { return r.Status == StatusSuccess }
func (r Result[T]) Failed() bool  { return r.Status == StatusError }
