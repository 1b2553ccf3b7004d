package cart

type Op string

const (
	OpAdd       Op = "add"
	OpIncrement Op = "increment"
	OpDecrement Op = "decrement"
	OpRemove    Op = "remove"
	OpClear     Op = "clear"
)

// Event is delivered to subscribers after every operation, no-ops included.
// ProductID is 0 for OpClear.
type Event struct {
	Op        Op
	ProductID int
	Changed   bool
	Snapshot  Snapshot
}

// Listener runs synchronously inside the operation that produced the event.
// It may read the store but must not call a mutating operation.
type Listener func(Event)
