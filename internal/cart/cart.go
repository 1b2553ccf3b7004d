// Package cart holds the in-memory shopping cart: an ordered collection of
// lines keyed by product id, mutated only through the Store operations.
package cart

import "github.com/shopspring/decimal"

// Item is what a caller hands to Add: the product fields the cart keeps a
// snapshot of. Quantity is owned by the store.
type Item struct {
	ID        int
	Title     string
	Price     decimal.Decimal
	Thumbnail string
}

// Line is one entry in the cart. Quantity is always >= 1 while the line
// exists.
type Line struct {
	ID        int             `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Thumbnail string          `json:"thumbnail"`
	Quantity  int             `json:"quantity"`
}

// Total is price times quantity for this line.
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is a consistent read of the whole cart.
type Snapshot struct {
	CartID     string
	Lines      []Line
	TotalItems int
	Subtotal   decimal.Decimal
}

func (s Snapshot) Empty() bool { return len(s.Lines) == 0 }

// Quantity returns the quantity held for id, 0 when absent.
func (s Snapshot) Quantity(id int) int {
	for _, l := range s.Lines {
		if l.ID == id {
			return l.Quantity
		}
	}
	return 0
}

func totalItems(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	return sum
}
