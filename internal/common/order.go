package common

import "fmt"

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "unknown"
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Order is one limit order's economic terms plus its remaining quantity.
// Quantity is decremented in place as the order fills; an order reachable
// from a book always has Quantity > 0.
type Order struct {
	ID        int64  // Caller-assigned, unique among resting orders
	Side      Side   // Order side
	Price     int64  // Limit price, in ticks
	Quantity  uint64 // Remaining quantity
	Trader    string // Who owns this order
	Timestamp int64  // Feed timestamp, carried through to trades
	Seq       uint64 // Arrival sequence, assigned by the book at rest time
}

func (o Order) String() string {
	return fmt.Sprintf("#%d %s %d @ %d (%s)", o.ID, o.Side, o.Quantity, o.Price, o.Trader)
}
