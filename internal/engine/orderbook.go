package engine

import (
	"errors"

	"github.com/google/uuid"

	"mimir/internal/common"
)

var (
	ErrDuplicateOrderID = errors.New("duplicate order id")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidPrice     = errors.New("invalid price")
)

// TradeReporter receives every execution synchronously, in the exact order
// the matching loop produced it. Reporters must not block for long: the
// next trade of the same Add waits on them.
type TradeReporter interface {
	ReportTrade(trade common.Trade)
}

// Config bounds the variable-width fields of resting orders.
type Config struct {
	// MaxTraderLen truncates trader identifiers on Add. Zero leaves them
	// unbounded.
	MaxTraderLen int
}

// location pins a resting order: its side, its price level and its arena
// handle. The order index stores locations so cancellation never scans.
type location struct {
	side  common.Side
	price int64
	h     handle
}

// OrderBook is one instrument's two-sided limit book. It is an explicit
// instance owned by the caller, constructed empty; resetting a book is
// re-constructing it.
//
// The book assumes exclusive access during each call. Instructions must be
// applied one at a time in feed order: price-time priority is only
// meaningful under a single total order of application, so a surrounding
// system that wants parallelism shards books by instrument and gives each
// book a single writer.
type OrderBook struct {
	engine *Engine
	cfg    Config

	arena *arena
	bids  *bookSide
	asks  *bookSide

	// id -> location of every resting order. An id is present here iff its
	// order is reachable from one of the sides; both structures are always
	// updated in the same step.
	index map[int64]location

	seq uint64 // Next arrival sequence
}

func NewOrderBook(engine *Engine) *OrderBook {
	return NewOrderBookWithConfig(engine, Config{})
}

func NewOrderBookWithConfig(engine *Engine, cfg Config) *OrderBook {
	arena := &arena{}
	return &OrderBook{
		engine: engine,
		cfg:    cfg,
		arena:  arena,
		bids:   newBookSide(common.Buy, arena),
		asks:   newBookSide(common.Sell, arena),
		index:  make(map[int64]location),
	}
}

func (book *OrderBook) side(s common.Side) *bookSide {
	if s == common.Buy {
		return book.bids
	}
	return book.asks
}

// crosses reports whether an order limited at limit can trade against the
// opposite side's best price.
func crosses(side common.Side, limit, best int64) bool {
	if side == common.Buy {
		return best <= limit
	}
	return best >= limit
}

// Add matches an incoming limit order against the opposite side in
// price-time priority and rests any remainder on its own side. Trades
// execute at the resting order's price. A validation failure rejects the
// order before any mutation, so the book is either fully updated or
// untouched.
func (book *OrderBook) Add(order common.Order) error {
	if order.Quantity == 0 {
		return ErrInvalidQuantity
	}
	if order.Price <= 0 {
		return ErrInvalidPrice
	}
	if _, ok := book.index[order.ID]; ok {
		return ErrDuplicateOrderID
	}
	if limit := book.cfg.MaxTraderLen; limit > 0 && len(order.Trader) > limit {
		order.Trader = order.Trader[:limit]
	}

	// Sweep the opposite side while the incoming order crosses its best
	// price. Within a level the head is always the earliest arrival, so
	// consuming front-first is price-time priority.
	opposite := book.side(order.Side.Opposite())
	for order.Quantity > 0 {
		level, ok := opposite.best()
		if !ok || !crosses(order.Side, order.Price, level.price) {
			break
		}
		top := opposite.front(level)
		traded := min(order.Quantity, top.Quantity)
		order.Quantity -= traded
		top.Quantity -= traded
		book.emit(&order, top, level.price, traded)
		if top.Quantity == 0 {
			delete(book.index, top.ID)
			opposite.removeFront(level)
		}
	}

	if order.Quantity > 0 {
		order.Seq = book.seq
		book.seq++
		h := book.side(order.Side).insert(order)
		book.index[order.ID] = location{side: order.Side, price: order.Price, h: h}
	}
	return nil
}

// Cancel removes a resting order. It reports false when the id is not
// resting, which covers never-seen ids as well as orders already filled or
// cancelled; the book is untouched in that case.
func (book *OrderBook) Cancel(orderID int64) bool {
	loc, ok := book.index[orderID]
	if !ok {
		return false
	}
	book.side(loc.side).remove(loc.price, loc.h)
	delete(book.index, orderID)
	return true
}

// emit builds the trade for one fill and hands it to the engine. Buy and
// sell fields are assigned by role regardless of which order was resting.
func (book *OrderBook) emit(incoming, resting *common.Order, price int64, qty uint64) {
	buy, sell := incoming, resting
	if incoming.Side == common.Sell {
		buy, sell = resting, incoming
	}
	book.engine.Trade(common.Trade{
		ID:          uuid.NewString(),
		Timestamp:   incoming.Timestamp,
		Price:       price,
		Quantity:    qty,
		BuyOrderID:  buy.ID,
		SellOrderID: sell.ID,
		BuyTrader:   buy.Trader,
		SellTrader:  sell.Trader,
	})
}

// BestBid returns the highest resting bid price.
func (book *OrderBook) BestBid() (int64, bool) {
	level, ok := book.bids.best()
	if !ok {
		return 0, false
	}
	return level.price, true
}

// BestAsk returns the lowest resting ask price.
func (book *OrderBook) BestAsk() (int64, bool) {
	level, ok := book.asks.best()
	if !ok {
		return 0, false
	}
	return level.price, true
}

// Len reports the number of resting orders across both sides.
func (book *OrderBook) Len() int {
	return len(book.index)
}

// FlatPriceLevel is a copied-out view of one price level, oldest order
// first. Levels returns them best price first.
type FlatPriceLevel struct {
	Price  int64
	Orders []common.Order
}

// Levels snapshots one side of the book for display and tests.
func (book *OrderBook) Levels(side common.Side) []FlatPriceLevel {
	s := book.side(side)
	var out []FlatPriceLevel
	s.levels.Scan(func(level *priceLevel) bool {
		flat := FlatPriceLevel{
			Price:  level.price,
			Orders: make([]common.Order, 0, level.size),
		}
		h := level.head
		for {
			sl := s.arena.at(h)
			if sl == nil {
				break
			}
			flat.Orders = append(flat.Orders, sl.order)
			h = sl.next
		}
		out = append(out, flat)
		return true
	})
	return out
}
