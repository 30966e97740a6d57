package engine

import (
	"github.com/tidwall/btree"

	"mimir/internal/common"
)

// priceLevel is the FIFO queue of resting orders at one price: an intrusive
// doubly linked list of arena handles, oldest order at the head. A level is
// deleted from its side the moment it empties, so a level reachable from a
// side always holds at least one order.
type priceLevel struct {
	price      int64
	head, tail handle
	size       int
}

type priceLevels = btree.BTreeG[*priceLevel]

// bookSide holds one side of the book with price levels sorted best-first,
// so MinMut yields the best level for bids and asks alike.
type bookSide struct {
	levels *priceLevels
	arena  *arena
}

func newBookSide(side common.Side, arena *arena) *bookSide {
	var levels *priceLevels
	switch side {
	case common.Buy:
		// Sorted greatest first.
		levels = btree.NewBTreeG(func(a, b *priceLevel) bool {
			return a.price > b.price
		})
	case common.Sell:
		// Sorted least first.
		levels = btree.NewBTreeG(func(a, b *priceLevel) bool {
			return a.price < b.price
		})
	}
	return &bookSide{levels: levels, arena: arena}
}

// best returns the side's best price level: highest for bids, lowest for asks.
func (s *bookSide) best() (*priceLevel, bool) {
	return s.levels.MinMut()
}

// front returns the oldest resting order of a level.
func (s *bookSide) front(level *priceLevel) *common.Order {
	return &s.arena.at(level.head).order
}

// insert appends an order to the tail of its price level, creating the
// level if it does not exist yet, and returns the order's handle.
func (s *bookSide) insert(order common.Order) handle {
	h := s.arena.alloc(order)
	level, ok := s.levels.GetMut(&priceLevel{price: order.Price})
	if !ok {
		s.levels.Set(&priceLevel{price: order.Price, head: h, tail: h, size: 1})
		return h
	}
	s.arena.at(level.tail).next = h
	s.arena.at(h).prev = level.tail
	level.tail = h
	level.size++
	return h
}

// removeFront unlinks the oldest order of a level, deleting the level once
// it empties.
func (s *bookSide) removeFront(level *priceLevel) {
	next := s.arena.at(level.head).next
	s.arena.release(level.head)
	level.head = next
	level.size--
	if level.size == 0 {
		s.levels.Delete(level)
		return
	}
	s.arena.at(next).prev = noHandle
}

// remove unlinks an arbitrary resting order by handle. Handles held for
// other orders in the same level stay valid.
func (s *bookSide) remove(price int64, h handle) {
	level, ok := s.levels.GetMut(&priceLevel{price: price})
	if !ok {
		return
	}
	sl := s.arena.at(h)
	if sl == nil {
		return
	}
	if prev := s.arena.at(sl.prev); prev != nil {
		prev.next = sl.next
	} else {
		level.head = sl.next
	}
	if next := s.arena.at(sl.next); next != nil {
		next.prev = sl.prev
	} else {
		level.tail = sl.prev
	}
	s.arena.release(h)
	level.size--
	if level.size == 0 {
		s.levels.Delete(level)
	}
}
