package engine

import "mimir/internal/common"

// handle addresses one resting order inside a book's arena. A handle stays
// valid until its order is released; release bumps the slot's generation so
// a stale handle can never alias a recycled slot.
type handle struct {
	idx uint32
	gen uint32
}

var noHandle = handle{idx: ^uint32(0)}

type slot struct {
	order      common.Order
	prev, next handle // Neighbours within the same price level
	gen        uint32
	live       bool
}

// arena is a generational slot store for resting orders. Price levels and
// the order index refer into it by handle only, never by pointer, which
// keeps arbitrary removal O(1) and leaves every other handle untouched.
type arena struct {
	slots []slot
	free  []uint32
}

func (a *arena) alloc(order common.Order) handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.order = order
	s.prev, s.next = noHandle, noHandle
	s.live = true
	return handle{idx: idx, gen: s.gen}
}

// at resolves a handle, or nil if the handle is stale or out of range.
func (a *arena) at(h handle) *slot {
	if int(h.idx) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.idx]
	if !s.live || s.gen != h.gen {
		return nil
	}
	return s
}

func (a *arena) release(h handle) {
	s := a.at(h)
	if s == nil {
		return
	}
	s.live = false
	s.gen++
	s.order = common.Order{}
	a.free = append(a.free, h.idx)
}
