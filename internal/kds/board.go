// Package kds implements the kitchen display client: a lane-partitioned
// view of active orders kept live by the kitchen event stream, with
// optimistic status advancement back to the server.
package kds

import (
	"sort"
	"sync"

	"omniorder/internal/models"
)

// Board is the in-memory working set of active orders. Merges are
// idempotent so duplicate delivery after a reconnect-triggered re-fetch
// never produces two tickets. A single client instance owns the board.
type Board struct {
	mu     sync.Mutex
	orders map[string]models.Order
}

// NewBoard returns an empty working set.
func NewBoard() *Board {
	return &Board{orders: make(map[string]models.Order)}
}

// Insert adds a new order. An order whose id is already present is
// ignored; the return value reports whether the ticket was actually added.
// Orders already in the terminal state never enter the working set.
func (b *Board) Insert(o models.Order) bool {
	if o.Status.Terminal() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.orders[o.ID]; exists {
		return false
	}
	b.orders[o.ID] = o
	return true
}

// MergeSnapshot folds a full list fetch into the working set, inserting
// only unknown ids. It returns the number of tickets added. Existing
// tickets win over the snapshot: a live event may already have advanced
// them past what the snapshot saw.
func (b *Board) MergeSnapshot(orders []models.Order) int {
	added := 0
	for _, o := range orders {
		if b.Insert(o) {
			added++
		}
	}
	return added
}

// UpdateStatus applies a status broadcast. The matching order's status is
// replaced, or the order is removed entirely when the new status is
// terminal. Unknown ids and invalid statuses are ignored.
func (b *Board) UpdateStatus(id string, status models.OrderStatus) bool {
	if !status.Valid() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	o, exists := b.orders[id]
	if !exists {
		return false
	}
	if status.Terminal() {
		delete(b.orders, id)
		return true
	}
	o.Status = status
	b.orders[id] = o
	return true
}

// Advance moves an order one step along the lifecycle, locally and
// immediately. The new status is returned; ok is false when the id is
// unknown or the order is already in the last lane (clamped no-op).
// Reaching the terminal state removes the ticket from the working set.
func (b *Board) Advance(id string) (status models.OrderStatus, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, exists := b.orders[id]
	if !exists {
		return "", false
	}
	next := o.Status.Next()
	if next == o.Status {
		return o.Status, false
	}
	if next.Terminal() {
		delete(b.orders, id)
		return next, true
	}
	o.Status = next
	b.orders[id] = o
	return next, true
}

// Lane returns the orders currently in the given status bucket, oldest
// first. Lane membership is a pure projection of each order's status.
func (b *Board) Lane(status models.OrderStatus) []models.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []models.Order
	for _, o := range b.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	sortByAge(out)
	return out
}

// Active returns the whole working set, oldest first.
func (b *Board) Active() []models.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Order, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, o)
	}
	sortByAge(out)
	return out
}

// Get returns one order by id.
func (b *Board) Get(id string) (models.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	return o, ok
}

// Len is the current ticket count.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.orders)
}

func sortByAge(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].TicketNumber < orders[j].TicketNumber
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
}
