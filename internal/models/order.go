package models

import (
	"fmt"
	"time"
)

// OrderStatus represents the possible states of an order. The lifecycle is
// strictly linear: PENDING, QUEUED, PREPARING, READY, then COMPLETED.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusQueued    OrderStatus = "QUEUED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusCompleted OrderStatus = "COMPLETED"
)

// statusOrder fixes the lifecycle sequence. Index order matters.
var statusOrder = []OrderStatus{
	StatusPending,
	StatusQueued,
	StatusPreparing,
	StatusReady,
	StatusCompleted,
}

// Statuses returns the full lifecycle in order.
func Statuses() []OrderStatus {
	out := make([]OrderStatus, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// ActiveStatuses returns the non-terminal statuses, one per kitchen lane.
func ActiveStatuses() []OrderStatus {
	return Statuses()[:len(statusOrder)-1]
}

func (s OrderStatus) index() int {
	for i, st := range statusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the known lifecycle states.
func (s OrderStatus) Valid() bool { return s.index() >= 0 }

// Terminal reports whether s is the final state of the lifecycle.
func (s OrderStatus) Terminal() bool { return s == StatusCompleted }

// Next returns the following lifecycle state. Advancing past the terminal
// state is clamped, not an error.
func (s OrderStatus) Next() OrderStatus {
	i := s.index()
	if i < 0 || i >= len(statusOrder)-1 {
		return s
	}
	return statusOrder[i+1]
}

// Prev returns the preceding lifecycle state, clamped at the first lane.
func (s OrderStatus) Prev() OrderStatus {
	i := s.index()
	if i <= 0 {
		return s
	}
	return statusOrder[i-1]
}

// OrderModifier is a modifier option selected on an ordered line item.
// Price is the option's delta in minor currency units.
type OrderModifier struct {
	OptionID   string `json:"optionId"`
	OptionName string `json:"optionName,omitempty"`
	Price      int64  `json:"price,omitempty"`
}

// OrderItem is a single line of an order as the kitchen sees it.
type OrderItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Modifiers []OrderModifier `json:"modifiers,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// Order is the client-side copy of a server order. The server is
// authoritative; everything but Status is immutable after creation.
type Order struct {
	ID           string      `json:"id"`
	TicketNumber int         `json:"ticket_number"`
	CustomerName string      `json:"customer_name"`
	TableNumber  string      `json:"table_number,omitempty"`
	Items        []OrderItem `json:"items"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Validate checks the required fields of an order arriving from the API.
func (o *Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("order: missing id")
	}
	if !o.Status.Valid() {
		return fmt.Errorf("order %s: unknown status %q", o.ID, o.Status)
	}
	for i, it := range o.Items {
		if it.ID == "" {
			return fmt.Errorf("order %s: item %d missing id", o.ID, i)
		}
		if it.Qty <= 0 {
			return fmt.Errorf("order %s: item %s has non-positive qty", o.ID, it.ID)
		}
	}
	return nil
}
