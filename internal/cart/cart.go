// Package cart implements the client-local shopping cart. The cart lives
// entirely on the customer's device until checkout: every mutation is
// written through to local storage, and the snapshot is rehydrated on load
// so a page reload (process restart) keeps the cart intact.
package cart

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"omniorder/internal/models"
	"omniorder/internal/storage"
)

// Storage keys. The persisted shape carries no version tag; a future change
// to the line shape would surface as malformed entries for returning users.
const (
	cartKey        = "omni_cart"
	activeOrderKey = "omni_active_order"
)

// Line is one cart entry. LineID distinguishes otherwise-identical items
// configured differently; it is generated locally and never leaves the
// client.
type Line struct {
	LineID    string                 `json:"cart_id"`
	ItemID    string                 `json:"id"`
	Name      string                 `json:"name"`
	Price     int64                  `json:"price"`
	Qty       int                    `json:"qty"`
	ImageURL  string                 `json:"image_url,omitempty"`
	Modifiers []models.OrderModifier `json:"modifiers"`
	Notes     string                 `json:"notes,omitempty"`
}

// UnitPrice is the line's base price plus all modifier deltas.
func (l Line) UnitPrice() int64 {
	total := l.Price
	for _, m := range l.Modifiers {
		total += m.Price
	}
	return total
}

// Subtotal is the line's contribution to the cart total.
func (l Line) Subtotal() int64 { return l.UnitPrice() * int64(l.Qty) }

// Store holds the cart lines and the remembered active order id. A single
// instance owns the state; all mutation goes through its methods.
type Store struct {
	mu            sync.Mutex
	storage       *storage.Store
	lines         []Line
	activeOrderID string
}

// New builds a cart store backed by st, rehydrating any persisted snapshot.
// A snapshot that fails to decode is dropped rather than blocking startup.
func New(st *storage.Store) *Store {
	c := &Store{storage: st}

	var lines []Line
	if _, err := st.Get(cartKey, &lines); err != nil {
		log.Printf("cart: discarding unreadable snapshot: %v", err)
	} else {
		c.lines = lines
	}
	if _, err := st.Get(activeOrderKey, &c.activeOrderID); err != nil {
		log.Printf("cart: discarding unreadable active order ref: %v", err)
	}
	return c
}

// Add puts an item in the cart. If a line with the same product id, the
// same modifier selection, and the same note already exists its quantity is
// incremented; otherwise a new line is appended with a fresh instance id.
func (c *Store) Add(item models.MenuItem, mods []models.OrderModifier, notes string) Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == item.ID && sameModifiers(c.lines[i].Modifiers, mods) && c.lines[i].Notes == notes {
			c.lines[i].Qty++
			c.persistLocked()
			return c.lines[i]
		}
	}

	line := Line{
		LineID:    uuid.NewString(),
		ItemID:    item.ID,
		Name:      item.Name,
		Price:     item.Price,
		Qty:       1,
		ImageURL:  item.ImageURL,
		Modifiers: append([]models.OrderModifier(nil), mods...),
		Notes:     notes,
	}
	c.lines = append(c.lines, line)
	c.persistLocked()
	return line
}

// Remove deletes the whole line with the given instance id. Quantities are
// never decremented individually.
func (c *Store) Remove(lineID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	for _, l := range c.lines {
		if l.LineID != lineID {
			kept = append(kept, l)
		}
	}
	c.lines = kept
	c.persistLocked()
}

// Clear empties the cart.
func (c *Store) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.persistLocked()
}

// Lines returns a copy of the current cart lines.
func (c *Store) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...)
}

// Total is the sum of (unit price + modifier deltas) times quantity over all
// lines, in minor currency units.
func (c *Store) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Count is the sum of quantities over all lines.
func (c *Store) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	for _, l := range c.lines {
		n += l.Qty
	}
	return n
}

// ActiveOrderID returns the remembered just-placed order id, or empty.
func (c *Store) ActiveOrderID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeOrderID
}

// SetActiveOrderID records (or, with an empty id, forgets) the order the
// status poller should track.
func (c *Store) SetActiveOrderID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeOrderID = id
	if id == "" {
		if err := c.storage.Remove(activeOrderKey); err != nil {
			log.Printf("cart: clear active order ref: %v", err)
		}
		return
	}
	if err := c.storage.Set(activeOrderKey, id); err != nil {
		log.Printf("cart: persist active order ref: %v", err)
	}
}

func (c *Store) persistLocked() {
	if err := c.storage.Set(cartKey, c.lines); err != nil {
		log.Printf("cart: persist snapshot: %v", err)
	}
}

// sameModifiers compares selections positionally, matching how the cart
// merges: the same options picked in a different order count as a
// different configuration.
func sameModifiers(a, b []models.OrderModifier) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
