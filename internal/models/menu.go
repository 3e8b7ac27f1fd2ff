package models

import "fmt"

// ModifierOption is one selectable choice inside a modifier group.
// Price is a delta in minor currency units and may be zero.
type ModifierOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// ModifierGroup is a named choice set attached to a menu item, e.g.
// "Size": Small/Large, with bounds on how many options may be picked.
type ModifierGroup struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	MinSelect int              `json:"min_select"`
	MaxSelect int              `json:"max_select"`
	Options   []ModifierOption `json:"options"`
}

// MenuItem is a sellable product. Price is in minor currency units.
type MenuItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Price          int64           `json:"price"`
	ImageURL       string          `json:"image_url,omitempty"`
	IsAvailable    bool            `json:"is_available"`
	CategoryID     string          `json:"category_id,omitempty"`
	ModifierGroups []ModifierGroup `json:"modifier_groups,omitempty"`
}

// Category groups menu items for display. Rank controls ordering.
type Category struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Rank  int        `json:"rank"`
	Items []MenuItem `json:"items,omitempty"`
}

// Validate checks the required fields of a menu item from the API boundary.
func (m *MenuItem) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("menu item: missing id")
	}
	if m.Name == "" {
		return fmt.Errorf("menu item %s: missing name", m.ID)
	}
	if m.Price < 0 {
		return fmt.Errorf("menu item %s: negative price", m.ID)
	}
	for _, g := range m.ModifierGroups {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("menu item %s: %w", m.ID, err)
		}
	}
	return nil
}

// Validate checks a modifier group's structural invariants.
func (g *ModifierGroup) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("modifier group: missing id")
	}
	if g.MinSelect < 0 || g.MaxSelect < g.MinSelect {
		return fmt.Errorf("modifier group %s: invalid selection bounds %d..%d", g.ID, g.MinSelect, g.MaxSelect)
	}
	for _, opt := range g.Options {
		if opt.ID == "" {
			return fmt.Errorf("modifier group %s: option missing id", g.ID)
		}
	}
	return nil
}

// Validate checks a category and its nested items.
func (c *Category) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("category: missing id")
	}
	if c.Name == "" {
		return fmt.Errorf("category %s: missing name", c.ID)
	}
	for i := range c.Items {
		if err := c.Items[i].Validate(); err != nil {
			return fmt.Errorf("category %s: %w", c.ID, err)
		}
	}
	return nil
}
