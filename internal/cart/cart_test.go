package cart

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omniorder/internal/models"
	"omniorder/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := storage.Open(filepath.Join(t.TempDir(), "local.json"))
	require.NoError(t, err)
	return New(st)
}

var (
	burger = models.MenuItem{ID: "itm-1", Name: "The OmniBurger", Price: 1400}
	fries  = models.MenuItem{ID: "itm-2", Name: "Truffle Fries", Price: 600}

	extraCheese = models.OrderModifier{OptionID: "opt-1", OptionName: "Extra Cheese", Price: 150}
	noOnion     = models.OrderModifier{OptionID: "opt-2", OptionName: "No Onion", Price: 0}
)

func TestAddMergesIdenticalConfiguration(t *testing.T) {
	c := newTestStore(t)

	for i := 0; i < 3; i++ {
		c.Add(burger, []models.OrderModifier{extraCheese}, "well done")
	}

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Qty)
	assert.Equal(t, 3, c.Count())
}

func TestAddKeepsDistinctConfigurationsApart(t *testing.T) {
	c := newTestStore(t)

	c.Add(burger, []models.OrderModifier{extraCheese}, "")
	c.Add(burger, []models.OrderModifier{extraCheese, noOnion}, "")
	c.Add(burger, []models.OrderModifier{extraCheese}, "well done")
	c.Add(burger, nil, "")

	lines := c.Lines()
	assert.Len(t, lines, 4)

	// Every line carries its own instance id.
	seen := map[string]bool{}
	for _, l := range lines {
		assert.NotEmpty(t, l.LineID)
		assert.False(t, seen[l.LineID], "duplicate line id")
		seen[l.LineID] = true
	}
}

func TestTotalWithModifierDeltas(t *testing.T) {
	c := newTestStore(t)

	// One item priced 1000 with a 150 modifier, quantity 2, comes to 2300.
	item := models.MenuItem{ID: "itm-9", Name: "Special", Price: 1000}
	c.Add(item, []models.OrderModifier{extraCheese}, "")
	c.Add(item, []models.OrderModifier{extraCheese}, "")

	assert.Equal(t, int64(2300), c.Total())
	assert.Equal(t, 2, c.Count())
}

func TestRemoveDeletesWholeLine(t *testing.T) {
	c := newTestStore(t)

	c.Add(burger, nil, "")
	c.Add(burger, nil, "")
	line := c.Add(fries, nil, "")

	before := c.Total()
	c.Remove(line.LineID)

	assert.Equal(t, before-line.Subtotal(), c.Total())
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, burger.ID, c.Lines()[0].ItemID)

	// Removing the quantity-2 line deletes it entirely, not one unit.
	c.Remove(c.Lines()[0].LineID)
	assert.Empty(t, c.Lines())
	assert.Zero(t, c.Total())
}

func TestPersistenceAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.json")
	st, err := storage.Open(path)
	require.NoError(t, err)

	c := New(st)
	c.Add(burger, []models.OrderModifier{extraCheese}, "note")
	c.SetActiveOrderID("ord-42")

	// Fresh store over the same file simulates a page reload.
	st2, err := storage.Open(path)
	require.NoError(t, err)
	reloaded := New(st2)

	require.Len(t, reloaded.Lines(), 1)
	assert.Equal(t, burger.ID, reloaded.Lines()[0].ItemID)
	assert.Equal(t, "ord-42", reloaded.ActiveOrderID())

	reloaded.SetActiveOrderID("")
	st3, err := storage.Open(path)
	require.NoError(t, err)
	assert.Empty(t, New(st3).ActiveOrderID())
}

func TestClear(t *testing.T) {
	c := newTestStore(t)
	c.Add(burger, nil, "")
	c.Add(fries, nil, "")
	c.Clear()

	assert.Empty(t, c.Lines())
	assert.Zero(t, c.Count())
	assert.Zero(t, c.Total())
}
