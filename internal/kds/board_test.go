package kds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"omniorder/internal/models"
)

func ticket(id string, n int, status models.OrderStatus, age time.Duration) models.Order {
	return models.Order{
		ID:           id,
		TicketNumber: n,
		CustomerName: "Ada",
		Status:       status,
		CreatedAt:    time.Now().Add(-age),
	}
}

func TestBoardInsertIsIdempotent(t *testing.T) {
	b := NewBoard()

	assert.True(t, b.Insert(ticket("o1", 1, models.StatusPending, time.Minute)))
	assert.False(t, b.Insert(ticket("o1", 1, models.StatusPending, time.Minute)), "duplicate delivery must not add a second ticket")
	assert.Equal(t, 1, b.Len())
}

func TestBoardRejectsTerminalInsert(t *testing.T) {
	b := NewBoard()

	assert.False(t, b.Insert(ticket("o1", 1, models.StatusCompleted, time.Minute)))
	assert.Equal(t, 0, b.Len())
}

func TestBoardSnapshotMergePreservesLiveState(t *testing.T) {
	b := NewBoard()

	// A live event lands before the snapshot and advances o1.
	b.Insert(ticket("o1", 1, models.StatusPending, 2*time.Minute))
	b.UpdateStatus("o1", models.StatusPreparing)

	added := b.MergeSnapshot([]models.Order{
		ticket("o1", 1, models.StatusPending, 2*time.Minute),
		ticket("o2", 2, models.StatusQueued, time.Minute),
	})

	assert.Equal(t, 1, added, "only the unknown id is inserted")
	o1, ok := b.Get("o1")
	assert.True(t, ok)
	assert.Equal(t, models.StatusPreparing, o1.Status, "snapshot must not regress a live ticket")
}

func TestBoardTerminalUpdateRemovesTicket(t *testing.T) {
	b := NewBoard()
	b.Insert(ticket("o1", 1, models.StatusReady, time.Minute))

	assert.True(t, b.UpdateStatus("o1", models.StatusCompleted))
	_, ok := b.Get("o1")
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())
}

func TestBoardUpdateIgnoresUnknownAndInvalid(t *testing.T) {
	b := NewBoard()
	b.Insert(ticket("o1", 1, models.StatusPending, time.Minute))

	assert.False(t, b.UpdateStatus("missing", models.StatusReady))
	assert.False(t, b.UpdateStatus("o1", models.OrderStatus("BURNT")))

	o1, _ := b.Get("o1")
	assert.Equal(t, models.StatusPending, o1.Status)
}

func TestBoardAdvanceWalksLifecycle(t *testing.T) {
	b := NewBoard()
	b.Insert(ticket("o1", 1, models.StatusPending, time.Minute))

	next, ok := b.Advance("o1")
	assert.True(t, ok)
	assert.Equal(t, models.StatusQueued, next)

	b.Advance("o1")
	b.Advance("o1")
	o1, _ := b.Get("o1")
	assert.Equal(t, models.StatusReady, o1.Status)

	// READY to COMPLETED removes the ticket.
	next, ok = b.Advance("o1")
	assert.True(t, ok)
	assert.Equal(t, models.StatusCompleted, next)
	assert.Equal(t, 0, b.Len())

	// Advancing a removed ticket is a no-op.
	_, ok = b.Advance("o1")
	assert.False(t, ok)
}

func TestBoardLanesFollowStatus(t *testing.T) {
	b := NewBoard()
	b.Insert(ticket("o1", 1, models.StatusPending, 3*time.Minute))
	b.Insert(ticket("o2", 2, models.StatusPending, 2*time.Minute))
	b.Insert(ticket("o3", 3, models.StatusPreparing, time.Minute))

	pending := b.Lane(models.StatusPending)
	assert.Len(t, pending, 2)
	assert.Equal(t, "o1", pending[0].ID, "oldest ticket first")

	b.UpdateStatus("o1", models.StatusPreparing)

	assert.Len(t, b.Lane(models.StatusPending), 1)
	preparing := b.Lane(models.StatusPreparing)
	assert.Len(t, preparing, 2)
	assert.Empty(t, b.Lane(models.StatusReady))
}

func TestBoardActiveSortsOldestFirst(t *testing.T) {
	b := NewBoard()
	b.Insert(ticket("o2", 2, models.StatusQueued, time.Minute))
	b.Insert(ticket("o1", 1, models.StatusPending, 5*time.Minute))
	b.Insert(ticket("o3", 3, models.StatusReady, 3*time.Minute))

	active := b.Active()
	assert.Equal(t, []string{"o1", "o3", "o2"}, []string{active[0].ID, active[1].ID, active[2].ID})
}
