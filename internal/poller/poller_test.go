package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"omniorder/internal/api"
	"omniorder/internal/models"
)

// scriptedFetcher returns its responses in sequence, repeating the last.
type scriptedFetcher struct {
	mu        sync.Mutex
	responses []response
	calls     int
}

type response struct {
	order *models.Order
	err   error
}

func (f *scriptedFetcher) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	f.calls++
	r := f.responses[i]
	return r.order, r.err
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func order(status models.OrderStatus) *models.Order {
	return &models.Order{ID: "ord-1", TicketNumber: 3, CustomerName: "Ada", Status: status}
}

func TestPollerStopsAtTerminalStatus(t *testing.T) {
	fetch := &scriptedFetcher{responses: []response{
		{order: order(models.StatusPending)},
		{order: order(models.StatusPreparing)},
		{order: order(models.StatusCompleted)},
	}}

	var seen []models.OrderStatus
	var mu sync.Mutex
	p := New(fetch, 5*time.Millisecond)
	p.OnUpdate = func(o models.Order) {
		mu.Lock()
		seen = append(seen, o.Status)
		mu.Unlock()
	}

	done := make(chan struct{})
	go func() {
		p.Run(context.Background(), "ord-1")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop at terminal status")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []models.OrderStatus{
		models.StatusPending, models.StatusPreparing, models.StatusCompleted,
	}, seen)
}

func TestPollerClearsReferenceOnGone(t *testing.T) {
	fetch := &scriptedFetcher{responses: []response{
		{err: api.ErrNotFound},
	}}

	gone := false
	p := New(fetch, 5*time.Millisecond)
	p.OnGone = func() { gone = true }
	p.OnUpdate = func(models.Order) { t.Error("no update expected for a gone order") }

	p.Run(context.Background(), "ord-stale")
	assert.True(t, gone)
	assert.Equal(t, 1, fetch.callCount())
}

func TestPollerIgnoresTransientErrors(t *testing.T) {
	fetch := &scriptedFetcher{responses: []response{
		{err: errors.New("connection refused")},
		{err: errors.New("connection refused")},
		{order: order(models.StatusCompleted)},
	}}

	updates := 0
	p := New(fetch, 5*time.Millisecond)
	p.OnUpdate = func(models.Order) { updates++ }

	done := make(chan struct{})
	go func() {
		p.Run(context.Background(), "ord-1")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not survive transient errors")
	}
	assert.Equal(t, 1, updates, "only the successful fetch reaches the UI")
	assert.GreaterOrEqual(t, fetch.callCount(), 3)
}

func TestPollerStopsOnCancel(t *testing.T) {
	fetch := &scriptedFetcher{responses: []response{
		{order: order(models.StatusPending)},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	p := New(fetch, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Run(ctx, "ord-1")
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}
