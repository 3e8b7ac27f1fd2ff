// Package poller tracks a single just-placed order for the storefront,
// fetching its status on a fixed interval until it completes or disappears.
// It is presentation-only: transient failures are ignored and retried on
// the next tick, with no backoff.
package poller

import (
	"context"
	"errors"
	"log"
	"time"

	"omniorder/internal/api"
	"omniorder/internal/models"
)

// DefaultInterval matches the web storefront's 5 second poll.
const DefaultInterval = 5 * time.Second

// OrderFetcher is the single-order read the poller depends on.
type OrderFetcher interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
}

// Poller polls one order's status while an active order id is held.
type Poller struct {
	fetch    OrderFetcher
	interval time.Duration

	// OnUpdate receives each fetched snapshot, including the terminal one.
	OnUpdate func(models.Order)
	// OnGone fires when the server reports the order no longer exists;
	// the caller should clear its remembered active-order reference.
	OnGone func()
}

// New builds a poller over fetch. A non-positive interval uses the default.
func New(fetch OrderFetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{fetch: fetch, interval: interval}
}

// Run polls orderID until the order reaches the terminal status, the
// server reports it gone, or ctx is cancelled. The first fetch is
// immediate; later fetches follow the fixed interval. Run blocks; callers
// run it in a goroutine and cancel ctx on teardown.
func (p *Poller) Run(ctx context.Context, orderID string) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if done := p.poll(ctx, orderID); done {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// poll performs one fetch. It returns true when polling should stop.
func (p *Poller) poll(ctx context.Context, orderID string) bool {
	order, err := p.fetch.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			if p.OnGone != nil {
				p.OnGone()
			}
			return true
		}
		if ctx.Err() != nil {
			return true
		}
		// Transient failure: stay quiet, try again next tick.
		return false
	}

	// Late responses after teardown must not reach the UI.
	if ctx.Err() != nil {
		return true
	}
	if p.OnUpdate != nil {
		p.OnUpdate(*order)
	}
	if order.Status.Terminal() {
		log.Printf("poller: order %s completed, stopping", orderID)
		return true
	}
	return false
}
