package kds

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"omniorder/internal/models"
	"omniorder/internal/monitoring"
)

// DefaultReconnectDelay matches the web client's fixed 3 second retry.
const DefaultReconnectDelay = 3 * time.Second

// ConnState is the event-stream connection state.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Backend is the slice of the API the kitchen client needs.
type Backend interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
	KitchenSocketURL() string
}

// event is the wire shape of a kitchen broadcast.
type event struct {
	Event string          `json:"event"`
	Order json.RawMessage `json:"order"`
}

// statusUpdate is the payload of an order_update broadcast.
type statusUpdate struct {
	ID     string             `json:"id"`
	Status models.OrderStatus `json:"status"`
}

// Client keeps the Board live against the kitchen event stream. It is
// inert until Start is called (activation is an explicit staff gesture),
// then reconnects forever on a fixed delay until Stop.
type Client struct {
	backend Backend
	board   *Board
	metrics *monitoring.KitchenMetrics
	dialer  *websocket.Dialer

	// ReconnectDelay is fixed; there is no backoff growth and no retry
	// ceiling.
	ReconnectDelay time.Duration

	// OnNewOrder fires for each ticket actually added to the board; the
	// TUI hooks its new-ticket alert here.
	OnNewOrder func(models.Order)
	// OnStateChange observes connection state transitions.
	OnStateChange func(ConnState)

	mu     sync.Mutex
	state  ConnState
	cancel context.CancelFunc
	done   chan struct{}
}

// NewClient builds a kitchen client over backend. A nil metrics handle
// disables instrumentation.
func NewClient(backend Backend, metrics *monitoring.KitchenMetrics) *Client {
	if metrics == nil {
		metrics = monitoring.NopKitchenMetrics()
	}
	return &Client{
		backend:        backend,
		board:          NewBoard(),
		metrics:        metrics,
		dialer:         websocket.DefaultDialer,
		ReconnectDelay: DefaultReconnectDelay,
		state:          StateDisconnected,
	}
}

// Board exposes the working set for rendering.
func (c *Client) Board() *Board { return c.board }

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s ConnState) {
	c.mu.Lock()
	changed := c.state != s
	c.state = s
	cb := c.OnStateChange
	c.mu.Unlock()

	if s == StateConnected {
		c.metrics.Connected.Set(1)
	} else {
		c.metrics.Connected.Set(0)
	}
	if changed && cb != nil {
		cb(s)
	}
}

// Start activates the kitchen display: it transitions to the connect loop,
// which fetches a baseline snapshot and holds the event stream open,
// reconnecting on loss for the life of the session. Calling Start twice
// without Stop is a no-op.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go func() {
		defer close(done)
		c.run(runCtx)
	}()
}

// Stop tears the client down: the socket closes and all pending timers are
// cleared. The board keeps its last contents for a final render.
func (c *Client) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	c.setState(StateDisconnected)
}

// run is the connection state machine: disconnected, connecting,
// connected, back to disconnected on any loss, with a fixed-delay retry.
func (c *Client) run(ctx context.Context) {
	sessions := 0
	for {
		if ctx.Err() != nil {
			return
		}

		c.setState(StateConnecting)
		conn, _, err := c.dialer.DialContext(ctx, c.backend.KitchenSocketURL(), nil)
		if err != nil {
			log.Printf("kds: connect failed: %v", err)
			c.setState(StateDisconnected)
			if !c.sleep(ctx) {
				return
			}
			continue
		}

		// Only an actually re-established stream counts as a reconnect;
		// failed dial attempts do not.
		sessions++
		if sessions > 1 {
			c.metrics.Reconnects.Inc()
		}

		c.setState(StateConnected)

		// Baseline snapshot after every (re)connect. The snapshot and the
		// first live events race; the board's idempotent insert absorbs
		// whichever order they land in.
		c.fetchSnapshot(ctx)

		c.readLoop(ctx, conn)
		conn.Close()
		c.setState(StateDisconnected)

		if !c.sleep(ctx) {
			return
		}
	}
}

// sleep waits out the reconnect delay; false means the session ended.
func (c *Client) sleep(ctx context.Context) bool {
	t := time.NewTimer(c.ReconnectDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Client) fetchSnapshot(ctx context.Context) {
	orders, err := c.backend.ListOrders(ctx)
	if err != nil {
		// The stream still delivers new orders; the next reconnect
		// re-fetches.
		log.Printf("kds: snapshot fetch failed: %v", err)
		return
	}
	if ctx.Err() != nil {
		return
	}
	added := c.board.MergeSnapshot(orders)
	if added > 0 {
		log.Printf("kds: snapshot added %d tickets", added)
	}
	c.metrics.ActiveTickets.Set(float64(c.board.Len()))
}

// readLoop applies inbound events in delivery order until the connection
// drops or the session ends.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	// The watcher lives only as long as this connection: it unblocks the
	// read below on cancel, and exits with the read loop otherwise.
	readDone := make(chan struct{})
	defer close(readDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-readDone:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("kds: stream error: %v", err)
			}
			return
		}
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(message []byte) {
	var ev event
	if err := json.Unmarshal(message, &ev); err != nil {
		log.Printf("kds: malformed event: %v", err)
		return
	}
	c.metrics.Events.WithLabelValues(ev.Event).Inc()

	switch ev.Event {
	case "new_order":
		var order models.Order
		if err := json.Unmarshal(ev.Order, &order); err != nil {
			log.Printf("kds: malformed new_order: %v", err)
			return
		}
		if err := order.Validate(); err != nil {
			log.Printf("kds: rejecting new_order: %v", err)
			return
		}
		if c.board.Insert(order) {
			if c.OnNewOrder != nil {
				c.OnNewOrder(order)
			}
		}
	case "order_update":
		var upd statusUpdate
		if err := json.Unmarshal(ev.Order, &upd); err != nil {
			log.Printf("kds: malformed order_update: %v", err)
			return
		}
		c.board.UpdateStatus(upd.ID, upd.Status)
	default:
		log.Printf("kds: ignoring unknown event %q", ev.Event)
	}
	c.metrics.ActiveTickets.Set(float64(c.board.Len()))
}

// Advance bumps an order to its next status. The board mutates first so
// the ticket moves on screen immediately, then a best-effort PUT tells
// the server. A failed PUT is logged, not retried, and not rolled back:
// the server converges via the next snapshot or broadcast.
func (c *Client) Advance(ctx context.Context, id string) {
	next, ok := c.board.Advance(id)
	if !ok {
		return
	}
	c.metrics.ActiveTickets.Set(float64(c.board.Len()))

	go func() {
		if err := c.backend.UpdateOrderStatus(ctx, id, next); err != nil {
			log.Printf("kds: status update for %s failed: %v", id, err)
		}
	}()
}
