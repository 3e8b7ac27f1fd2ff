package devserver

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"omniorder/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dev server, all origins
	},
}

// hub fans kitchen events out to every connected display.
type hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

// wsClient is one connected kitchen display.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	hub  *hub
}

func newHub() *hub {
	return &hub{clients: make(map[*wsClient]struct{})}
}

func (h *hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// broadcast queues payload on every client. Slow clients drop messages
// rather than stall the rest; they recover via the snapshot fetch on their
// next reconnect.
func (h *hub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			log.Println("devserver: kitchen client buffer full, dropping event")
		}
	}
}

// BroadcastNewOrder announces a freshly placed order to the kitchen.
func (h *hub) BroadcastNewOrder(o models.Order) {
	h.send("new_order", o)
}

// BroadcastStatus announces an order status change.
func (h *hub) BroadcastStatus(id string, status models.OrderStatus) {
	h.send("order_update", map[string]interface{}{"id": id, "status": status})
}

func (h *hub) send(event string, order interface{}) {
	payload, err := json.Marshal(map[string]interface{}{
		"event": event,
		"order": order,
	})
	if err != nil {
		log.Printf("devserver: marshal %s event: %v", event, err)
		return
	}
	h.broadcast(payload)
}

// handleKitchenSocket upgrades the connection and runs the pumps.
func (s *Server) handleKitchenSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("devserver: upgrade failed: %v", err)
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, 256),
		hub:  s.hub,
	}
	s.hub.add(client)

	go client.writePump()
	go client.readPump()
}

// readPump drains inbound frames. The kitchen stream is server-to-client;
// reads exist only to detect disconnects and answer pings.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("devserver: kitchen socket error: %v", err)
			}
			return
		}
	}
}

// writePump delivers queued events and keeps the connection alive with
// periodic pings.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
