package sockets

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	EventProductStockUpdated = "productStockUpdated"
	EventOrderStatusUpdated  = "orderStatusUpdated"
)

type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub fans events out to every connected client. Delivery is at most once:
// slow consumers get messages dropped, there is no replay.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Handle upgrades the request and keeps the connection registered until the
// peer goes away. Clients are write-only from the server's point of view.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Println("Websocket accept error:", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.add(c)
	defer h.remove(c)

	go c.writeLoop()

	// Drain incoming frames so pings are answered; any read error means the
	// peer is gone.
	for {
		if _, _, err := conn.Read(r.Context()); err != nil {
			return
		}
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()
	c.conn.Close(websocket.StatusNormalClosure, "")
}

// Broadcast sends the event to every connected client, skipping any whose
// buffer is full.
func (h *Hub) Broadcast(event string, data any) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		log.Println("Broadcast marshal error:", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
		}
	}
}

func (h *Hub) BroadcastProductStock(productID uint, stock int) {
	h.Broadcast(EventProductStockUpdated, map[string]any{
		"productId": productID,
		"stock":     stock,
	})
}

func (h *Hub) BroadcastOrderStatus(orderID uint, status string) {
	h.Broadcast(EventOrderStatusUpdated, map[string]any{
		"orderId": orderID,
		"status":  status,
	})
}

// ClientCount is used by tests and the status banner.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *client) writeLoop() {
	for msg := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := c.conn.Write(ctx, websocket.MessageText, msg)
		cancel()
		if err != nil {
			return
		}
	}
}
