package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	EventTodoCreated = "todo.created"
	EventTodoUpdated = "todo.updated"
	EventTodoDeleted = "todo.deleted"
)

const (
	writeWait = 10 * time.Second

	// sendBufferSize is how many events a client may fall behind before it is dropped.
	sendBufferSize = 16
)

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans todo change events out to every connected client. Each client has
// its own writer goroutine, so Broadcast never waits on the network.
type Hub struct {
	clients map[uuid.UUID]*client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*client),
	}
}

func (h *Hub) Register(conn *websocket.Conn) uuid.UUID {
	id := uuid.New()
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[id] = c
	total := len(h.clients)
	h.mu.Unlock()

	go h.writePump(id, c)

	log.Printf("[Hub] client %s connected, total connections: %d", id, total)
	return id
}

// Unregister closes the client's queue and connection. Safe to call twice.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, exists := h.clients[id]; exists {
		delete(h.clients, id)
		close(c.send)
		c.conn.Close()
		log.Printf("[Hub] client %s disconnected, total connections: %d", id, len(h.clients))
	}
}

func (h *Hub) writePump(id uuid.UUID, c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[Hub] write to %s failed: %v", id, err)
			h.Unregister(id)
			return
		}
	}
}

// Broadcast queues msg for every client without blocking. Clients whose queue
// is full are dropped.
func (h *Hub) Broadcast(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	var slow []uuid.UUID

	h.mu.RLock()
	for id, c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		log.Printf("[Hub] client %s is not keeping up, dropping", id)
		h.Unregister(id)
	}
	return nil
}

// Publish is a no-op on a nil hub.
func (h *Hub) Publish(eventType string, data interface{}) {
	if h == nil {
		return
	}
	if err := h.Broadcast(Message{Type: eventType, Data: data}); err != nil {
		log.Printf("[Hub] publish %s failed: %v", eventType, err)
	}
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
