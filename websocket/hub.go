package websocket

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/HSouheill/webinar_backend/logging"
)

// Define notification types
const (
	NotificationTypeConnected    = "connected"
	NotificationTypeRegistration = "registration"
)

// ErrNotConnected is returned when the target user has no open connection
var ErrNotConnected = errors.New("user not connected")

// Notification represents a message sent over WebSocket
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userID,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID string
	Conn   *websocket.Conn
	mu     sync.Mutex
}

// WriteJSON serialises writes, gorilla connections allow one writer at a time
func (c *Client) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteJSON(v)
}

// Hub maintains the set of active clients per user
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
			client.Conn.Close()
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[client.UserID]
	if !ok {
		conns = make(map[*Client]struct{})
		h.clients[client.UserID] = conns
	}
	conns[client] = struct{}{}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.UserID)
	}
}

// Connections returns the number of open connections for a user
func (h *Hub) Connections(uid string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[uid])
}

// SendToUser sends a message to every connection of a user
func (h *Hub) SendToUser(uid string, notification Notification) error {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[uid]))
	for client := range h.clients[uid] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return ErrNotConnected
	}

	delivered := 0
	for _, client := range targets {
		if err := client.WriteJSON(notification); err != nil {
			logging.Debug("WebSocket write failed", "uid", uid, "error", err)
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return ErrNotConnected
	}
	return nil
}
