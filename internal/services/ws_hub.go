package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const wsWriteTimeout = 5 * time.Second

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Queue     string `json:"queue,omitempty"`
	ItemID    string `json:"item_id,omitempty"`
	Action    string `json:"action,omitempty"`
	Message   string `json:"message,omitempty"`
}

// wsConn serializes writes to one connection; gorilla allows a single concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub manages the WebSocket connections of open moderation pages
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*wsConn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*wsConn),
	}
}

// Register registers a new WebSocket connection
func (h *WSHub) Register(connID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, exists := h.connections[connID]; exists {
		existing.conn.Close()
	}
	h.connections[connID] = &wsConn{conn: conn}

	log.Debug().Str("conn_id", connID).Msg("WebSocket connection registered")
}

// Unregister removes a WebSocket connection
func (h *WSHub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, exists := h.connections[connID]; exists {
		c.conn.Close()
		delete(h.connections, connID)
		log.Debug().Str("conn_id", connID).Msg("WebSocket connection unregistered")
	}
}

// Send sends a message to one connection
func (h *WSHub) Send(connID string, message WSMessage) error {
	h.mu.RLock()
	c, exists := h.connections[connID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("connection %s is not registered", connID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := c.write(data); err != nil {
		h.Unregister(connID)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Broadcast sends a message to every connection. Connections that fail are dropped.
func (h *WSHub) Broadcast(message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal broadcast message")
		return
	}

	h.mu.RLock()
	targets := make(map[string]*wsConn, len(h.connections))
	for id, c := range h.connections {
		targets[id] = c
	}
	h.mu.RUnlock()

	for id, c := range targets {
		if err := c.write(data); err != nil {
			log.Error().Err(err).Str("conn_id", id).Msg("Failed to broadcast message")
			h.Unregister(id)
		}
	}
}

// Count returns the number of open connections
func (h *WSHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// NotifyQueueChanged implements QueueNotifier
func (h *WSHub) NotifyQueueChanged(queue, itemID, action string) {
	h.Broadcast(WSMessage{
		Type:      "queue_changed",
		Timestamp: time.Now().UnixMilli(),
		Queue:     queue,
		ItemID:    itemID,
		Action:    action,
	})
}

// CloseAll closes every open connection. Hijacked connections outlive http.Server.Shutdown,
// so the server calls this before shutting down.
func (h *WSHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.connections {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.conn.Close()
		delete(h.connections, id)
	}
}
