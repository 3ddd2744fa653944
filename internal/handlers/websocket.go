package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"beemine-admin/internal/middleware"
	"beemine-admin/internal/services"
)

// The zero CheckOrigin rejects cross-origin upgrades.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocketHandler streams queue-changed events to open moderation pages
type WebSocketHandler struct {
	hub *services.WSHub
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket handles GET /ws. The route sits behind the session guard, so only a
// logged-in admin gets a connection.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	creds := middleware.GetCredentials(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	connID := uuid.New().String()
	h.hub.Register(connID, conn)
	defer h.hub.Unregister(connID)

	log.Info().
		Str("conn_id", connID).
		Str("admin", creds.Name).
		Msg("WebSocket connection established")

	if err := h.hub.Send(connID, services.WSMessage{Type: "connected"}); err != nil {
		log.Error().Err(err).Str("conn_id", connID).Msg("Failed to send connected message")
		return
	}

	// Pages only listen; reading keeps control frames flowing and notices the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("conn_id", connID).Msg("WebSocket error")
			}
			return
		}
	}
}
