package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/colonyops/storefront/internal/core/eventbus"
)

const writeWait = 2 * time.Second

// Message is one frame of the event stream.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Hub fans event-bus events out to connected websocket clients. Writes to a
// connection only happen under mu, so each conn has a single writer.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	log     zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		log:     logger,
	}
}

// Add writes hello to ws and registers it. Nothing broadcast after Add
// returns is missed.
func (h *Hub) Add(ws *websocket.Conn, hello Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := write(ws, hello); err != nil {
		return err
	}
	h.clients[ws] = struct{}{}
	return nil
}

// Remove unregisters and closes ws.
func (h *Hub) Remove(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Relay is an eventbus.SubscribeAll callback.
func (h *Hub) Relay(event eventbus.Event, payload any) {
	h.Broadcast(Message{Type: string(event), Payload: payload})
}

// Broadcast sends msg to every client. Clients that fail to accept the write
// are dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Str("type", msg.Type).Msg("encode message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for ws := range h.clients {
		_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug().Err(err).Msg("dropping websocket client")
			_ = ws.Close()
			delete(h.clients, ws)
		}
	}
}

// CloseAll sends a close frame to every client and forgets them.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	closing := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for ws := range h.clients {
		_ = ws.WriteControl(websocket.CloseMessage, closing, time.Now().Add(writeWait))
		_ = ws.Close()
		delete(h.clients, ws)
	}
}

func write(ws *websocket.Conn, msg Message) error {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.WriteJSON(msg)
}
