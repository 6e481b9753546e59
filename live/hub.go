// Package live pushes content changes to connected site visitors over
// WebSocket, so tournament cards update without a page refresh.
package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Event is the frame broadcast to every connected client.
type Event struct {
	Type    string      `json:"type"` // e.g. "TOURNAMENT_UPDATED"
	Payload interface{} `json:"payload,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Hub fans events out to every registered client. There is a single room:
// the whole site shares one stream of content updates.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	logger     *slog.Logger
	mu         sync.RWMutex
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.logger.Info("live client registered", slog.Int("clients", len(h.clients)))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				client.closeSend()
				delete(h.clients, client)
				h.logger.Info("live client unregistered", slog.Int("clients", len(h.clients)))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if !client.trySend(message) {
					h.logger.Warn("live client send buffer full, dropping frame")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish marshals an event and queues it for every connected client. Safe
// to call from any goroutine; a hub that nobody listens to still drains.
func (h *Hub) Publish(eventType string, payload interface{}) {
	frame, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal live event", slog.String("type", eventType), slog.Any("error", err))
		return
	}
	select {
	case h.broadcast <- frame:
	default:
		h.logger.Warn("live broadcast buffer full, dropping event", slog.String("type", eventType))
	}
}
