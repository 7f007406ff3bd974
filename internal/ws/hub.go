package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Envelope is the wire framing for every message in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Hub tracks live connections and implements the engine's Sender
// interface. Sends never block: each client owns a buffered queue and a
// slow client drops messages rather than stalling a room.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		log:     log,
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

// Send marshals the payload into an envelope and queues it for one
// connection. Unknown connections are dropped silently; the game layer
// may legitimately address a client that just went away.
func (h *Hub) Send(connID string, event string, payload any) {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("marshal payload")
		return
	}
	msg, err := json.Marshal(Envelope{Type: event, Data: data})
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("marshal envelope")
		return
	}

	select {
	case c.send <- msg:
	default:
		h.log.Warn().Str("conn", connID).Str("event", event).Msg("send queue full, dropping")
	}
}

// Count reports the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
