// Package ws pushes game events to a user's open websocket connections.
package ws

import (
	"encoding/json"
	"sync"

	"mainet/internal/logger"
	"mainet/internal/metrics"

	"github.com/google/uuid"
)

// Hub tracks every open connection per user. The table lives in process
// memory only and is rebuilt as clients reconnect.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	logger.Debug("ws client registered", "user_id", c.UserID)
}

// Unregister removes the client and closes its send channel. Calling it
// twice is harmless.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.UserID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := set[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	close(c.send)
	h.mu.Unlock()

	metrics.WSConnections.Dec()
	logger.Debug("ws client unregistered", "user_id", c.UserID)
}

// Notify sends {"type": event, "data": data} to every connection of the user.
// A client whose buffer is full is dropped instead of blocking the caller.
func (h *Hub) Notify(userID uuid.UUID, event string, data any) {
	msg, err := json.Marshal(Message{Type: event, Data: data})
	if err != nil {
		logger.Error("ws marshal failed", "event", event, "error", err)
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.clients[userID] {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.Warn("ws client too slow, dropping", "user_id", userID, "event", event)
		h.Unregister(c)
	}
}

// Connections returns the number of open connections
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// UserConnections returns the number of open connections for one user
func (h *Hub) UserConnections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Sweep unregisters clients whose read side has finished and resets the
// connection gauge to the live count.
func (h *Hub) Sweep() int {
	var dead []*Client
	h.mu.RLock()
	for _, set := range h.clients {
		for c := range set {
			if c.closed() {
				dead = append(dead, c)
			}
		}
	}
	h.mu.RUnlock()

	for _, c := range dead {
		h.Unregister(c)
	}
	metrics.WSConnections.Set(float64(h.Connections()))
	return len(dead)
}
