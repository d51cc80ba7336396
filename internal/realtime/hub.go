package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"medtracker/internal/metrics"

	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Clients are not expected to send anything.
	maxMessageSize = 512

	sendBufferSize = 16
)

// EventMedicationUpdate is emitted when a medication is marked taken.
const EventMedicationUpdate = "medicationUpdate"

// Event is the message written to subscribers.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Publisher delivers an event to every subscriber of a user's topic.
type Publisher interface {
	Publish(ctx context.Context, userID int64, event Event) error
}

// Hub keeps the connected clients grouped by user.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

// Register subscribes c to its user's topic.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*Client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
	h.mu.Unlock()

	metrics.WSClients.Inc()
	logrus.WithField("user_id", c.userID).Debug("Realtime client registered")
}

// Unregister removes c and closes its send channel. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	removed := false
	if set := h.clients[c.userID]; set != nil {
		if _, ok := set[c]; ok {
			delete(set, c)
			removed = true
		}
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()

	if removed {
		metrics.WSClients.Dec()
		logrus.WithField("user_id", c.userID).Debug("Realtime client unregistered")
	}
	c.closeSend()
}

// Publish encodes event and delivers it to the user's local clients.
func (h *Hub) Publish(_ context.Context, userID int64, event Event) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode realtime event: %w", err)
	}
	metrics.EventsPublished.WithLabelValues(event.Event).Inc()
	h.Deliver(userID, msg)
	return nil
}

// Deliver queues msg for every client of userID without blocking and
// returns how many clients accepted it. Clients with a full buffer miss it.
func (h *Hub) Deliver(userID int64, msg []byte) int {
	h.mu.RLock()
	recipients := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		recipients = append(recipients, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range recipients {
		if c.enqueue(msg) {
			delivered++
		} else {
			logrus.WithField("user_id", userID).Warn("Realtime client buffer full, event dropped")
		}
	}
	return delivered
}

// ClientCount returns the number of connected clients across all users.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	all := make([]*Client, 0)
	for _, set := range h.clients {
		for c := range set {
			all = append(all, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range all {
		h.Unregister(c)
	}
}
