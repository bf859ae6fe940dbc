package ws

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"focusflight/internal/models"
)

// Event types pushed on the flight feed.
const (
	EventStarted           = "started"
	EventSeatAssigned      = "seat_assigned"
	EventCompleted         = "completed"
	EventCancelled         = "cancelled"
	EventAchievementEarned = "achievement_earned"
)

// Event is one lifecycle notification for a session.
type Event struct {
	Type        string              `json:"type"`
	SessionID   int64               `json:"session_id"`
	At          time.Time           `json:"at"`
	Session     *models.Session     `json:"session,omitempty"`
	Achievement *models.Achievement `json:"achievement,omitempty"`
}

// Hub fans lifecycle events out to feed subscribers, keyed by session id.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int64]map[*subscriber]struct{}
	logger *zap.Logger
}

type subscriber struct {
	sessionID int64
	send      chan []byte
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[int64]map[*subscriber]struct{}),
		logger: logger,
	}
}

// Publish delivers the event to every subscriber of its session. Slow
// subscribers have the message dropped rather than blocking the caller.
func (h *Hub) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("failed to encode flight event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[event.SessionID] {
		select {
		case sub.send <- data:
		default:
			h.logger.Warn("dropping flight event, subscriber buffer full",
				zap.Int64("session_id", event.SessionID))
		}
	}
}

func (h *Hub) subscribe(sessionID int64) *subscriber {
	sub := &subscriber{
		sessionID: sessionID,
		send:      make(chan []byte, 16),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[*subscriber]struct{})
	}
	h.subs[sessionID][sub] = struct{}{}
	return sub
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[sub.sessionID]
	if set == nil {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.sessionID)
	}
}
