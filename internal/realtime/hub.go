package realtime

import (
	"sync"

	"go.uber.org/zap"

	"github.com/fly8-hq/fly8-api/internal/models"
)

// Server-pushed event names.
const (
	EventNewNotification = "new_notification"
	EventCommissionPaid  = "commission_paid"
)

// Event is a named payload pushed over a live connection.
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Subscriber is one live connection. It belongs to exactly one user channel
// and one role channel, both joined before any push can reach it.
type Subscriber struct {
	UserID string
	Role   models.UserRole

	events chan Event
}

// Events exposes the subscriber's delivery channel.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Hub is the process-scoped registry of live connections, keyed by user and
// by role. Publish methods are the only mutation entry points besides
// Subscribe/Unsubscribe; membership does not survive a restart.
type Hub struct {
	mu     sync.RWMutex
	buffer int
	logger *zap.Logger
	onDrop func()

	users map[string]map[*Subscriber]struct{}
	roles map[models.UserRole]map[*Subscriber]struct{}
}

// NewHub builds an empty hub. bufferSize bounds each subscriber's event
// channel; a full channel drops events rather than blocking the publisher.
func NewHub(bufferSize int, logger *zap.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		buffer: bufferSize,
		logger: logger,
		users:  make(map[string]map[*Subscriber]struct{}),
		roles:  make(map[models.UserRole]map[*Subscriber]struct{}),
	}
}

// OnDrop registers a callback invoked once per dropped event. Set before the
// hub starts serving; it is read without locking on the publish path.
func (h *Hub) OnDrop(fn func()) {
	h.onDrop = fn
}

// Subscribe registers a connection, joining the per-user and per-role
// channels atomically.
func (h *Hub) Subscribe(userID string, role models.UserRole) *Subscriber {
	sub := &Subscriber{
		UserID: userID,
		Role:   role,
		events: make(chan Event, h.buffer),
	}

	h.mu.Lock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[*Subscriber]struct{})
	}
	h.users[userID][sub] = struct{}{}

	if h.roles[role] == nil {
		h.roles[role] = make(map[*Subscriber]struct{})
	}
	h.roles[role][sub] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("subscriber connected", zap.String("user_id", userID), zap.String("role", string(role)))
	return sub
}

// Unsubscribe removes a connection from both channels and closes its event
// stream. Safe to call once per subscriber.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	if set, ok := h.users[sub.UserID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.users, sub.UserID)
		}
	}
	if set, ok := h.roles[sub.Role]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.roles, sub.Role)
		}
	}
	// Closed under the lock so publishers never race a send against it.
	close(sub.events)
	h.mu.Unlock()

	h.logger.Debug("subscriber disconnected", zap.String("user_id", sub.UserID))
}

// PublishToUser pushes an event to every live connection of one user.
// Delivery is best effort: with no connection, or a full buffer, the event
// is dropped and the recipient catches up on the next fetch.
func (h *Hub) PublishToUser(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.users[userID] {
		h.deliver(sub, event)
	}
}

// PublishToRole pushes an event to every connection subscribed to a role.
func (h *Hub) PublishToRole(role models.UserRole, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.roles[role] {
		h.deliver(sub, event)
	}
}

// ConnectionCount reports the number of live connections for a user.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

func (h *Hub) deliver(sub *Subscriber, event Event) {
	select {
	case sub.events <- event:
	default:
		if h.onDrop != nil {
			h.onDrop()
		}
		h.logger.Warn("dropping event for slow subscriber",
			zap.String("user_id", sub.UserID),
			zap.String("event", event.Name),
		)
	}
}
