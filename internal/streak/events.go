package streak

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventKind identifies what happened to a streak.
type EventKind string

const (
	EventStreakUpdated EventKind = "streak_updated"
	EventStreakReset   EventKind = "streak_reset"
)

// Event is broadcast after a streak write completes.
type Event struct {
	ID            string    `json:"id"`
	Kind          EventKind `json:"kind"`
	UserID        uint      `json:"user_id"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	At            time.Time `json:"at"`
}

func newEvent(kind EventKind, userID uint, current, longest int, at time.Time) Event {
	return Event{
		ID:            uuid.NewString(),
		Kind:          kind,
		UserID:        userID,
		CurrentStreak: current,
		LongestStreak: longest,
		At:            at,
	}
}

// Hub is an in-process fire-and-forget publish/subscribe bus. A slow
// subscriber loses events instead of blocking the publisher.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]subscriber
	nextID uint64
	buffer int
	closed bool
}

type subscriber struct {
	ch     chan Event
	userID uint // zero receives every user's events
}

func (s subscriber) wants(ev Event) bool {
	return s.userID == 0 || s.userID == ev.UserID
}

// NewHub creates a hub whose subscriber channels hold up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[uint64]subscriber),
		buffer: buffer,
	}
}

// Subscribe registers a subscriber for every user's events. The returned
// cancel func removes it and closes the channel; it is safe to call more
// than once.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	return h.subscribe(0)
}

// SubscribeUser registers a subscriber that only receives events of userID,
// so other users' traffic never takes space in its buffer.
func (h *Hub) SubscribeUser(userID uint) (<-chan Event, func()) {
	return h.subscribe(userID)
}

func (h *Hub) subscribe(userID uint) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = subscriber{ch: ch, userID: userID}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub.ch)
			}
		})
	}
}

// Publish delivers ev to every interested subscriber without blocking.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if !sub.wants(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscriber channel. Later subscriptions get a closed
// channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}
