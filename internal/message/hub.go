package message

import (
	"sync"

	"github.com/google/uuid"
)

const subscriberBuffer = 16

// Event pairs a stored message with the member owning its thread, so
// stream consumers can filter without a lookup. For root messages the
// owner is the author; for replies it is the thread starter.
type Event struct {
	Message     *Message
	ThreadOwner *uuid.UUID
}

// Hub fans freshly written messages out to connected stream
// subscribers. Slow subscribers drop events rather than block the
// writer.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscription is one consumer's view of the hub. Events arrive on C.
// Messages already seen by this subscriber are filtered out, so a
// client that wrote optimistically does not render its own message
// twice.
type Subscription struct {
	C chan Event

	hub  *Hub
	mu   sync.Mutex
	seen map[uuid.UUID]struct{}
}

func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		C:    make(chan Event, subscriberBuffer),
		hub:  h,
		seen: make(map[uuid.UUID]struct{}),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (s *Subscription) Close() {
	s.hub.mu.Lock()
	delete(s.hub.subs, s)
	s.hub.mu.Unlock()
}

// MarkSeen records a message id this subscriber already holds locally,
// typically from its own optimistic send.
func (s *Subscription) MarkSeen(id uuid.UUID) {
	s.mu.Lock()
	s.seen[id] = struct{}{}
	s.mu.Unlock()
}

func (s *Subscription) admit(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}

// Publish delivers e to every current subscriber exactly once.
func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if !sub.admit(e.Message.ID) {
			continue
		}
		select {
		case sub.C <- e:
		default:
		}
	}
}
