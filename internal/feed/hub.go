package feed

import (
	"context"
	"sync"
)

const (
	DefaultHistory          = 50
	DefaultSubscriberBuffer = 16
)

// Hub fans events out to in-process subscribers such as SSE streams.
// Slow subscribers miss events rather than block the publisher.
type Hub struct {
	mu      sync.Mutex
	history []Event
	subs    map[uint64]chan Event
	nextID  uint64
	size    int
	buffer  int
}

type Subscription struct {
	hub  *Hub
	id   uint64
	ch   chan Event
	once sync.Once
}

func NewHub() *Hub {
	return &Hub{
		subs:   make(map[uint64]chan Event),
		size:   DefaultHistory,
		buffer: DefaultSubscriberBuffer,
	}
}

func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mu.Lock()
	h.history = append(h.history, ev)
	if len(h.history) > h.size {
		h.history = h.history[len(h.history)-h.size:]
	}

	subs := make([]chan Event, 0, len(h.subs))
	for _, ch := range h.subs {
		subs = append(subs, ch)
	}
	h.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}

	return nil
}

// Subscribe returns a live subscription and the recent history.
func (h *Hub) Subscribe() (*Subscription, []Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan Event, h.buffer)
	h.subs[id] = ch

	return &Subscription{hub: h, id: id, ch: ch}, append([]Event(nil), h.history...)
}

func (s *Subscription) Events() <-chan Event {
	return s.ch
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
	})
}
