// Package stream provides the subscription primitive used by the catalog and
// chat listeners: an explicit subscribe/detach pair instead of ambient
// listener state.
package stream

import "sync"

// Hub broadcasts values to any number of subscribers. Delivery never blocks
// the publisher: a subscriber that has not consumed the previous value only
// receives the latest one.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[int]chan T
	next int
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[int]chan T)}
}

// Subscribe registers a new listener. The returned detach function must be
// called when the listener is torn down; it releases the subscription and
// closes the channel.
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	detach := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, detach
}

// Publish delivers v to every subscriber, replacing any value that has not
// been consumed yet.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Len reports the number of active subscribers.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
