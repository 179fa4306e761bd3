package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Add(m Message) (Message, error)
	// Recent returns the last N messages in chronological order.
	Recent(limit int) ([]Message, error)
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	messages []Message
	lastTS   int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{messages: make([]Message, 0)}
}

func (r *InMemoryRepository) Add(m Message) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp == 0 {
		m.Timestamp = r.nextTimestamp()
	}
	m.UserName = m.DisplayName()
	r.messages = append(r.messages, m)
	return m, nil
}

func (r *InMemoryRepository) Recent(limit int) ([]Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := 0
	if limit > 0 && len(r.messages) > limit {
		start = len(r.messages) - limit
	}
	out := make([]Message, len(r.messages)-start)
	copy(out, r.messages[start:])
	return out, nil
}

// nextTimestamp keeps message timestamps strictly increasing even when two
// posts land in the same millisecond. Callers must hold the write lock.
func (r *InMemoryRepository) nextTimestamp() int64 {
	now := time.Now().UnixMilli()
	if now <= r.lastTS {
		now = r.lastTS + 1
	}
	r.lastTS = now
	return now
}
