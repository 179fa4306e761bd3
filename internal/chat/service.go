package chat

import (
	"errors"
	"strings"
	"sync"

	"github.com/precoreal/storefront-backend/internal/stream"
)

// DefaultRecentLimit bounds how much history a new listener receives.
const DefaultRecentLimit = 25

var ErrEmptyMessage = errors.New("message text is empty")

type Service struct {
	repo Repository
	hub  *stream.Hub[struct{}]
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, hub: stream.NewHub[struct{}]()}
}

func (s *Service) Post(m Message) (Message, error) {
	if strings.TrimSpace(m.Text) == "" {
		return Message{}, ErrEmptyMessage
	}

	added, err := s.repo.Add(m)
	if err != nil {
		return Message{}, err
	}
	s.hub.Publish(struct{}{})
	return added, nil
}

func (s *Service) Recent(limit int) ([]Message, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.repo.Recent(limit)
}

// Subscribe delivers the recent history immediately and re-delivers it after
// every new message. The detach function releases the server-side listener.
func (s *Service) Subscribe(limit int) (<-chan []Message, func(), error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	history, err := s.repo.Recent(limit)
	if err != nil {
		return nil, nil, err
	}

	changes, cancel := s.hub.Subscribe()
	out := make(chan []Message, 1)
	out <- history

	done := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				recent, err := s.repo.Recent(limit)
				if err != nil {
					continue
				}
				select {
				case <-out:
				default:
				}
				out <- recent
			}
		}
	}()

	var once sync.Once
	detach := func() {
		once.Do(func() {
			cancel()
			close(done)
		})
	}
	return out, detach, nil
}
