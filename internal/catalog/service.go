package catalog

import (
	"sync"

	"github.com/precoreal/storefront-backend/internal/stream"
)

// DefaultListLimit bounds product listings when the caller does not say
// otherwise.
const DefaultListLimit = 50

// Service wraps the repository with change notifications so listeners can
// hold a live, newest-first view of the catalog.
type Service struct {
	repo Repository
	hub  *stream.Hub[struct{}]
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, hub: stream.NewHub[struct{}]()}
}

func (s *Service) Create(input ProductInput) (Product, error) {
	p, err := s.repo.Create(input)
	if err != nil {
		return Product{}, err
	}
	s.hub.Publish(struct{}{})
	return p, nil
}

func (s *Service) Update(id string, patch Patch) error {
	if patch.IsEmpty() {
		return nil
	}
	if err := s.repo.Update(id, patch); err != nil {
		return err
	}
	s.hub.Publish(struct{}{})
	return nil
}

func (s *Service) GetByID(id string) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) List(limit int) ([]Product, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.repo.List(limit)
}

// Subscribe delivers the current snapshot immediately and re-delivers the
// full snapshot (newest N first) after every catalog change. The returned
// detach function must be called when the consumer goes away; the server-side
// listener is not released otherwise.
func (s *Service) Subscribe(limit int) (<-chan []Product, func(), error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	snapshot, err := s.repo.List(limit)
	if err != nil {
		return nil, nil, err
	}

	changes, cancel := s.hub.Subscribe()
	out := make(chan []Product, 1)
	out <- snapshot

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
				snap, err := s.repo.List(limit)
				if err != nil {
					continue
				}
				// replace an unconsumed snapshot rather than blocking
				select {
				case <-out:
				default:
				}
				out <- snap
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
