package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("ad not found")

type Repository interface {
	Create(ad Ad) (Ad, error)
	GetByID(id string) (Ad, error)
	// ListByStore returns the owner's ads, newest first.
	ListByStore(storeOwnerID int) ([]Ad, error)
}

type InMemoryRepository struct {
	mu  sync.RWMutex
	ads []Ad
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{ads: make([]Ad, 0)}
}

func (r *InMemoryRepository) Create(ad Ad) (Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	if ad.CreatedAt == 0 {
		ad.CreatedAt = time.Now().UnixMilli()
	}
	r.ads = append(r.ads, ad)
	return ad, nil
}

func (r *InMemoryRepository) GetByID(id string) (Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ad := range r.ads {
		if ad.ID == id {
			return ad, nil
		}
	}
	return Ad{}, ErrNotFound
}

func (r *InMemoryRepository) ListByStore(storeOwnerID int) ([]Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Ad, 0)
	for _, ad := range r.ads {
		if ad.StoreOwnerID == storeOwnerID {
			out = append(out, ad)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}
