package catalog

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("product not found")
	ErrMissingName = errors.New("product name is required")
)

type Repository interface {
	// Create assigns a push ID and server timestamp and stores the record.
	Create(input ProductInput) (Product, error)
	// Update merges the patch into the record; absent fields stay untouched.
	Update(id string, patch Patch) error
	GetByID(id string) (Product, error)
	// List returns the newest records first, bounded by limit (<=0 means all).
	List(limit int) ([]Product, error)
}

// InMemoryRepository is a map-backed implementation useful for tests and for
// running the service without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]Product
	clock   clock
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]Product)}
}

func (r *InMemoryRepository) Create(input ProductInput) (Product, error) {
	if input.Name == "" {
		return Product{}, ErrMissingName
	}
	if input.Description == "" {
		input.Description = input.Name
	}

	p := Product{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Description:  input.Description,
		SourceURL:    input.SourceURL,
		ImageURL:     input.ImageURL,
		Price:        input.Price,
		Availability: input.Availability,
		SellerName:   input.SellerName,
		CreatedAt:    r.clock.next(),
	}

	r.mu.Lock()
	r.records[p.ID] = p
	r.mu.Unlock()
	return p, nil
}

func (r *InMemoryRepository) Update(id string, patch Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[id]
	if !ok {
		return ErrNotFound
	}
	applyPatch(&p, patch)
	r.records[id] = p
	return nil
}

func (r *InMemoryRepository) GetByID(id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.records[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) List(limit int) ([]Product, error) {
	r.mu.RLock()
	out := make([]Product, 0, len(r.records))
	for _, p := range r.records {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func applyPatch(p *Product, patch Patch) {
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.SourceURL != nil {
		p.SourceURL = patch.SourceURL
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Price != nil {
		p.Price = patch.Price
	}
	if patch.Availability != nil {
		p.Availability = patch.Availability
	}
	if patch.SellerName != nil {
		p.SellerName = patch.SellerName
	}
	if patch.Category != nil {
		p.Category = patch.Category
	}
	if patch.Attributes != nil {
		p.Attributes = patch.Attributes
	}
}
