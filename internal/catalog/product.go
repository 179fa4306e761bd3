package catalog

import (
	"sync"
	"time"
)

// Product is a catalog record. Category and Attributes are absent until the
// classification pass fills them in with a second, independent write, so
// subscribers see the record twice (create, then update).
type Product struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	SourceURL    *string        `json:"sourceUrl,omitempty"`
	ImageURL     string         `json:"imageUrl"`
	Price        *string        `json:"price,omitempty"`
	Availability *string        `json:"availability,omitempty"`
	SellerName   *string        `json:"sellerName,omitempty"`
	Category     *string        `json:"category,omitempty"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	CreatedAt    int64          `json:"createdAt"`
}

// ProductInput is the caller-supplied part of a new record. ID and CreatedAt
// are server-assigned.
type ProductInput struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	SourceURL    *string `json:"sourceUrl,omitempty"`
	ImageURL     string  `json:"imageUrl"`
	Price        *string `json:"price,omitempty"`
	Availability *string `json:"availability,omitempty"`
	SellerName   *string `json:"sellerName,omitempty"`
}

// Patch carries a partial update. Nil fields are left untouched; there is no
// way to null a field out implicitly.
type Patch struct {
	Description  *string        `json:"description,omitempty"`
	SourceURL    *string        `json:"sourceUrl,omitempty"`
	ImageURL     *string        `json:"imageUrl,omitempty"`
	Price        *string        `json:"price,omitempty"`
	Availability *string        `json:"availability,omitempty"`
	SellerName   *string        `json:"sellerName,omitempty"`
	Category     *string        `json:"category,omitempty"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

// IsEmpty reports whether the patch carries no fields.
func (p Patch) IsEmpty() bool {
	return p.Description == nil && p.SourceURL == nil && p.ImageURL == nil &&
		p.Price == nil && p.Availability == nil && p.SellerName == nil &&
		p.Category == nil && p.Attributes == nil
}

// clock hands out strictly increasing unix-millisecond timestamps so that
// insertion order and creation-time order always agree.
type clock struct {
	mu   sync.Mutex
	last int64
}

func (c *clock) next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= c.last {
		now = c.last + 1
	}
	c.last = now
	return now
}
