package classification

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/precoreal/storefront-backend/internal/cache"
)

// DefaultCategory is the sentinel used when classification fails or returns
// nothing usable. The product stays visible either way.
const DefaultCategory = "Não classificado"

var ErrMissingInput = errors.New("product name and description are required")

// Completer is the completion-client contract the service depends on.
type Completer interface {
	ClassifyCategory(ctx context.Context, name, description string) (string, error)
	ExtractAttributes(ctx context.Context, name, description string) (map[string]any, error)
}

// Result is the merged outcome of the two completion calls.
type Result struct {
	Category   string         `json:"category"`
	Attributes map[string]any `json:"attributes"`
}

type Service struct {
	completer Completer
	cache     cache.Cache
	cacheTTL  time.Duration
}

// NewService builds the classification service. cache may be nil to disable
// result caching.
func NewService(completer Completer, c cache.Cache, ttl time.Duration) *Service {
	return &Service{completer: completer, cache: c, cacheTTL: ttl}
}

// ClassifyProduct runs category classification and attribute extraction for
// one product and merges the results. The two completion calls are
// independent and run concurrently. Enrichment failures are absorbed into
// default values; the only error returned is the empty-input precondition.
func (s *Service) ClassifyProduct(ctx context.Context, name, description string) (Result, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return Result{}, ErrMissingInput
	}

	key := cacheKey(name, description)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	var (
		category string
		attrs    map[string]any
		wg       sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		category, _ = s.completer.ClassifyCategory(ctx, name, description)
	}()
	go func() {
		defer wg.Done()
		attrs, _ = s.completer.ExtractAttributes(ctx, name, description)
	}()
	wg.Wait()

	result := Result{Category: category, Attributes: attrs}
	if strings.TrimSpace(result.Category) == "" {
		result.Category = DefaultCategory
	}
	if result.Attributes == nil {
		result.Attributes = map[string]any{}
	}

	// only successful classifications are cached; a degraded completion
	// service should be retried on the next product, not remembered
	if result.Category != DefaultCategory {
		s.toCache(ctx, key, result)
	}
	return result, nil
}

func (s *Service) fromCache(ctx context.Context, key string) (Result, bool) {
	if s.cache == nil {
		return Result{}, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return Result{}, false
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return Result{}, false
	}
	if result.Attributes == nil {
		result.Attributes = map[string]any{}
	}
	return result, true
}

func (s *Service) toCache(ctx context.Context, key string, result Result) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, raw, s.cacheTTL)
}

func cacheKey(name, description string) string {
	sum := sha256.Sum256([]byte(name + "\x00" + description))
	return hex.EncodeToString(sum[:])
}
