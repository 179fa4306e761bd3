package classification

import (
	"context"
	"testing"
	"time"

	"github.com/precoreal/storefront-backend/internal/cache"
	"github.com/precoreal/storefront-backend/internal/completion"
)

type fakeCompleter struct {
	category      string
	categoryErr   error
	attributes    map[string]any
	attributesErr error

	categoryCalls   int
	attributesCalls int
}

func (f *fakeCompleter) ClassifyCategory(_ context.Context, _, _ string) (string, error) {
	f.categoryCalls++
	return f.category, f.categoryErr
}

func (f *fakeCompleter) ExtractAttributes(_ context.Context, _, _ string) (map[string]any, error) {
	f.attributesCalls++
	return f.attributes, f.attributesErr
}

func TestClassifyProductMergesBothCalls(t *testing.T) {
	fake := &fakeCompleter{
		category:   "Eletrônicos > Áudio > Fones",
		attributes: map[string]any{"cor": "preto", "sem_fio": true},
	}
	svc := NewService(fake, nil, 0)

	result, err := svc.ClassifyProduct(context.Background(), "Fone Bluetooth", "Som imersivo")
	if err != nil {
		t.Fatalf("ClassifyProduct: %v", err)
	}
	if result.Category != "Eletrônicos > Áudio > Fones" {
		t.Fatalf("unexpected category %q", result.Category)
	}
	if result.Attributes["cor"] != "preto" {
		t.Fatalf("unexpected attributes %v", result.Attributes)
	}
}

func TestClassifyProductNeverFailsOnServiceErrors(t *testing.T) {
	fake := &fakeCompleter{
		categoryErr:   &completion.ServiceError{Reason: "unreachable"},
		attributesErr: &completion.ValidationError{Reason: "bad shape"},
	}
	svc := NewService(fake, nil, 0)

	result, err := svc.ClassifyProduct(context.Background(), "Fone", "desc")
	if err != nil {
		t.Fatalf("expected absorbed failure, got %v", err)
	}
	if result.Category != DefaultCategory {
		t.Fatalf("expected sentinel category, got %q", result.Category)
	}
	if result.Attributes == nil || len(result.Attributes) != 0 {
		t.Fatalf("expected empty attributes map, got %v", result.Attributes)
	}
}

func TestClassifyProductEmptyCategoryFallsBack(t *testing.T) {
	fake := &fakeCompleter{category: "  ", attributes: map[string]any{}}
	svc := NewService(fake, nil, 0)

	result, err := svc.ClassifyProduct(context.Background(), "Produto", "desc")
	if err != nil {
		t.Fatalf("ClassifyProduct: %v", err)
	}
	if result.Category != DefaultCategory {
		t.Fatalf("expected sentinel for blank category, got %q", result.Category)
	}
}

func TestClassifyProductRejectsEmptyInput(t *testing.T) {
	svc := NewService(&fakeCompleter{}, nil, 0)

	if _, err := svc.ClassifyProduct(context.Background(), "", "desc"); err != ErrMissingInput {
		t.Fatalf("expected ErrMissingInput for empty name, got %v", err)
	}
	if _, err := svc.ClassifyProduct(context.Background(), "name", "   "); err != ErrMissingInput {
		t.Fatalf("expected ErrMissingInput for blank description, got %v", err)
	}
}

func TestClassifyProductUsesCache(t *testing.T) {
	fake := &fakeCompleter{category: "Livros", attributes: map[string]any{"capa": "dura"}}
	mem := cache.NewMemory()
	defer mem.Close()
	svc := NewService(fake, mem, time.Minute)

	ctx := context.Background()
	if _, err := svc.ClassifyProduct(ctx, "Dom Casmurro", "Romance"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	result, err := svc.ClassifyProduct(ctx, "Dom Casmurro", "Romance")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if result.Category != "Livros" {
		t.Fatalf("unexpected cached category %q", result.Category)
	}
	if fake.categoryCalls != 1 || fake.attributesCalls != 1 {
		t.Fatalf("expected a single completion round, got %d/%d", fake.categoryCalls, fake.attributesCalls)
	}
}

func TestClassifyProductDoesNotCacheSentinel(t *testing.T) {
	fake := &fakeCompleter{categoryErr: &completion.ServiceError{Reason: "down"}}
	mem := cache.NewMemory()
	defer mem.Close()
	svc := NewService(fake, mem, time.Minute)

	ctx := context.Background()
	_, _ = svc.ClassifyProduct(ctx, "Produto", "desc")
	_, _ = svc.ClassifyProduct(ctx, "Produto", "desc")

	if fake.categoryCalls != 2 {
		t.Fatalf("degraded result was cached; expected 2 calls, got %d", fake.categoryCalls)
	}
}
