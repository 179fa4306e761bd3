package ingest

import (
	"context"
	"errors"
	"strings"

	"github.com/precoreal/storefront-backend/internal/catalog"
	"github.com/precoreal/storefront-backend/internal/classification"
	"github.com/precoreal/storefront-backend/internal/search"
)

var ErrEmptyLabel = errors.New("search label is required")

// Simulated placeholders for fields the search collaborator rarely fills.
const (
	simulatedAvailability = "Em estoque (simulado)"
	simulatedSeller       = "Vendedor Parceiro (simulado)"
	placeholderImage      = "https://placehold.co/400x300.png"
)

// Catalog is the slice of the catalog service the pipeline writes through.
type Catalog interface {
	Create(input catalog.ProductInput) (catalog.Product, error)
	Update(id string, patch catalog.Patch) error
}

// Classifier enriches one product; it absorbs completion failures itself.
type Classifier interface {
	ClassifyProduct(ctx context.Context, name, description string) (classification.Result, error)
}

// ItemOutcome reports what happened to a single search result.
type ItemOutcome struct {
	Name       string `json:"name"`
	ProductID  string `json:"productId,omitempty"`
	Persisted  bool   `json:"persisted"`
	Classified bool   `json:"classified"`
	Category   string `json:"category,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Summary aggregates one pipeline run.
type Summary struct {
	Label      string        `json:"label"`
	Total      int           `json:"total"`
	Persisted  int           `json:"persisted"`
	Classified int           `json:"classified"`
	Failed     int           `json:"failed"`
	Items      []ItemOutcome `json:"items"`
}

type Pipeline struct {
	searcher   search.Searcher
	catalog    Catalog
	classifier Classifier
}

func NewPipeline(searcher search.Searcher, cat Catalog, classifier Classifier) *Pipeline {
	return &Pipeline{searcher: searcher, catalog: cat, classifier: classifier}
}

// Run executes one ingest request: search the label, persist each result,
// then classify and enrich it. Failures are isolated per item; there is no
// rollback, so a partially ingested batch is a permanent, accepted outcome.
// emit, when non-nil, receives each item outcome as it settles.
func (p *Pipeline) Run(ctx context.Context, label string, emit func(ItemOutcome)) (Summary, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Summary{}, ErrEmptyLabel
	}

	results, err := p.searcher.Search(ctx, label)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Label: label, Total: len(results), Items: make([]ItemOutcome, 0, len(results))}
	for _, result := range results {
		outcome := p.ingestOne(ctx, result)
		summary.Items = append(summary.Items, outcome)
		if outcome.Persisted {
			summary.Persisted++
		} else {
			summary.Failed++
		}
		if outcome.Classified {
			summary.Classified++
		}
		if emit != nil {
			emit(outcome)
		}
	}
	return summary, nil
}

func (p *Pipeline) ingestOne(ctx context.Context, result search.Result) ItemOutcome {
	outcome := ItemOutcome{Name: result.Name}

	input := buildProductInput(result)
	created, err := p.catalog.Create(input)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	outcome.ProductID = created.ID
	outcome.Persisted = true

	enrichment, err := p.classifier.ClassifyProduct(ctx, created.Name, created.Description)
	if err != nil {
		// precondition failure; the product stays cataloged without enrichment
		outcome.Error = err.Error()
		return outcome
	}

	patch := catalog.Patch{Category: &enrichment.Category, Attributes: enrichment.Attributes}
	if err := p.catalog.Update(created.ID, patch); err != nil {
		// classification result lost; fields stay absent entirely
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Classified = true
	outcome.Category = enrichment.Category
	return outcome
}

func buildProductInput(result search.Result) catalog.ProductInput {
	input := catalog.ProductInput{
		Name:        result.Name,
		Description: result.Description,
		ImageURL:    result.ImageURL,
	}
	if input.Description == "" {
		input.Description = input.Name
	}
	if input.ImageURL == "" {
		input.ImageURL = placeholderImage
	}
	if result.ProductURL != "" {
		input.SourceURL = ptr(result.ProductURL)
	}
	if result.Price != "" {
		input.Price = ptr(result.Price.String())
	}
	input.Availability = ptr(defaultStr(result.Availability, simulatedAvailability))
	input.SellerName = ptr(defaultStr(result.SellerName, simulatedSeller))
	return input
}

func defaultStr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func ptr(s string) *string { return &s }
