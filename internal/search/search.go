// Package search talks to the external product-search collaborator. Results
// use the collaborator's Portuguese field names on the wire.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var ErrEmptyQuery = errors.New("search query is required")

// Result is one product returned by the search collaborator.
type Result struct {
	Name         string     `json:"nome_produto"`
	Description  string     `json:"descricao,omitempty"`
	ProductURL   string     `json:"url_produto,omitempty"`
	ImageURL     string     `json:"url_imagem_produto"`
	Price        FlexString `json:"preco,omitempty"`
	Availability string     `json:"disponibilidade,omitempty"`
	SellerName   string     `json:"nome_vendedor,omitempty"`
}

// Searcher is the collaborator contract the ingest pipeline depends on.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// FlexString decodes a JSON string or number into a string; the collaborator
// is not consistent about price formatting.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }
