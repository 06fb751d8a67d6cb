// Package provider contains the adapters for the external news APIs. Each
// adapter returns raw records in its provider's native shape together with
// the schema that maps those records onto the canonical item model.
package provider

import (
	"context"

	"newsbrief/internal/news"
)

// Provider is one external news source.
type Provider interface {
	Name() string
	// Schema declares the provider's field names for the normalizer.
	Schema() news.Schema
	// Fetch returns up to limit raw records for a category.
	Fetch(ctx context.Context, category string, limit int) ([]map[string]any, error)
}
