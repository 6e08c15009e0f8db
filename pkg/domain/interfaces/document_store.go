package interfaces

import (
	"context"

	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
)

// DocumentStore is the document-store copy of the catalog. It exposes only
// whole-catalog operations: the synchronizer reads everything and writes
// everything back as a full replace, never incrementally.
type DocumentStore interface {
	// ReadAll returns the full catalog, ordered by category grouping
	ReadAll(ctx context.Context) ([]model.CatalogItem, error)

	// WriteAll replaces the whole catalog
	WriteAll(ctx context.Context, items []model.CatalogItem) error

	Close() error
}
