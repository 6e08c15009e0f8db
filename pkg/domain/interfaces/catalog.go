package interfaces

import (
	"context"

	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
)

// BatchResult reports the outcome of one insert batch.
type BatchResult struct {
	Inserted int
	Err      error
}

// CatalogRepository is the relational-store view of the catalog.
type CatalogRepository interface {
	// List retrieves all catalog items
	List(ctx context.Context) ([]model.CatalogItem, error)

	// ListBySectorTags retrieves items whose tag set overlaps the given tags
	ListBySectorTags(ctx context.Context, tags []types.SectorTag) ([]model.CatalogItem, error)

	// ListByCategoryCode retrieves items with an exact category code match
	ListByCategoryCode(ctx context.Context, code string) ([]model.CatalogItem, error)

	// ListByRiskNoPrefix retrieves items whose riskNo starts with the prefix
	ListByRiskNoPrefix(ctx context.Context, prefix string) ([]model.CatalogItem, error)

	// ListByMainCategoryContains retrieves items whose main category label
	// contains the substring
	ListByMainCategoryContains(ctx context.Context, substr string) ([]model.CatalogItem, error)

	// Insert creates a single catalog item
	Insert(ctx context.Context, item model.CatalogItem) error

	// BatchInsert inserts items in fixed-size batches and returns one result
	// per batch. A failed batch does not abort the remaining batches.
	BatchInsert(ctx context.Context, items []model.CatalogItem, batchSize int) []BatchResult

	// AllocateRiskNo atomically assigns the next riskNo in the numeric range
	// starting at rangeStart, with the minor part rolling 01-99 before the
	// major increments. Safe under concurrent callers.
	AllocateRiskNo(ctx context.Context, rangeStart int) (string, error)
}
