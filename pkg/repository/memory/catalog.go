package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/osgb-lab/riskcatalog/pkg/domain/interfaces"
	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
)

type catalogRepository struct {
	mu       sync.RWMutex
	items    []model.CatalogItem
	counters map[int]counter
}

type counter struct {
	major int
	minor int
}

func newCatalogRepository() *catalogRepository {
	return &catalogRepository{
		counters: make(map[int]counter),
	}
}

func (r *catalogRepository) List(ctx context.Context) ([]model.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return copyItems(r.items), nil
}

func (r *catalogRepository) ListBySectorTags(ctx context.Context, tags []types.SectorTag) ([]model.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[types.SectorTag]bool, len(tags))
	for _, t := range tags {
		wanted[t] = true
	}

	var result []model.CatalogItem
	for _, item := range r.items {
		for _, t := range item.SectorTags {
			if wanted[t] {
				result = append(result, copyItem(item))
				break
			}
		}
	}
	return result, nil
}

func (r *catalogRepository) ListByCategoryCode(ctx context.Context, code string) ([]model.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []model.CatalogItem
	for _, item := range r.items {
		if item.CategoryCode == code {
			result = append(result, copyItem(item))
		}
	}
	return result, nil
}

func (r *catalogRepository) ListByRiskNoPrefix(ctx context.Context, prefix string) ([]model.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []model.CatalogItem
	for _, item := range r.items {
		if strings.HasPrefix(item.RiskNo, prefix) {
			result = append(result, copyItem(item))
		}
	}
	return result, nil
}

func (r *catalogRepository) ListByMainCategoryContains(ctx context.Context, substr string) ([]model.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []model.CatalogItem
	for _, item := range r.items {
		if strings.Contains(item.MainCategory, substr) {
			result = append(result, copyItem(item))
		}
	}
	return result, nil
}

func (r *catalogRepository) Insert(ctx context.Context, item model.CatalogItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.RiskNo != "" {
		for _, existing := range r.items {
			if existing.RiskNo == item.RiskNo {
				return goerr.New("duplicate riskNo", goerr.V("riskNo", item.RiskNo))
			}
		}
	}

	item.Normalize()
	r.items = append(r.items, copyItem(item))
	return nil
}

func (r *catalogRepository) BatchInsert(ctx context.Context, items []model.CatalogItem, batchSize int) []interfaces.BatchResult {
	if batchSize <= 0 {
		batchSize = 100
	}

	var results []interfaces.BatchResult
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}

		results = append(results, r.insertBatch(items[start:end]))
	}
	return results
}

// insertBatch applies one batch atomically: a duplicate riskNo anywhere in
// the batch leaves the store untouched, matching the per-batch transaction
// of the SQLite backend.
func (r *catalogRepository) insertBatch(batch []model.CatalogItem) interfaces.BatchResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(batch))
	for _, item := range batch {
		if item.RiskNo == "" {
			continue
		}
		if seen[item.RiskNo] {
			return interfaces.BatchResult{Err: goerr.New("duplicate riskNo in batch",
				goerr.V("riskNo", item.RiskNo))}
		}
		seen[item.RiskNo] = true
		for _, existing := range r.items {
			if existing.RiskNo == item.RiskNo {
				return interfaces.BatchResult{Err: goerr.New("duplicate riskNo",
					goerr.V("riskNo", item.RiskNo))}
			}
		}
	}

	for _, item := range batch {
		item.Normalize()
		r.items = append(r.items, copyItem(item))
	}
	return interfaces.BatchResult{Inserted: len(batch)}
}

func (r *catalogRepository) AllocateRiskNo(ctx context.Context, rangeStart int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.counters[rangeStart]
	if !ok {
		c = r.seedCounter(rangeStart)
	}

	c.minor++
	if c.minor > 99 {
		c.major++
		c.minor = 1
	}
	r.counters[rangeStart] = c

	return fmt.Sprintf("%d.%02d", c.major, c.minor), nil
}

// seedCounter scans the current catalog for the highest riskNo at or above
// rangeStart, so allocation continues after pre-existing user content.
func (r *catalogRepository) seedCounter(rangeStart int) counter {
	c := counter{major: rangeStart, minor: 0}
	for _, item := range r.items {
		var major, minor int
		if _, err := fmt.Sscanf(item.RiskNo, "%d.%d", &major, &minor); err != nil {
			continue
		}
		if major < rangeStart {
			continue
		}
		if major > c.major || (major == c.major && minor > c.minor) {
			c = counter{major: major, minor: minor}
		}
	}
	return c
}

func copyItem(item model.CatalogItem) model.CatalogItem {
	out := item
	out.SectorTags = append([]types.SectorTag{}, item.SectorTags...)
	return out
}

func copyItems(items []model.CatalogItem) []model.CatalogItem {
	out := make([]model.CatalogItem, len(items))
	for i, item := range items {
		out[i] = copyItem(item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CategoryCode != out[j].CategoryCode {
			return out[i].CategoryCode < out[j].CategoryCode
		}
		return out[i].RiskNo < out[j].RiskNo
	})
	return out
}
