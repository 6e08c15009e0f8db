package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/osgb-lab/riskcatalog/pkg/domain/interfaces"
	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
)

// DocumentStore is the in-memory document-store backend. It holds the whole
// catalog as one value; WriteAll replaces it, matching the full-rewrite
// contract of the real backend.
type DocumentStore struct {
	mu    sync.RWMutex
	items []model.CatalogItem
}

var _ interfaces.DocumentStore = &DocumentStore{}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

func (d *DocumentStore) ReadAll(ctx context.Context) ([]model.CatalogItem, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]model.CatalogItem, len(d.items))
	for i, item := range d.items {
		out[i] = copyItem(item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CategoryCode != out[j].CategoryCode {
			return out[i].CategoryCode < out[j].CategoryCode
		}
		return out[i].RiskNo < out[j].RiskNo
	})
	return out, nil
}

func (d *DocumentStore) WriteAll(ctx context.Context, items []model.CatalogItem) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	replaced := make([]model.CatalogItem, len(items))
	for i, item := range items {
		item.Normalize()
		replaced[i] = copyItem(item)
	}
	d.items = replaced
	return nil
}

func (d *DocumentStore) Close() error {
	return nil
}
