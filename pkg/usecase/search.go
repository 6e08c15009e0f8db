package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/osgb-lab/riskcatalog/pkg/domain/interfaces"
	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
)

// MaxSearchLimit caps the number of results a single search may return.
const MaxSearchLimit = 10000

// SearchResult is the outcome of a sector tag search: the merged item list
// and the vocabulary tags the query expanded to.
type SearchResult struct {
	Items       []model.CatalogItem `json:"results"`
	MatchedTags []string            `json:"matchedTags"`
	Count       int                 `json:"count"`
}

// SearchUseCase retrieves catalog items by sector tag, always merging in the
// universal category.
type SearchUseCase struct {
	repo       interfaces.Repository
	vocabulary []types.SectorTag
}

func NewSearchUseCase(repo interfaces.Repository, vocabulary []types.SectorTag) *SearchUseCase {
	return &SearchUseCase{
		repo:       repo,
		vocabulary: vocabulary,
	}
}

// Search expands the query against the sector vocabulary, retrieves items
// overlapping the expanded tags plus the universal category, and merges them
// universal-first with riskNo deduplication.
func (uc *SearchUseCase) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len([]rune(query)) < 2 {
		return nil, goerr.Wrap(ErrQueryTooShort, "query too short", goerr.V("query", query))
	}
	if limit <= 0 || limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	tags := uc.expandTags(query)

	tagged, err := uc.repo.Catalog().ListBySectorTags(ctx, tags)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to retrieve items by sector tags")
	}

	universal, err := uc.universalItems(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to retrieve universal category items")
	}

	// Universal items go first so the universal category's own
	// classification fields win when the same riskNo appears in both sets.
	seen := make(map[string]bool)
	merged := make([]model.CatalogItem, 0, len(universal)+len(tagged))
	for _, item := range universal {
		item.Normalize()
		merged = append(merged, item)
		if item.RiskNo != "" {
			seen[item.RiskNo] = true
		}
	}
	for _, item := range tagged {
		// Items lacking a riskNo are never deduplicated against.
		if item.RiskNo != "" && seen[item.RiskNo] {
			continue
		}
		item.Normalize()
		merged = append(merged, item)
		if item.RiskNo != "" {
			seen[item.RiskNo] = true
		}
	}

	if len(merged) > limit {
		merged = merged[:limit]
	}

	matched := make([]string, len(tags))
	for i, t := range tags {
		matched[i] = t.String()
	}

	return &SearchResult{
		Items:       merged,
		MatchedTags: matched,
		Count:       len(merged),
	}, nil
}

// expandTags resolves the query to vocabulary tags in priority order:
// equal-or-prefix matches first, substring matches second, and finally the
// raw query itself as a synthetic tag so the overlap search degrades to an
// empty result instead of erroring.
func (uc *SearchUseCase) expandTags(query string) []types.SectorTag {
	var exact []types.SectorTag
	for _, tag := range uc.vocabulary {
		if tag.Matches(query) {
			exact = append(exact, tag)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	var partial []types.SectorTag
	for _, tag := range uc.vocabulary {
		if tag.Contains(query) {
			partial = append(partial, tag)
		}
	}
	if len(partial) > 0 {
		return partial
	}

	return []types.SectorTag{types.SectorTag(query)}
}

// universalStrategy is one way of locating the universal category in the
// store. The store's encoding of the category varies by provenance, so the
// strategies are tried in order until one yields rows.
type universalStrategy func(ctx context.Context, repo interfaces.CatalogRepository) ([]model.CatalogItem, error)

func universalStrategies() []universalStrategy {
	return []universalStrategy{
		func(ctx context.Context, repo interfaces.CatalogRepository) ([]model.CatalogItem, error) {
			return repo.ListByCategoryCode(ctx, types.UniversalCategoryCode)
		},
		func(ctx context.Context, repo interfaces.CatalogRepository) ([]model.CatalogItem, error) {
			return repo.ListByRiskNoPrefix(ctx, types.UniversalCategoryCode+".")
		},
		func(ctx context.Context, repo interfaces.CatalogRepository) ([]model.CatalogItem, error) {
			return repo.ListByMainCategoryContains(ctx, types.UniversalCategoryLabel)
		},
	}
}

func (uc *SearchUseCase) universalItems(ctx context.Context) ([]model.CatalogItem, error) {
	for _, strategy := range universalStrategies() {
		items, err := strategy(ctx, uc.repo.Catalog())
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			return items, nil
		}
	}
	return nil, nil
}
