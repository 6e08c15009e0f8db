package usecase_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
	"github.com/osgb-lab/riskcatalog/pkg/repository/memory"
	"github.com/osgb-lab/riskcatalog/pkg/usecase"
)

func seedCatalog(t *testing.T, repo *memory.Memory) {
	t.Helper()
	ctx := context.Background()

	items := []model.CatalogItem{
		{
			RiskNo:       "278.01",
			CategoryCode: "278",
			MainCategory: "GENEL",
			Hazard:       "Acil çıkış kapısının kilitli olması",
			SectorTags:   []types.SectorTag{types.UniversalSectorTag},
		},
		{
			RiskNo:       "278.02",
			CategoryCode: "278",
			MainCategory: "GENEL",
			Hazard:       "Yangın söndürücü eksikliği",
			SectorTags:   []types.SectorTag{types.UniversalSectorTag},
		},
		{
			RiskNo:       "12.07",
			CategoryCode: "12",
			MainCategory: "İnşaat işleri",
			Hazard:       "Yüksekte çalışma",
			SectorTags:   []types.SectorTag{"insaat"},
		},
		{
			RiskNo:       "45.03",
			CategoryCode: "45",
			MainCategory: "Maden işleri",
			Hazard:       "Göçük riski",
			SectorTags:   []types.SectorTag{"maden"},
		},
	}
	for _, item := range items {
		gt.NoError(t, repo.Catalog().Insert(ctx, item))
	}
}

func TestSearch_RejectsShortQuery(t *testing.T) {
	repo := memory.New()
	uc := usecase.NewSearchUseCase(repo, types.DefaultSectorVocabulary())

	for _, query := range []string{"", "a", " a "} {
		_, err := uc.Search(context.Background(), query, 100)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, usecase.ErrQueryTooShort)).True()
	}
}

func TestSearch_PrefixMatch(t *testing.T) {
	repo := memory.New()
	seedCatalog(t, repo)
	uc := usecase.NewSearchUseCase(repo, types.DefaultSectorVocabulary())

	result, err := uc.Search(context.Background(), "ins", 100)
	gt.NoError(t, err)
	gt.A(t, result.MatchedTags).Equal([]string{"insaat"})

	riskNos := riskNosOf(result.Items)
	gt.B(t, slices.Contains(riskNos, "12.07")).True()
	gt.B(t, slices.Contains(riskNos, "278.01")).True()
	gt.B(t, slices.Contains(riskNos, "278.02")).True()
}

func TestSearch_UniversalItemsAlwaysPresent(t *testing.T) {
	repo := memory.New()
	seedCatalog(t, repo)
	uc := usecase.NewSearchUseCase(repo, types.DefaultSectorVocabulary())

	// A query matching no vocabulary tag degrades to a synthetic tag and an
	// empty overlap, but the universal category still comes back.
	result, err := uc.Search(context.Background(), "uzay madenciligi", 100)
	gt.NoError(t, err)
	gt.A(t, result.MatchedTags).Equal([]string{"uzay madenciligi"})
	gt.A(t, riskNosOf(result.Items)).Equal([]string{"278.01", "278.02"})
}

func TestSearch_UniversalItemsNeverDuplicated(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	// A universal item that also carries a sector tag appears once, with
	// the universal category's own classification fields preserved.
	gt.NoError(t, repo.Catalog().Insert(ctx, model.CatalogItem{
		RiskNo:       "278.01",
		CategoryCode: "278",
		MainCategory: "GENEL",
		SectorTags:   []types.SectorTag{types.UniversalSectorTag, "maden"},
	}))
	gt.NoError(t, repo.Catalog().Insert(ctx, model.CatalogItem{
		RiskNo:       "45.03",
		CategoryCode: "45",
		MainCategory: "Maden işleri",
		SectorTags:   []types.SectorTag{"maden"},
	}))

	uc := usecase.NewSearchUseCase(repo, types.DefaultSectorVocabulary())
	result, err := uc.Search(ctx, "maden", 100)
	gt.NoError(t, err)

	count := 0
	for _, item := range result.Items {
		if item.RiskNo == "278.01" {
			count++
			gt.V(t, item.CategoryCode).Equal("278")
		}
	}
	gt.V(t, count).Equal(1)
	gt.B(t, slices.Contains(riskNosOf(result.Items), "45.03")).True()
}

func TestSearch_UniversalFallbackByRiskNoPrefix(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	// Universal items whose categoryCode was stored differently are still
	// found through the riskNo prefix fallback.
	gt.NoError(t, repo.Catalog().Insert(ctx, model.CatalogItem{
		RiskNo:       "278.01",
		CategoryCode: "278.0",
		MainCategory: "GENEL",
	}))

	uc := usecase.NewSearchUseCase(repo, types.DefaultSectorVocabulary())
	result, err := uc.Search(ctx, "ofis", 100)
	gt.NoError(t, err)
	gt.A(t, riskNosOf(result.Items)).Equal([]string{"278.01"})
}

func TestSearch_UniversalFallbackByLabel(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	gt.NoError(t, repo.Catalog().Insert(ctx, model.CatalogItem{
		RiskNo:       "900.01",
		CategoryCode: "izinli",
		MainCategory: "GENEL HÜKÜMLER",
	}))

	uc := usecase.NewSearchUseCase(repo, types.DefaultSectorVocabulary())
	result, err := uc.Search(ctx, "ofis", 100)
	gt.NoError(t, err)
	gt.A(t, riskNosOf(result.Items)).Equal([]string{"900.01"})
}

func TestSearch_ResultsAreNormalized(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	gt.NoError(t, repo.Catalog().Insert(ctx, model.CatalogItem{
		RiskNo:       "278.01",
		CategoryCode: "278",
		MainCategory: "GENEL",
	}))

	uc := usecase.NewSearchUseCase(repo, types.DefaultSectorVocabulary())
	result, err := uc.Search(ctx, "ofis", 100)
	gt.NoError(t, err)
	gt.A(t, result.Items).Length(1)
	gt.V(t, result.Items[0].P).Equal(1.0)
	gt.V(t, result.Items[0].S2).Equal(1.0)
	gt.False(t, result.Items[0].SectorTags == nil)
}

func riskNosOf(items []model.CatalogItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.RiskNo
	}
	return out
}
