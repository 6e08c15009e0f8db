package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
)

func TestValidRiskNo(t *testing.T) {
	cases := []struct {
		riskNo string
		valid  bool
	}{
		{"45.01", true},
		{"278.112", true},
		{"500.99", true},
		{"1.1", true},
		{"45", false},
		{"45.", false},
		{".01", false},
		{"45.01.02", false},
		{"45,01", false},
		{"45.a1", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Run(tc.riskNo, func(t *testing.T) {
			if tc.valid {
				gt.B(t, model.ValidRiskNo(tc.riskNo)).True()
			} else {
				gt.B(t, model.ValidRiskNo(tc.riskNo)).False()
			}
		})
	}
}

func TestCatalogItemNormalize(t *testing.T) {
	t.Run("zero factors default to one", func(t *testing.T) {
		item := model.CatalogItem{RiskNo: "45.01", P: 3, S: 7}
		item.Normalize()

		gt.V(t, item.P).Equal(3)
		gt.V(t, item.F).Equal(1)
		gt.V(t, item.S).Equal(7)
		gt.V(t, item.P2).Equal(1)
		gt.V(t, item.F2).Equal(1)
		gt.V(t, item.S2).Equal(1)
	})

	t.Run("nil tag set becomes empty", func(t *testing.T) {
		item := model.CatalogItem{RiskNo: "45.01"}
		item.Normalize()

		gt.False(t, item.SectorTags == nil)
		gt.A(t, item.SectorTags).Length(0)
	})

	t.Run("existing tags untouched", func(t *testing.T) {
		item := model.CatalogItem{
			RiskNo:     "45.01",
			SectorTags: []types.SectorTag{"insaat"},
		}
		item.Normalize()

		gt.A(t, item.SectorTags).Equal([]types.SectorTag{"insaat"})
	})
}

func TestCatalogItemScore(t *testing.T) {
	item := model.CatalogItem{P: 3, F: 6, S: 7, P2: 1, F2: 2, S2: 3}

	gt.V(t, item.Score()).Equal(126)
	gt.V(t, item.Score2()).Equal(6)
}

func TestCatalogItemFromLoose(t *testing.T) {
	t.Run("string numbers and mixed keys", func(t *testing.T) {
		item := model.CatalogItemFromLoose(map[string]any{
			"risk_no":      "45.01",
			"categoryCode": float64(45),
			"hazard":       "  Yüksekte çalışma  ",
			"p":            "3",
			"f":            2.5,
			"s":            int64(7),
			"sectorTags":   []any{"Insaat", "METAL"},
		})

		gt.V(t, item.RiskNo).Equal("45.01")
		gt.V(t, item.CategoryCode).Equal("45")
		gt.V(t, item.Hazard).Equal("Yüksekte çalışma")
		gt.V(t, item.P).Equal(3)
		gt.V(t, item.F).Equal(2.5)
		gt.V(t, item.S).Equal(7)
		gt.A(t, item.SectorTags).Equal([]types.SectorTag{"insaat", "metal"})
	})

	t.Run("missing factors default to one", func(t *testing.T) {
		item := model.CatalogItemFromLoose(map[string]any{"riskNo": "45.02"})

		gt.V(t, item.P).Equal(1)
		gt.V(t, item.S2).Equal(1)
		gt.False(t, item.SectorTags == nil)
	})

	t.Run("comma-joined tag string", func(t *testing.T) {
		item := model.CatalogItemFromLoose(map[string]any{
			"riskNo":     "45.03",
			"sectorTags": "insaat, maden,,metal ",
		})

		gt.A(t, item.SectorTags).Equal([]types.SectorTag{"insaat", "maden", "metal"})
	})
}

func TestSubmissionToCatalogItem(t *testing.T) {
	sub := model.UserRiskSubmission{
		ID:           "sub-1",
		OwnerID:      "user-1",
		Status:       types.SubmissionStatusApproved,
		MainCategory: "Kullanıcı katkıları",
		Hazard:       "Kaygan zemin",
		Risk:         "Düşme",
		Measures:     "Uyarı levhası",
		P:            3,
		F:            6,
		S:            3,
	}

	item := sub.ToCatalogItem("500.07")

	gt.V(t, item.RiskNo).Equal("500.07")
	gt.V(t, item.CategoryCode).Equal("500")
	gt.V(t, item.Hazard).Equal("Kaygan zemin")
	gt.A(t, item.SectorTags).Equal([]types.SectorTag{types.UniversalSectorTag})
	gt.V(t, item.P).Equal(3)
	gt.V(t, item.P2).Equal(1)
}
