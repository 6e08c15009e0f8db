package model

import (
	"time"

	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
)

// UserRiskSubmission is a candidate catalog item created by an end user. It
// carries the same descriptive fields as CatalogItem and moves through the
// moderation workflow; the row is retained for audit regardless of outcome.
type UserRiskSubmission struct {
	ID           string                 `json:"id"`
	OwnerID      string                 `json:"ownerId"`
	Status       types.SubmissionStatus `json:"status"`
	MainCategory string                 `json:"mainCategory"`
	SubCategory  string                 `json:"subCategory"`
	Source       string                 `json:"source"`
	Hazard       string                 `json:"hazard"`
	Risk         string                 `json:"risk"`
	Affected     string                 `json:"affected"`
	Responsible  string                 `json:"responsible"`
	Measures     string                 `json:"measures"`
	P            float64                `json:"p"`
	F            float64                `json:"f"`
	S            float64                `json:"s"`
	P2           float64                `json:"p2"`
	F2           float64                `json:"f2"`
	S2           float64                `json:"s2"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

// ToCatalogItem derives the CatalogItem created on approval. The item is a
// copy tagged with the universal sector tag; the submission itself stays.
func (s *UserRiskSubmission) ToCatalogItem(riskNo string) CatalogItem {
	item := CatalogItem{
		RiskNo:       riskNo,
		CategoryCode: categoryCodeOf(riskNo),
		MainCategory: s.MainCategory,
		SubCategory:  s.SubCategory,
		Source:       s.Source,
		Hazard:       s.Hazard,
		Risk:         s.Risk,
		Affected:     s.Affected,
		Responsible:  s.Responsible,
		Measures:     s.Measures,
		P:            s.P,
		F:            s.F,
		S:            s.S,
		P2:           s.P2,
		F2:           s.F2,
		S2:           s.S2,
		SectorTags:   []types.SectorTag{types.UniversalSectorTag},
	}
	item.Normalize()
	return item
}

func categoryCodeOf(riskNo string) string {
	for i := 0; i < len(riskNo); i++ {
		if riskNo[i] == '.' {
			return riskNo[:i]
		}
	}
	return riskNo
}
