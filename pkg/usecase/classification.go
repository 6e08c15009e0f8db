package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/service/nace"
)

// ClassificationUseCase answers activity-code lookups against the reference
// table loaded at startup.
type ClassificationUseCase struct {
	svc *nace.Service
}

func NewClassificationUseCase(svc *nace.Service) *ClassificationUseCase {
	return &ClassificationUseCase{svc: svc}
}

// Resolve looks up a 6-digit activity code. On a miss the returned
// suggestions accompany nace.ErrCodeNotFound.
func (uc *ClassificationUseCase) Resolve(ctx context.Context, code string) (*model.NaceClassification, []model.NaceSuggestion, error) {
	if uc.svc == nil {
		return nil, nil, goerr.New("classification table not loaded")
	}
	return uc.svc.Resolve(code)
}
