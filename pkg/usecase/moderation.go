package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/osgb-lab/riskcatalog/pkg/domain/interfaces"
	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
	"github.com/osgb-lab/riskcatalog/pkg/utils/logging"
)

// ModerationUseCase governs the user submission workflow: pending ->
// approved | rejected, both terminal. On approval a CatalogItem copy is
// created in the reserved riskNo range, tagged universal.
type ModerationUseCase struct {
	repo           interfaces.Repository
	userRangeStart int
}

func NewModerationUseCase(repo interfaces.Repository, userRangeStart int) *ModerationUseCase {
	return &ModerationUseCase{
		repo:           repo,
		userRangeStart: userRangeStart,
	}
}

// Submit creates a pending submission owned by ownerID.
func (uc *ModerationUseCase) Submit(ctx context.Context, ownerID string, sub model.UserRiskSubmission) (*model.UserRiskSubmission, error) {
	if ownerID == "" {
		return nil, goerr.New("submission owner is required")
	}
	if sub.Hazard == "" {
		return nil, goerr.New("submission hazard is required")
	}

	sub.OwnerID = ownerID
	created, err := uc.repo.Submission().Create(ctx, &sub)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create submission")
	}
	return created, nil
}

// Get retrieves a submission by ID.
func (uc *ModerationUseCase) Get(ctx context.Context, id string) (*model.UserRiskSubmission, error) {
	sub, err := uc.repo.Submission().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrSubmissionNotFound, "submission not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get submission", goerr.V("id", id))
	}
	return sub, nil
}

// List retrieves submissions, optionally filtered by status.
func (uc *ModerationUseCase) List(ctx context.Context, status types.SubmissionStatus) ([]*model.UserRiskSubmission, error) {
	subs, err := uc.repo.Submission().List(ctx, status)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list submissions")
	}
	return subs, nil
}

// Transition moves a submission to the target status on behalf of a
// moderator. Repeating a transition into the current state is accepted
// idempotently; any other transition out of a terminal state fails.
func (uc *ModerationUseCase) Transition(ctx context.Context, moderatorID, id string, target types.SubmissionStatus) (*model.UserRiskSubmission, error) {
	if moderatorID == "" {
		return nil, goerr.Wrap(ErrModeratorRequired, "status transitions are moderator-only")
	}
	if !target.IsValid() || target == types.SubmissionStatusPending {
		return nil, goerr.Wrap(ErrInvalidTransition, "invalid target status",
			goerr.V("target", target))
	}

	sub, err := uc.repo.Submission().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrSubmissionNotFound, "submission not found", goerr.V("id", id))
		}
		// A store failure is not a missing record.
		return nil, goerr.Wrap(err, "failed to load submission", goerr.V("id", id))
	}

	if sub.Status == target {
		// Idempotent repeat, no side effects.
		return sub, nil
	}
	if sub.Status.IsTerminal() {
		return nil, goerr.Wrap(ErrInvalidTransition, "submission already finalized",
			goerr.V("id", id), goerr.V("status", sub.Status), goerr.V("target", target))
	}

	updated, err := uc.repo.Submission().UpdateStatus(ctx, id, target)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update submission status", goerr.V("id", id))
	}

	if target == types.SubmissionStatusApproved {
		// The approval is the source of truth; catalog insertion is a
		// best-effort side effect, logged but never rolled back.
		if err := uc.createCatalogItem(ctx, updated); err != nil {
			logging.From(ctx).Warn("approved submission could not be added to catalog",
				"submission_id", updated.ID,
				"moderator", moderatorID,
				"error", err.Error(),
			)
		}
	}

	logging.From(ctx).Info("submission transitioned",
		"submission_id", updated.ID,
		"moderator", moderatorID,
		"status", updated.Status,
	)
	return updated, nil
}

func (uc *ModerationUseCase) createCatalogItem(ctx context.Context, sub *model.UserRiskSubmission) error {
	riskNo, err := uc.repo.Catalog().AllocateRiskNo(ctx, uc.userRangeStart)
	if err != nil {
		return goerr.Wrap(err, "failed to allocate riskNo")
	}

	item := sub.ToCatalogItem(riskNo)
	if err := uc.repo.Catalog().Insert(ctx, item); err != nil {
		return goerr.Wrap(err, "failed to insert catalog item", goerr.V("riskNo", riskNo))
	}

	logging.From(ctx).Info("catalog item created from submission",
		"submission_id", sub.ID, "risk_no", riskNo)
	return nil
}
