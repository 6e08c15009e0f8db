package interfaces

import (
	"context"

	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
)

// SubmissionRepository stores user risk submissions. Rows are never deleted;
// the submission history is the moderation audit trail.
type SubmissionRepository interface {
	// Create stores a new submission
	Create(ctx context.Context, sub *model.UserRiskSubmission) (*model.UserRiskSubmission, error)

	// Get retrieves a submission by ID
	Get(ctx context.Context, id string) (*model.UserRiskSubmission, error)

	// List retrieves all submissions, optionally filtered by status
	List(ctx context.Context, status types.SubmissionStatus) ([]*model.UserRiskSubmission, error)

	// UpdateStatus sets the submission status and bumps UpdatedAt
	UpdateStatus(ctx context.Context, id string, status types.SubmissionStatus) (*model.UserRiskSubmission, error)
}
