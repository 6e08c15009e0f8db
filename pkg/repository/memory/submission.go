package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
)

type submissionRepository struct {
	mu          sync.RWMutex
	submissions map[string]*model.UserRiskSubmission
	order       []string
}

func newSubmissionRepository() *submissionRepository {
	return &submissionRepository{
		submissions: make(map[string]*model.UserRiskSubmission),
	}
}

func (r *submissionRepository) Create(ctx context.Context, sub *model.UserRiskSubmission) (*model.UserRiskSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := *sub
	created.ID = uuid.NewString()
	created.Status = types.SubmissionStatusPending
	created.CreatedAt = now
	created.UpdatedAt = now

	r.submissions[created.ID] = &created
	r.order = append(r.order, created.ID)

	out := created
	return &out, nil
}

func (r *submissionRepository) Get(ctx context.Context, id string) (*model.UserRiskSubmission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.submissions[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "submission not found", goerr.V("id", id))
	}

	out := *sub
	return &out, nil
}

func (r *submissionRepository) List(ctx context.Context, status types.SubmissionStatus) ([]*model.UserRiskSubmission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.UserRiskSubmission
	for _, id := range r.order {
		sub := r.submissions[id]
		if status != "" && sub.Status != status {
			continue
		}
		out := *sub
		result = append(result, &out)
	}
	return result, nil
}

func (r *submissionRepository) UpdateStatus(ctx context.Context, id string, status types.SubmissionStatus) (*model.UserRiskSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.submissions[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "submission not found", goerr.V("id", id))
	}

	sub.Status = status
	sub.UpdatedAt = time.Now().UTC()

	out := *sub
	return &out, nil
}
