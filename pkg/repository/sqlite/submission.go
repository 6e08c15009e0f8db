package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
)

const submissionColumns = `id, owner_id, status, main_category, sub_category,
	source, hazard, risk, affected, responsible, measures,
	p, f, s, p2, f2, s2, created_at, updated_at`

type submissionRepository struct {
	db *sql.DB
}

func (r *submissionRepository) Create(ctx context.Context, sub *model.UserRiskSubmission) (*model.UserRiskSubmission, error) {
	now := time.Now().UTC()
	created := *sub
	created.ID = uuid.NewString()
	created.Status = types.SubmissionStatusPending
	created.CreatedAt = now
	created.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_submissions (`+submissionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.OwnerID, created.Status.String(),
		created.MainCategory, created.SubCategory, created.Source,
		created.Hazard, created.Risk, created.Affected, created.Responsible,
		created.Measures, created.P, created.F, created.S,
		created.P2, created.F2, created.S2, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create submission", goerr.V("ownerID", created.OwnerID))
	}

	return &created, nil
}

func (r *submissionRepository) Get(ctx context.Context, id string) (*model.UserRiskSubmission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM user_submissions WHERE id = ?`, id)

	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, goerr.Wrap(ErrNotFound, "submission not found", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get submission", goerr.V("id", id))
	}
	return sub, nil
}

func (r *submissionRepository) List(ctx context.Context, status types.SubmissionStatus) ([]*model.UserRiskSubmission, error) {
	q := `SELECT ` + submissionColumns + ` FROM user_submissions ORDER BY created_at`
	var args []any
	if status != "" {
		q = `SELECT ` + submissionColumns + ` FROM user_submissions WHERE status = ? ORDER BY created_at`
		args = append(args, status.String())
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list submissions")
	}
	defer rows.Close()

	var result []*model.UserRiskSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan submission")
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate submissions")
	}
	return result, nil
}

func (r *submissionRepository) UpdateStatus(ctx context.Context, id string, status types.SubmissionStatus) (*model.UserRiskSubmission, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_submissions SET status = ?, updated_at = ? WHERE id = ?`,
		status.String(), time.Now().UTC(), id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update submission status", goerr.V("id", id))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, goerr.Wrap(ErrNotFound, "submission not found", goerr.V("id", id))
	}

	return r.Get(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*model.UserRiskSubmission, error) {
	var sub model.UserRiskSubmission
	var status string
	if err := row.Scan(
		&sub.ID, &sub.OwnerID, &status,
		&sub.MainCategory, &sub.SubCategory, &sub.Source,
		&sub.Hazard, &sub.Risk, &sub.Affected, &sub.Responsible,
		&sub.Measures, &sub.P, &sub.F, &sub.S,
		&sub.P2, &sub.F2, &sub.S2, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	sub.Status = types.SubmissionStatus(status)
	return &sub, nil
}
