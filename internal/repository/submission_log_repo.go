package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clientportal/internal/notify"
)

// SubmissionLogRepository stores notification attempts in Postgres.
type SubmissionLogRepository struct {
	db *pgxpool.Pool
}

func NewSubmissionLogRepository(db *pgxpool.Pool) *SubmissionLogRepository {
	return &SubmissionLogRepository{db: db}
}

// Record inserts an attempt. The worker records the delivery outcome under
// the same id, which updates the row in place.
func (r *SubmissionLogRepository) Record(ctx context.Context, s notify.Submission) error {
	query := `
        INSERT INTO notification_submissions (id, kind, client_id, template_id, status, error_reason, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
        ON CONFLICT (id) DO UPDATE
        SET status = EXCLUDED.status,
            error_reason = EXCLUDED.error_reason,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.db.Exec(ctx, query, s.ID, s.Kind, s.ClientID, s.TemplateID, s.Status, s.ErrorReason, s.CreatedAt)
	return err
}

// ListByClient returns the newest attempts for a client first.
func (r *SubmissionLogRepository) ListByClient(ctx context.Context, clientID string, limit int) ([]notify.Submission, error) {
	query := `
        SELECT id, kind, client_id, template_id, status, error_reason, created_at
        FROM notification_submissions
        WHERE client_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, clientID, limit)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (notify.Submission, error) {
		var s notify.Submission
		err := row.Scan(&s.ID, &s.Kind, &s.ClientID, &s.TemplateID, &s.Status, &s.ErrorReason, &s.CreatedAt)
		return s, err
	})
}
