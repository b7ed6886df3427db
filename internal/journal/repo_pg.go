package journal

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sqlx.DB
}

// Create inserts a journal entry.
func (r *PGRepo) Create(ctx context.Context, entry Entry) error {
	const query = `
INSERT INTO submission_journal (
	id, session_id, feedback_sha256, feedback_length, outcome, error_kind, status_code, duration_ms, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		entry.ID,
		entry.SessionID,
		entry.FeedbackSHA256,
		entry.FeedbackLength,
		entry.Outcome,
		entry.ErrorKind,
		entry.StatusCode,
		entry.DurationMs,
		entry.CreatedAt,
	)
	return err
}

// ListRecent returns up to limit entries, newest first.
func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	const query = `
SELECT id, session_id, feedback_sha256, feedback_length, outcome, error_kind, status_code, duration_ms, created_at
FROM submission_journal
ORDER BY created_at DESC
LIMIT $1`
	entries := []Entry{}
	if err := r.DB.SelectContext(ctx, &entries, query, clampLimit(limit)); err != nil {
		return nil, err
	}
	return entries, nil
}
