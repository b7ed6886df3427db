package journal

import "time"

// Outcome values stored on an Entry.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Entry records one analysis submission. The feedback text itself is never stored.
type Entry struct {
	ID             string    `db:"id" json:"id"`
	SessionID      string    `db:"session_id" json:"sessionId"`
	FeedbackSHA256 string    `db:"feedback_sha256" json:"feedbackSha256"`
	FeedbackLength int       `db:"feedback_length" json:"feedbackLength"`
	Outcome        string    `db:"outcome" json:"outcome"`
	ErrorKind      string    `db:"error_kind" json:"errorKind,omitempty"`
	StatusCode     int       `db:"status_code" json:"statusCode,omitempty"`
	DurationMs     int64     `db:"duration_ms" json:"durationMs"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
