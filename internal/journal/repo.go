package journal

import "context"

const (
	// DefaultListLimit is used when a caller does not ask for a specific page size.
	DefaultListLimit = 20
	// MaxListLimit caps a single listing.
	MaxListLimit = 100
)

// Repo defines persistence operations for the submission journal.
type Repo interface {
	Create(ctx context.Context, entry Entry) error
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
