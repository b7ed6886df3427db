package journal

import (
	"context"
	"sync"
)

const defaultMemoryCapacity = 1000

// MemoryRepo keeps the most recent entries in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu       sync.RWMutex
	capacity int
	entries  []Entry
}

// NewMemoryRepo constructs a MemoryRepo holding at most capacity entries.
// A non-positive capacity selects the default.
func NewMemoryRepo(capacity int) *MemoryRepo {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryRepo{capacity: capacity}
}

// Create appends the entry, evicting the oldest once the repo is full.
func (r *MemoryRepo) Create(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if over := len(r.entries) - r.capacity; over > 0 {
		r.entries = append([]Entry(nil), r.entries[over:]...)
	}
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = clampLimit(limit)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, min(limit, len(r.entries)))
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
