package web

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"feedback-console/internal/console"
	"feedback-console/internal/shared/metrics"
	"feedback-console/internal/shared/telemetry"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// DepsFunc builds the collaborators for a new session around its view.
type DepsFunc func(view console.View) console.Deps

// HubOptions tunes session lifetime.
type HubOptions struct {
	IdleTimeout time.Duration
	Now         func() time.Time
}

// Hub owns the live console sessions, one per open page.
type Hub struct {
	ctx     context.Context
	newDeps DepsFunc
	idle    time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*hubEntry
}

type hubEntry struct {
	session  *console.Session
	view     *sessionView
	ctx      context.Context
	cancel   context.CancelFunc
	lastSeen time.Time
	streams  int
}

// NewHub constructs a Hub. Sessions run until ctx ends, they are swept, or the hub closes.
func NewHub(ctx context.Context, newDeps DepsFunc, opts HubOptions) *Hub {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 10 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Hub{
		ctx:      ctx,
		newDeps:  newDeps,
		idle:     opts.IdleTimeout,
		now:      opts.Now,
		sessions: make(map[string]*hubEntry),
	}
}

// Create starts a new session and returns its id.
func (h *Hub) Create() string {
	id := uuid.NewString()
	view := newSessionView(id)
	deps := h.newDeps(view)
	deps.View = view
	session := console.NewSession(id, deps)

	ctx, cancel := context.WithCancel(h.ctx)
	entry := &hubEntry{session: session, view: view, ctx: ctx, cancel: cancel, lastSeen: h.now()}

	h.mu.Lock()
	h.sessions[id] = entry
	count := len(h.sessions)
	h.mu.Unlock()
	metrics.SetActiveSessions(count)

	go func() {
		if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			telemetry.Error("session.stopped", map[string]any{"session_id": id, "error": err.Error()})
		}
	}()
	telemetry.Info("session.created", map[string]any{"session_id": id})
	return id
}

// Dispatch queues ev on the session and records the result.
func (h *Hub) Dispatch(id string, ev console.Event) error {
	entry, err := h.touch(id)
	if err != nil {
		metrics.ObserveEvent(ev.Name(), "not_found")
		return err
	}
	err = entry.session.Dispatch(ev)
	switch {
	case err == nil:
		metrics.ObserveEvent(ev.Name(), "accepted")
	case errors.Is(err, console.ErrQueueFull):
		metrics.ObserveEvent(ev.Name(), "queue_full")
	default:
		metrics.ObserveEvent(ev.Name(), "closed")
	}
	return err
}

// Snapshot returns the state of a session.
func (h *Hub) Snapshot(ctx context.Context, id string) (console.Snapshot, error) {
	entry, err := h.touch(id)
	if err != nil {
		return console.Snapshot{}, err
	}
	return entry.session.Snapshot(ctx)
}

// attach marks a stream as reading the session's patches and returns them. The returned
// done channel closes when the session stops, including on hub close.
func (h *Hub) attach(id string) (<-chan Patch, <-chan struct{}, func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry, ok := h.sessions[id]
	if !ok {
		return nil, nil, nil, ErrSessionNotFound
	}
	entry.streams++
	entry.lastSeen = h.now()
	if n := entry.view.resync(); n > 0 {
		telemetry.Info("view.resynced", map[string]any{"session_id": id, "discarded": n})
	}
	detach := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		entry.streams--
		entry.lastSeen = h.now()
	}
	return entry.view.out, entry.ctx.Done(), detach, nil
}

func (h *Hub) touch(id string) (*hubEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry, ok := h.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastSeen = h.now()
	return entry, nil
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Sweep stops sessions with no attached stream that have been idle past the timeout.
func (h *Hub) Sweep() int {
	now := h.now()
	h.mu.Lock()
	var expired []string
	for id, entry := range h.sessions {
		if entry.streams == 0 && now.Sub(entry.lastSeen) > h.idle {
			entry.cancel()
			delete(h.sessions, id)
			expired = append(expired, id)
		}
	}
	count := len(h.sessions)
	h.mu.Unlock()

	if len(expired) > 0 {
		metrics.SetActiveSessions(count)
		telemetry.Info("session.swept", map[string]any{"expired": len(expired), "remaining": count})
	}
	return len(expired)
}

// RunSweeper sweeps every interval until ctx ends.
func (h *Hub) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.Sweep()
		}
	}
}

// Close stops every session.
func (h *Hub) Close() {
	h.mu.Lock()
	for id, entry := range h.sessions {
		entry.cancel()
		delete(h.sessions, id)
	}
	h.mu.Unlock()
	metrics.SetActiveSessions(0)
}
