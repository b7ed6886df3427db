package console

import (
	"context"
	"errors"
	"time"

	"feedback-console/internal/feedback"
	"feedback-console/internal/shared/telemetry"
)

// DefaultRefreshDelay is the pause between a successful submission and the history reload.
const DefaultRefreshDelay = 500 * time.Millisecond

const eventQueueSize = 32

var (
	// ErrQueueFull is returned when a session cannot accept more events right now.
	ErrQueueFull = errors.New("session event queue full")
	// ErrClosed is returned when dispatching to a session whose loop has stopped.
	ErrClosed = errors.New("session closed")
)

// Deps are the collaborators of a Session.
type Deps struct {
	Backend      Backend
	Renderer     Renderer
	View         View
	Journal      Journal
	Scheduler    Scheduler
	RefreshDelay time.Duration
}

// Session is the controller state of one open page. All state is confined to the goroutine
// running Run; outbound calls run elsewhere and report back as events.
type Session struct {
	id   string
	deps Deps

	events chan Event
	done   chan struct{}
	ctx    context.Context

	submission  SubmissionState
	filters     feedback.FilterState
	nextSeq     uint64
	renderedSeq uint64

	snapshots chan chan Snapshot
}

// NewSession constructs a Session. Run must be called for it to process events.
func NewSession(id string, deps Deps) *Session {
	if deps.Scheduler == nil {
		deps.Scheduler = TimerScheduler{}
	}
	if deps.RefreshDelay <= 0 {
		deps.RefreshDelay = DefaultRefreshDelay
	}
	return &Session{
		id:        id,
		deps:      deps,
		events:    make(chan Event, eventQueueSize),
		done:      make(chan struct{}),
		ctx:       context.Background(),
		snapshots: make(chan chan Snapshot),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Run processes events until ctx is canceled.
func (s *Session) Run(ctx context.Context) error {
	s.ctx = ctx
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			s.handle(ev)
		case reply := <-s.snapshots:
			reply <- s.snapshot()
		}
	}
}

// Dispatch queues an event without blocking.
func (s *Session) Dispatch(ev Event) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Snapshot returns a copy of the session state as seen by its loop.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case s.snapshots <- reply:
	case <-s.done:
		return Snapshot{}, ErrClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		Submission: s.submission,
		Sentiment:  s.filters.Sentiment,
		Category:   s.filters.Category,
	}
}

// post delivers a completion event back to the loop, giving up once ctx ends.
func (s *Session) post(ctx context.Context, ev Event) {
	select {
	case s.events <- ev:
	case <-ctx.Done():
	}
}

func (s *Session) handle(ev Event) {
	switch e := ev.(type) {
	case PageLoaded:
		s.deps.View.SetTriggerEnabled(s.submission.Phase != PhaseSubmitting)
		s.loadHistory("page_loaded")
	case SubmitRequested:
		s.submit(e.Text)
	case submitCompleted:
		s.completeSubmit(e)
	case FilterChanged:
		s.changeFilter(e)
	case RefreshRequested:
		reason := e.Reason
		if reason == "" {
			reason = "manual"
		}
		s.loadHistory(reason)
	case historyCompleted:
		s.completeHistory(e)
	default:
		telemetry.Warn("session.unknown_event", map[string]any{
			"session_id": s.id,
			"event":      ev.Name(),
		})
	}
}

func (s *Session) changeFilter(e FilterChanged) {
	next, err := s.filters.With(e.Field, e.Value)
	if err != nil {
		telemetry.Warn("session.filter_rejected", map[string]any{
			"session_id": s.id,
			"field":      e.Field,
			"error":      err.Error(),
		})
		return
	}
	s.filters = next
	s.loadHistory("filter_changed")
}
