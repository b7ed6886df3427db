package console

import (
	"time"

	"feedback-console/internal/feedback"
)

// Event is a named message processed by a session's loop.
type Event interface {
	Name() string
}

// PageLoaded is dispatched once the page is ready to receive patches.
type PageLoaded struct{}

// SubmitRequested carries the raw text of the feedback input when the user submits.
type SubmitRequested struct {
	Text string
}

// FilterChanged carries a new value for one history filter.
type FilterChanged struct {
	Field string
	Value string
}

// RefreshRequested asks for a history reload. Reason is informational.
type RefreshRequested struct {
	Reason string
}

type submitCompleted struct {
	result  feedback.AnalysisResult
	err     error
	elapsed time.Duration
}

type historyCompleted struct {
	seq  uint64
	page feedback.HistoryPage
	err  error
}

func (PageLoaded) Name() string       { return "page_loaded" }
func (SubmitRequested) Name() string  { return "submit_requested" }
func (FilterChanged) Name() string    { return "filter_changed" }
func (RefreshRequested) Name() string { return "refresh_requested" }
func (submitCompleted) Name() string  { return "submit_completed" }
func (historyCompleted) Name() string { return "history_completed" }
