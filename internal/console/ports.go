package console

import (
	"context"
	"html/template"
	"time"

	"feedback-console/internal/feedback"
	"feedback-console/internal/journal"
)

// View is the rendering surface a session drives. Implementations must not block.
type View interface {
	SetTriggerEnabled(enabled bool)
	ShowError(message string)
	HideError()
	ShowResult(fragment template.HTML)
	HideResult()
	ClearInput()
	ShowHistory(fragment template.HTML)
}

// Backend is the analysis service.
type Backend interface {
	Analyze(ctx context.Context, text string) (feedback.AnalysisResult, error)
	Query(ctx context.Context, q feedback.QueryRequest) (feedback.HistoryPage, error)
}

// Renderer projects analysis data onto HTML fragments.
type Renderer interface {
	Result(result feedback.AnalysisResult) (template.HTML, error)
	History(records []feedback.HistoryRecord) (template.HTML, error)
	HistoryLoading() template.HTML
	HistoryEmpty() template.HTML
	HistoryError(message string) template.HTML
}

// Journal stores submission outcomes.
type Journal interface {
	Create(ctx context.Context, entry journal.Entry) error
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

// AfterFunc implements Scheduler.
func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
