package console

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"feedback-console/internal/feedback"
	"feedback-console/internal/journal"
	"feedback-console/internal/shared/metrics"
	"feedback-console/internal/shared/telemetry"
	"feedback-console/internal/shared/util"
)

const (
	submitErrorPrefix = "Failed to analyze feedback: "
	journalTimeout    = 5 * time.Second
)

func (s *Session) submit(raw string) {
	if s.submission.Phase == PhaseSubmitting {
		telemetry.Warn("submission.rejected_in_flight", map[string]any{"session_id": s.id})
		return
	}

	text, err := feedback.NormalizeFeedback(raw)
	if err != nil {
		var validationErr *feedback.ValidationError
		if errors.As(err, &validationErr) {
			s.deps.View.ShowError(validationErr.Message)
		}
		return
	}

	s.submission.Phase = PhaseSubmitting
	s.deps.View.SetTriggerEnabled(false)
	s.deps.View.HideError()
	s.deps.View.HideResult()

	ctx := s.ctx
	go func() {
		start := time.Now()
		result, err := s.deps.Backend.Analyze(ctx, text)
		elapsed := time.Since(start)
		s.record(text, err, elapsed)
		s.post(ctx, submitCompleted{result: result, err: err, elapsed: elapsed})
	}()
}

func (s *Session) completeSubmit(e submitCompleted) {
	s.submission.Phase = PhaseIdle
	s.deps.View.SetTriggerEnabled(true)

	if e.err != nil {
		s.failSubmit(e.err, feedback.Kind(e.err))
		return
	}

	fragment, err := s.deps.Renderer.Result(e.result)
	if err != nil {
		s.failSubmit(err, feedback.KindRender)
		return
	}

	s.submission.LastOutcome = OutcomeSuccess
	s.deps.View.ShowResult(fragment)
	ctx := s.ctx
	s.deps.Scheduler.AfterFunc(s.deps.RefreshDelay, func() {
		s.post(ctx, RefreshRequested{Reason: "post_submit"})
	})
	s.deps.View.ClearInput()
}

func (s *Session) failSubmit(err error, kind string) {
	s.submission.LastOutcome = OutcomeError
	telemetry.Error("submission.failed", map[string]any{
		"session_id":  s.id,
		"error_kind":  kind,
		"status_code": feedback.StatusCode(err),
		"error":       err.Error(),
	})
	s.deps.View.ShowError(submitErrorPrefix + err.Error())
}

// record journals and counts one finished backend call. It runs off the loop.
func (s *Session) record(text string, err error, elapsed time.Duration) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.ObserveSubmission(outcome, feedback.Kind(err), elapsed)

	if s.deps.Journal == nil {
		return
	}
	entry := journal.Entry{
		ID:             uuid.NewString(),
		SessionID:      s.id,
		FeedbackSHA256: util.HashText(text),
		FeedbackLength: len([]rune(text)),
		Outcome:        outcome,
		ErrorKind:      feedback.Kind(err),
		StatusCode:     feedback.StatusCode(err),
		DurationMs:     elapsed.Milliseconds(),
		CreatedAt:      time.Now().UTC(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()
	if jerr := s.deps.Journal.Create(ctx, entry); jerr != nil {
		telemetry.Error("journal.write_failed", map[string]any{
			"session_id":    s.id,
			"entry_id":      entry.ID,
			"feedback_hash": util.ShortDigest(entry.FeedbackSHA256),
			"error":         jerr.Error(),
		})
	}
}
