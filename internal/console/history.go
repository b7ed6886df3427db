package console

import (
	"feedback-console/internal/feedback"
	"feedback-console/internal/shared/metrics"
	"feedback-console/internal/shared/telemetry"
)

// loadHistory issues one history query for the current filters. Queries may overlap;
// each carries a sequence number so a late, older response cannot replace a newer one.
func (s *Session) loadHistory(reason string) {
	query := feedback.BuildQuery(s.filters)
	s.nextSeq++
	seq := s.nextSeq

	s.deps.View.ShowHistory(s.deps.Renderer.HistoryLoading())
	telemetry.Info("history.query", map[string]any{
		"session_id": s.id,
		"seq":        seq,
		"reason":     reason,
		"params":     query.Params(),
	})

	ctx := s.ctx
	go func() {
		page, err := s.deps.Backend.Query(ctx, query)
		s.post(ctx, historyCompleted{seq: seq, page: page, err: err})
	}()
}

func (s *Session) completeHistory(e historyCompleted) {
	if e.seq < s.renderedSeq {
		metrics.ObserveHistoryQuery(metrics.OutcomeStale)
		telemetry.Info("history.stale_response", map[string]any{
			"session_id":   s.id,
			"seq":          e.seq,
			"rendered_seq": s.renderedSeq,
		})
		return
	}
	s.renderedSeq = e.seq

	if e.err != nil {
		metrics.ObserveHistoryQuery(metrics.OutcomeError)
		telemetry.Error("history.failed", map[string]any{
			"session_id":  s.id,
			"seq":         e.seq,
			"error_kind":  feedback.Kind(e.err),
			"status_code": feedback.StatusCode(e.err),
			"error":       e.err.Error(),
		})
		s.deps.View.ShowHistory(s.deps.Renderer.HistoryError(e.err.Error()))
		return
	}

	if !e.page.Success || len(e.page.Data) == 0 {
		metrics.ObserveHistoryQuery(metrics.OutcomeEmpty)
		s.deps.View.ShowHistory(s.deps.Renderer.HistoryEmpty())
		return
	}

	fragment, err := s.deps.Renderer.History(e.page.Data)
	if err != nil {
		metrics.ObserveHistoryQuery(metrics.OutcomeError)
		telemetry.Error("history.render_failed", map[string]any{
			"session_id": s.id,
			"seq":        e.seq,
			"error":      err.Error(),
		})
		s.deps.View.ShowHistory(s.deps.Renderer.HistoryError(err.Error()))
		return
	}
	metrics.ObserveHistoryQuery(metrics.OutcomeSuccess)
	s.deps.View.ShowHistory(fragment)
}
