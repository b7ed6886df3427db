package web

import (
	"html/template"
	"sync/atomic"

	"feedback-console/internal/shared/telemetry"
)

const patchBufferSize = 128

// sessionView implements console.View by queueing patches for the session's event stream.
type sessionView struct {
	sessionID string
	out       chan Patch
	dropped   atomic.Uint64
	stale     atomic.Bool
}

func newSessionView(sessionID string) *sessionView {
	return &sessionView{
		sessionID: sessionID,
		out:       make(chan Patch, patchBufferSize),
	}
}

func (v *sessionView) send(p Patch) {
	select {
	case v.out <- p:
	default:
		v.stale.Store(true)
		n := v.dropped.Add(1)
		telemetry.Warn("view.patch_dropped", map[string]any{
			"session_id": v.sessionID,
			"op":         p.Op,
			"target":     p.Target,
			"dropped":    n,
		})
	}
}

// resync discards queued patches once any patch was dropped. The stream that attaches next
// gets a fresh trigger state and history from PageLoaded instead of a gapped backlog.
func (v *sessionView) resync() int {
	if !v.stale.Swap(false) {
		return 0
	}
	n := 0
	for {
		select {
		case <-v.out:
			n++
		default:
			return n
		}
	}
}

func (v *sessionView) SetTriggerEnabled(enabled bool) {
	if enabled {
		v.send(Patch{Op: OpEnable, Target: TargetTrigger})
		v.send(Patch{Op: OpShow, Target: TargetTriggerText})
		v.send(Patch{Op: OpHide, Target: TargetTriggerLoader})
		return
	}
	v.send(Patch{Op: OpDisable, Target: TargetTrigger})
	v.send(Patch{Op: OpHide, Target: TargetTriggerText})
	v.send(Patch{Op: OpShow, Target: TargetTriggerLoader})
}

func (v *sessionView) ShowError(message string) {
	v.send(Patch{Op: OpText, Target: TargetError, Text: message})
	v.send(Patch{Op: OpShow, Target: TargetError})
}

func (v *sessionView) HideError() {
	v.send(Patch{Op: OpHide, Target: TargetError})
}

func (v *sessionView) ShowResult(fragment template.HTML) {
	v.send(Patch{Op: OpHTML, Target: TargetResult, HTML: string(fragment)})
	v.send(Patch{Op: OpShow, Target: TargetResult})
}

func (v *sessionView) HideResult() {
	v.send(Patch{Op: OpHide, Target: TargetResult})
}

func (v *sessionView) ClearInput() {
	v.send(Patch{Op: OpValue, Target: TargetInput, Value: ""})
}

func (v *sessionView) ShowHistory(fragment template.HTML) {
	v.send(Patch{Op: OpHTML, Target: TargetHistory, HTML: string(fragment)})
}
