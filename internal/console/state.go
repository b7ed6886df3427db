package console

// Phase is the position of a session in the submission lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
)

func (p Phase) String() string {
	if p == PhaseSubmitting {
		return "submitting"
	}
	return "idle"
}

// Outcome records how the last submission ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	default:
		return "none"
	}
}

// SubmissionState is owned by the session loop and changed only by submission handlers.
type SubmissionState struct {
	Phase       Phase
	LastOutcome Outcome
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	Submission SubmissionState
	Sentiment  string
	Category   string
}
