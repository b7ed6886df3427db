package feedback

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NormalizeFeedback trims raw input and rejects text that must never reach the backend.
func NormalizeFeedback(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", &ValidationError{Message: MsgEmptyFeedback}
	}
	if utf8.RuneCountInString(text) > MaxFeedbackLength {
		return "", &ValidationError{Message: fmt.Sprintf("Feedback must be at most %d characters", MaxFeedbackLength)}
	}
	return text, nil
}

// Validate checks the fields the console relies on when rendering a result.
func (r AnalysisResult) Validate() error {
	if r.PriorityScore < 1 || r.PriorityScore > 5 {
		return fmt.Errorf("priority_score %d outside 1-5", r.PriorityScore)
	}
	return nil
}
