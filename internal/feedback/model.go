package feedback

import "time"

// Sentiment values the analysis backend is known to emit. Other tags may appear.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

const (
	// HistoryLimit is the fixed page size of every history query.
	HistoryLimit = 20
	// MaxFeedbackLength mirrors the backend's accepted input size, in characters.
	MaxFeedbackLength = 5000
)

// AnalysisResult is the structured analysis the backend returns for one submission.
type AnalysisResult struct {
	ID             string     `json:"id,omitempty"`
	FeedbackText   string     `json:"feedback_text,omitempty"`
	Sentiment      string     `json:"sentiment"`
	Category       string     `json:"category"`
	PriorityScore  int        `json:"priority_score"`
	Keywords       []string   `json:"keywords"`
	RootCause      string     `json:"root_cause"`
	Recommendation string     `json:"recommendation"`
	Summary        string     `json:"summary"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

// HistoryRecord is one stored analysis as returned by the history query.
// CreatedAt is kept as the backend sent it; the renderer parses it for display.
type HistoryRecord struct {
	FeedbackText  string `json:"feedback_text"`
	Sentiment     string `json:"sentiment"`
	Category      string `json:"category"`
	PriorityScore int    `json:"priority_score"`
	RootCause     string `json:"root_cause"`
	CreatedAt     string `json:"created_at"`
}

// HistoryPage is the envelope wrapping a history query response.
type HistoryPage struct {
	Success bool            `json:"success"`
	Data    []HistoryRecord `json:"data"`
}

// FilterState holds the user's current history filter selections. Empty means unfiltered.
type FilterState struct {
	Sentiment string
	Category  string
}

// Filter fields accepted by FilterState.With.
const (
	FilterSentiment = "sentiment"
	FilterCategory  = "category"
)

// With returns a copy of the state with one field replaced.
func (f FilterState) With(field, value string) (FilterState, error) {
	switch field {
	case FilterSentiment:
		f.Sentiment = value
	case FilterCategory:
		f.Category = value
	default:
		return f, &ValidationError{Message: "unknown filter " + field}
	}
	return f, nil
}
