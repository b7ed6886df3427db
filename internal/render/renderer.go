package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"feedback-console/internal/feedback"
)

//go:embed templates/*.html
var templateFiles embed.FS

// DateLayout is the display format of history timestamps.
const DateLayout = "Jan 2, 2006, 03:04 PM"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// Renderer turns analysis data into HTML fragments. It never touches the network.
type Renderer struct {
	tmpl *template.Template
	loc  *time.Location
}

// New parses the embedded fragment templates. Timestamps are displayed in loc (time.Local if nil).
func New(loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.Local
	}
	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse fragment templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, loc: loc}, nil
}

type resultView struct {
	Sentiment      template.HTML
	SentimentClass string
	Category       template.HTML
	Priority       string
	PriorityClass  string
	Keywords       []template.HTML
	RootCause      template.HTML
	Recommendation template.HTML
	Summary        template.HTML
}

type historyRow struct {
	Date           template.HTML
	Feedback       template.HTML
	Sentiment      template.HTML
	SentimentClass string
	Category       template.HTML
	CategoryClass  string
	Priority       int
	RootCause      template.HTML
}

type placeholderView struct {
	Message template.HTML
	Class   string
}

// Result renders one analysis result.
func (r *Renderer) Result(result feedback.AnalysisResult) (template.HTML, error) {
	view := resultView{
		Sentiment:      Escape(result.Sentiment),
		SentimentClass: "sentiment-" + SentimentToken(result.Sentiment),
		Category:       Escape(result.Category),
		Priority:       strconv.Itoa(result.PriorityScore) + "/5",
		PriorityClass:  "priority-" + PriorityToken(result.PriorityScore),
		Keywords:       make([]template.HTML, 0, len(result.Keywords)),
		RootCause:      Escape(result.RootCause),
		Recommendation: Escape(result.Recommendation),
		Summary:        Escape(result.Summary),
	}
	for _, keyword := range result.Keywords {
		view.Keywords = append(view.Keywords, Escape(keyword))
	}
	return r.execute("result.html", view)
}

// History renders records as a table, in the order given.
func (r *Renderer) History(records []feedback.HistoryRecord) (template.HTML, error) {
	rows := make([]historyRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, historyRow{
			Date:           r.formatDate(rec.CreatedAt),
			Feedback:       Escape(rec.FeedbackText),
			Sentiment:      Escape(rec.Sentiment),
			SentimentClass: "badge-" + SentimentToken(rec.Sentiment),
			Category:       Escape(rec.Category),
			CategoryClass:  "badge-" + CategoryToken(rec.Category),
			Priority:       rec.PriorityScore,
			RootCause:      Escape(rec.RootCause),
		})
	}
	return r.execute("history.html", rows)
}

// HistoryLoading renders the placeholder shown while a query is pending.
func (r *Renderer) HistoryLoading() template.HTML {
	return r.placeholder("Loading feedback history...", "loading")
}

// HistoryEmpty renders the placeholder for a query without records.
func (r *Renderer) HistoryEmpty() template.HTML {
	return r.placeholder("No feedback found", "loading")
}

// HistoryError renders the inline placeholder for a failed query.
func (r *Renderer) HistoryError(message string) template.HTML {
	return r.placeholder("Failed to load history: "+message, "loading loading-error")
}

func (r *Renderer) placeholder(message, class string) template.HTML {
	out, err := r.execute("placeholder.html", placeholderView{Message: Escape(message), Class: class})
	if err != nil {
		return template.HTML(`<div class="loading loading-error">` + string(Escape(message)) + `</div>`)
	}
	return out
}

func (r *Renderer) formatDate(raw string) template.HTML {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, r.loc); err == nil {
			return Escape(ts.In(r.loc).Format(DateLayout))
		}
	}
	return Escape(raw)
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
