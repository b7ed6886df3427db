package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/metrics", Handler(reg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	return resp.Body.String()
}

func TestObserveSubmissionNormalizesLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	ObserveSubmission("weird", "http", -time.Second)
	ObserveSubmission(OutcomeError, "network", time.Second)

	body := scrape(t, reg)
	for _, want := range []string{
		`feedback_console_submissions_total{error_kind="",outcome="success"}`,
		`feedback_console_submissions_total{error_kind="network",outcome="error"}`,
		"feedback_console_submission_seconds_count",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output:\n%s", want, body)
		}
	}
	if strings.Contains(body, `outcome="weird"`) {
		t.Fatalf("unexpected raw outcome label:\n%s", body)
	}
}

func TestHandlerServesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second Register should be tolerated: %v", err)
	}
	ObserveHistoryQuery(OutcomeStale)
	SetActiveSessions(2)

	body := scrape(t, reg)
	for _, want := range []string{
		`feedback_console_history_queries_total{outcome="stale"}`,
		"feedback_console_active_sessions 2",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output:\n%s", want, body)
		}
	}
}
