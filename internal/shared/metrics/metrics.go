package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "feedback_console"

// Outcome labels shared by submissions and history queries.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeEmpty   = "empty"
	OutcomeStale   = "stale"
)

var (
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Analysis submissions sent to the backend, partitioned by outcome and error kind.",
		},
		[]string{"outcome", "error_kind"},
	)

	submissionDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_seconds",
			Help:      "Backend analysis latency in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	historyQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_queries_total",
			Help:      "History query responses, partitioned by how they were applied.",
		},
		[]string{"outcome"},
	)

	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Browser events dispatched to sessions, partitioned by event and result.",
		},
		[]string{"event", "result"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held by the console.",
		},
	)
)

// Register attaches console collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		submissionsTotal,
		submissionDurationSeconds,
		historyQueriesTotal,
		eventsTotal,
		activeSessions,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// Handler exposes the gatherer in Prometheus text format.
func Handler(g prometheus.Gatherer) gin.HandlerFunc {
	h := promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// ObserveSubmission records one backend analysis call.
func ObserveSubmission(outcome, errorKind string, duration time.Duration) {
	if outcome != OutcomeError {
		outcome = OutcomeSuccess
		errorKind = ""
	}
	submissionsTotal.WithLabelValues(outcome, errorKind).Inc()
	if duration < 0 {
		duration = 0
	}
	submissionDurationSeconds.Observe(duration.Seconds())
}

// ObserveHistoryQuery records how a history response was applied.
func ObserveHistoryQuery(outcome string) {
	historyQueriesTotal.WithLabelValues(outcome).Inc()
}

// ObserveEvent records one dispatched browser event.
func ObserveEvent(event, result string) {
	eventsTotal.WithLabelValues(event, result).Inc()
}

// SetActiveSessions sets the session gauge.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
