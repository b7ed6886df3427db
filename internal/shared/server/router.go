package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"feedback-console/internal/journal"
	"feedback-console/internal/services/health"
	"feedback-console/internal/shared/config"
	"feedback-console/internal/shared/metrics"
	"feedback-console/internal/shared/server/middleware"
	"feedback-console/internal/shared/server/respond"
	"feedback-console/internal/web"
)

const (
	submitRateGroup = "SUBMIT"
	pageRateGroup   = "PAGE"
)

// Deps are the handlers and collaborators the router mounts.
type Deps struct {
	Config   config.Config
	Console  *web.Handler
	Journal  *journal.Handler
	Health   *health.Service
	Gatherer prometheus.Gatherer
	Limiter  *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Config.Env == "production" || deps.Config.Env == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: rateGroup,
			Limiter:  deps.Limiter,
			Rules: map[string]middleware.RateLimitRule{
				submitRateGroup: {Rate: deps.Config.SubmitRatePerSec, Burst: deps.Config.SubmitBurst},
				pageRateGroup:   {Rate: deps.Config.PageRatePerSec, Burst: deps.Config.PageBurst},
			},
		}),
	)

	r.GET("/healthz", health.Handler(deps.Health))
	if deps.Gatherer != nil {
		r.GET("/metrics", metrics.Handler(deps.Gatherer))
	}
	deps.Console.RegisterRoutes(r)
	deps.Journal.RegisterRoutes(r.Group("/api"))
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

// rateGroup limits submissions and page loads, which start a session each.
func rateGroup(c *gin.Context) string {
	switch {
	case c.Request.Method == http.MethodPost && c.FullPath() == web.SubmitRoute:
		return submitRateGroup
	case c.Request.Method == http.MethodGet && c.FullPath() == web.PageRoute:
		return pageRateGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
