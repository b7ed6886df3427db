package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"feedback-console/internal/backend"
	"feedback-console/internal/console"
	"feedback-console/internal/journal"
	"feedback-console/internal/render"
	"feedback-console/internal/services/health"
	"feedback-console/internal/shared/config"
	"feedback-console/internal/shared/metrics"
	"feedback-console/internal/shared/server"
	"feedback-console/internal/shared/server/middleware"
	"feedback-console/internal/shared/storage/db"
	"feedback-console/internal/shared/telemetry"
	"feedback-console/internal/web"
)

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sqlx.DB
	Journal  journal.Repo
	Backend  *backend.Client
	Renderer *render.Renderer
	Hub      *web.Hub
	Health   *health.Service
	Registry *prometheus.Registry
}

// Build prepares dependencies and wires routes. Sessions live until ctx ends.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	telemetry.SetLevel(cfg.LogLevel)

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		return nil, err
	}
	client.WithMaxInFlight(cfg.BackendMaxInFlight)
	renderer, err := render.New(cfg.Location())
	if err != nil {
		return nil, err
	}

	var repo journal.Repo
	if sqlDB != nil {
		repo = &journal.PGRepo{DB: sqlDB}
	} else {
		repo = journal.NewMemoryRepo(0)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(reg); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	hub := web.NewHub(ctx, func(view console.View) console.Deps {
		return console.Deps{
			Backend:      client,
			Renderer:     renderer,
			Journal:      repo,
			RefreshDelay: cfg.HistoryRefreshDelay,
		}
	}, web.HubOptions{IdleTimeout: cfg.SessionIdleTimeout})
	consoleHandler, err := web.NewHandler(hub)
	if err != nil {
		return nil, err
	}

	healthSvc := health.NewService(0)
	healthSvc.Register("backend", client)
	if sqlDB != nil {
		healthSvc.Register("journal", health.CheckerFunc(sqlDB.PingContext))
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Journal:  repo,
		Backend:  client,
		Renderer: renderer,
		Hub:      hub,
		Health:   healthSvc,
		Registry: reg,
	}
	app.Router = server.NewRouter(server.Deps{
		Config:   cfg,
		Console:  consoleHandler,
		Journal:  journal.NewHandler(repo),
		Health:   healthSvc,
		Gatherer: reg,
		Limiter:  middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Close stops sessions and releases the database pool.
func (a *App) Close() error {
	a.Hub.Close()
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.journal_memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB.DB)
		if err != nil {
			_ = sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.journal_memory", map[string]any{"reason": "database unavailable", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch env {
	case "dev", "local":
		return true
	default:
		return false
	}
}
