package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"feedback-console/internal/bootstrap"
	"feedback-console/internal/shared/config"
	"feedback-console/internal/shared/server"
	"feedback-console/internal/shared/telemetry"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
	probeTimeout    = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.invalid", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	go probeBackend(app)

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Event streams end only when their session stops.
	srv.RegisterOnShutdown(app.Hub.Close)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		telemetry.Info("server.start", map[string]any{
			"addr":    srv.Addr,
			"env":     cfg.Env,
			"backend": app.Backend.BaseURL(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return app.Hub.RunSweeper(gctx, sweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		telemetry.Info("server.shutdown", nil)
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if cerr := app.Close(); cerr != nil {
		telemetry.Error("shutdown.close_failed", map[string]any{"error": cerr.Error()})
	}
	if err != nil {
		telemetry.Error("server.error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

// probeBackend logs whether the analysis service answers. It never blocks startup.
func probeBackend(app *bootstrap.App) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	if err := app.Backend.Ping(ctx); err != nil {
		telemetry.Warn("backend.unreachable", map[string]any{
			"backend": app.Backend.BaseURL(),
			"error":   err.Error(),
		})
		return
	}
	telemetry.Info("backend.reachable", map[string]any{"backend": app.Backend.BaseURL()})
}
