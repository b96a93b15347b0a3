package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	httpadapter "github.com/bizdocs-ai/bizdocs/internal/adapters/http"
	"github.com/bizdocs-ai/bizdocs/internal/bootstrap"
	"github.com/bizdocs-ai/bizdocs/internal/config"
	"github.com/bizdocs-ai/bizdocs/internal/observability/logging"
	"github.com/bizdocs-ai/bizdocs/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewJSONLogger("api", "info").Error("config error", "error", err)
		os.Exit(1)
	}
	logger := logging.NewJSONLogger("api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap error", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	limiter := rate.NewLimiter(rate.Limit(cfg.APIRateRPS), cfg.APIRateBurst)

	router := httpadapter.NewRouter(
		app.IngestUC,
		app.QueryUC,
		app.Repo,
		app.DeleteUC,
		app.Registry,
		httpadapter.RouterOptions{
			Logger:         logger,
			Metrics:        httpMetrics,
			Limiter:        limiter,
			Stats:          app.StatsUC,
			MaxUploadBytes: cfg.MaxUploadBytes,
		},
	).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("api server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown error", "error", err)
	}
}
