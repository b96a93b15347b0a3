package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bizdocs-ai/bizdocs/internal/bootstrap"
	"github.com/bizdocs-ai/bizdocs/internal/config"
	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
	"github.com/bizdocs-ai/bizdocs/internal/observability/logging"
	"github.com/bizdocs-ai/bizdocs/internal/observability/metrics"
)

const processTimeout = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewJSONLogger("worker", "info").Error("config error", "error", err)
		os.Exit(1)
	}
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap error", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics()
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		logger.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("worker metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentIngested(ctx, func(handlerCtx context.Context, tenantID, documentID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, processTimeout)
		defer cancel()

		if doc, repoErr := app.Repo.GetByID(processCtx, tenantID, documentID); repoErr == nil {
			workerMetrics.ObserveQueueLag(time.Since(doc.CreatedAt))
		}

		workerMetrics.ProcessStarted()
		start := time.Now()
		processErr := app.ProcessUC.Process(processCtx, tenantID, documentID)
		workerMetrics.ProcessFinished(processOutcome(processErr), time.Since(start))

		if processErr == nil {
			if doc, repoErr := app.Repo.GetByID(processCtx, tenantID, documentID); repoErr == nil {
				workerMetrics.ChunksIndexed(doc.ChunkCount)
			}
		} else {
			logger.Error("document processing failed",
				"tenant_id", tenantID,
				"document_id", documentID,
				"error", processErr,
			)
		}
		return processErr
	})
	if err != nil {
		logger.Error("worker subscribe error", "error", err)
		os.Exit(1)
	}
}

func processOutcome(err error) string {
	switch {
	case err == nil:
		return "completed"
	case domain.IsKind(err, domain.ErrAlreadyProcessing):
		return "skipped"
	default:
		return "failed"
	}
}
