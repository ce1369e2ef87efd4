package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kirillkom/docproof/internal/bootstrap"
	"github.com/kirillkom/docproof/internal/config"
	"github.com/kirillkom/docproof/internal/observability/logging"
)

// jobTimeout bounds one job. Large documents take one provider call per
// chunk plus the configured pause between calls.
const jobTimeout = 2 * time.Hour

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger, "worker")
	if err != nil {
		logger.Error("bootstrap_error", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", app.WorkerMetrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker_metrics_server_error", "error", err)
		}
	}()

	go func() {
		err := app.Queue.SubscribeJobCancelled(ctx, func(_ context.Context, jobID string) error {
			if app.ProcessUC.CancelRunning(jobID) {
				logger.Info("job_cancel_received", "job_id", jobID)
			}
			return nil
		})
		if err != nil {
			logger.Error("worker_subscribe_cancel_error", "error", err)
			stop()
		}
	}()

	concurrency := cfg.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	slots := make(chan struct{}, concurrency)
	var running sync.WaitGroup

	logger.Info("worker_subscribed", "subject", cfg.NATSSubmitSubject, "concurrency", concurrency)
	err = app.Queue.SubscribeJobSubmitted(ctx, func(handlerCtx context.Context, jobID string) error {
		// Blocking here holds back delivery until a slot frees up.
		select {
		case slots <- struct{}{}:
		case <-handlerCtx.Done():
			return handlerCtx.Err()
		}

		running.Add(1)
		go func() {
			defer running.Done()
			defer func() { <-slots }()

			app.WorkerMetrics.StartJob()
			defer app.WorkerMetrics.FinishJob()

			processCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()
			if err := app.ProcessUC.ProcessByID(processCtx, jobID); err != nil {
				logger.Error("job_process_error", "job_id", jobID, "error", err)
			}
		}()
		return nil
	})
	if err != nil {
		logger.Error("worker_subscribe_error", "error", err)
	}
	running.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}
