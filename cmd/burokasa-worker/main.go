package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"burokasa/internal/amqp"
	"burokasa/internal/backend"
	"burokasa/internal/cli"
	"burokasa/internal/services"
	"burokasa/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting burokasa-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the recompute worker")
		os.Exit(1)
	}

	store, err := backend.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// The worker's service never publishes; it only rebuilds reports.
	reports := services.NewReportService(store, nil, services.Options{
		HistoryMonths:  cfg.HistoryMonths,
		ForecastMonths: cfg.ForecastMonths,
		CacheSize:      cfg.CacheSize,
		CacheTTL:       cfg.CacheTTL,
	}, nil)
	defer reports.Close()

	recompute := worker.NewRecomputeWorker(reports, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Warm the standard reports before taking traffic.
	if err := recompute.Warm(ctx); err != nil {
		logger.Error("Initial report warm-up failed", "error", err)
		// Don't exit - the consume loop retries on the next change.
	}

	go func() {
		if err := amqpClient.ConsumeRecordChanges(ctx, recompute.HandleChange(ctx)); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down worker...")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
