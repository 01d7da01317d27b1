package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bonustracker/internal/amqp"
	"bonustracker/internal/config"
	"bonustracker/internal/log"
	"bonustracker/internal/services"
	"bonustracker/internal/sheets"
	gsheet "bonustracker/internal/sheets/google"
	"bonustracker/internal/storage"
	"bonustracker/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentWorker})
	log.SetDefault(logger)
	logger.Info("starting bonustracker-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to open database", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Spreadsheet sync is optional; without credentials the worker only
	// writes file snapshots.
	var writer sheets.FinanceWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets sync enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets sync disabled, no GOOGLE_SPREADSHEET_ID provided")
	}

	var consumer worker.Consumer
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("failed to connect to AMQP", log.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		consumer = client
		logger.Info("AMQP connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled, snapshots refresh on the timer only")
	}

	snapshotWorker := worker.NewSnapshotWorker(
		services.NewReportService(repo),
		writer,
		cfg.SnapshotDir,
		cfg.SnapshotInterval,
		logger,
	)

	// Write an initial snapshot so a fresh deployment has reports before
	// the first import or tick.
	if err := snapshotWorker.Snapshot(ctx); err != nil {
		logger.Error("initial snapshot failed", log.FieldError, err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())
		cancel()
	}()

	if err := snapshotWorker.Run(ctx, consumer); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("worker stopped gracefully")
}
