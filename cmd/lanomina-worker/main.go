package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Yordi314/lanomina/internal/amqp"
	"github.com/Yordi314/lanomina/internal/config"
	applog "github.com/Yordi314/lanomina/internal/log"
	gsheet "github.com/Yordi314/lanomina/internal/sheets/google"
	"github.com/Yordi314/lanomina/internal/storage"
	"github.com/Yordi314/lanomina/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if !cfg.SheetsEnabled() {
		logger.Error("Export worker needs GOOGLE_SPREADSHEET_ID and credentials")
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("Export worker needs AMQP_URL")
		os.Exit(1)
	}

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writer, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
		IncomesSheet:    cfg.GoogleIncomesSheet,
		ExpensesSheet:   cfg.GoogleExpensesSheet,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	events, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", applog.FieldError, err)
		os.Exit(1)
	}
	defer events.Close()

	exporter := worker.NewExportWorker(store, writer, cfg.ExportBatchSize)

	// catch rows whose events were lost while the worker was down
	if err := exporter.StartupSweep(ctx); err != nil {
		logger.Error("Startup sweep failed", applog.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Consuming ledger events", "queue", cfg.AMQPQueue)
		return events.ConsumeLedgerEvents(gctx, func(msg *amqp.LedgerEventMessage) error {
			return exporter.HandleEvent(gctx, msg)
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
