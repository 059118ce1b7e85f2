// Package worker exports committed ledger history to the spreadsheet. It is
// driven by AMQP events, with a startup sweep that catches rows whose events
// were lost while the worker was down.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Yordi314/lanomina/internal/amqp"
	"github.com/Yordi314/lanomina/internal/metrics"
	"github.com/Yordi314/lanomina/internal/sheets"
	"github.com/Yordi314/lanomina/internal/storage"
)

type ExportWorker struct {
	store     *storage.Store
	writer    sheets.HistoryWriter
	batchSize int
}

func NewExportWorker(store *storage.Store, writer sheets.HistoryWriter, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ExportWorker{
		store:     store,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleEvent exports the single row the event points at. A row already
// exported (or deleted before the event arrived) is a no-op, so redelivered
// events are safe.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	q := w.store.Queries()

	switch msg.Kind {
	case amqp.EventIncomeRecorded:
		in, err := q.GetIncome(ctx, msg.AccountID, msg.EntityID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				slog.WarnContext(ctx, "Income gone before export, skipping", "id", msg.EntityID)
				return nil
			}
			return fmt.Errorf("get income: %w", err)
		}
		if err := w.writer.AppendIncome(ctx, in); err != nil {
			return fmt.Errorf("append income row: %w", err)
		}
		metrics.RowsExported.WithLabelValues("income").Inc()
		return q.MarkIncomeExported(ctx, in.ID)

	case amqp.EventExpenseRecorded:
		e, err := q.GetExpense(ctx, msg.AccountID, msg.EntityID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				slog.WarnContext(ctx, "Expense gone before export, skipping", "id", msg.EntityID)
				return nil
			}
			return fmt.Errorf("get expense: %w", err)
		}
		if err := w.writer.AppendExpense(ctx, e); err != nil {
			return fmt.Errorf("append expense row: %w", err)
		}
		metrics.RowsExported.WithLabelValues("expense").Inc()
		return q.MarkExpenseExported(ctx, e.ID)
	}

	slog.WarnContext(ctx, "Unknown ledger event kind, dropping", "kind", msg.Kind)
	return nil
}

// StartupSweep exports rows still flagged unexported, recovering from missed
// events or worker downtime. Per-row failures are logged and skipped so one
// bad row cannot wedge the sweep.
func (w *ExportWorker) StartupSweep(ctx context.Context) error {
	q := w.store.Queries()

	incomes, err := q.ListUnexportedIncomes(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list unexported incomes: %w", err)
	}
	expenses, err := q.ListUnexportedExpenses(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list unexported expenses: %w", err)
	}

	if len(incomes) == 0 && len(expenses) == 0 {
		slog.InfoContext(ctx, "No pending history rows on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending history rows on startup",
		"incomes", len(incomes), "expenses", len(expenses))

	synced, failed := 0, 0
	for _, in := range incomes {
		if err := w.writer.AppendIncome(ctx, in); err != nil {
			slog.ErrorContext(ctx, "Failed to export income", "id", in.ID, "error", err)
			failed++
			continue
		}
		if err := q.MarkIncomeExported(ctx, in.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark income exported", "id", in.ID, "error", err)
			failed++
			continue
		}
		metrics.RowsExported.WithLabelValues("income").Inc()
		synced++
	}
	for _, e := range expenses {
		if err := w.writer.AppendExpense(ctx, e); err != nil {
			slog.ErrorContext(ctx, "Failed to export expense", "id", e.ID, "error", err)
			failed++
			continue
		}
		if err := q.MarkExpenseExported(ctx, e.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark expense exported", "id", e.ID, "error", err)
			failed++
			continue
		}
		metrics.RowsExported.WithLabelValues("expense").Inc()
		synced++
	}

	slog.InfoContext(ctx, "Startup sweep completed", "synced", synced, "errors", failed)
	return nil
}
