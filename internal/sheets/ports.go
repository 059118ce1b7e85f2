package sheets

import (
	"context"

	"github.com/Yordi314/lanomina/internal/core"
)

// Ports for outbound adapters.
type (
	// HistoryWriter appends ledger history rows to the export spreadsheet.
	HistoryWriter interface {
		AppendIncome(ctx context.Context, in core.Income) error
		AppendExpense(ctx context.Context, e core.Expense) error
	}
)
