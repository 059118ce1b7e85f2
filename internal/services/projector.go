package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Yordi314/lanomina/internal/core"
	"github.com/Yordi314/lanomina/internal/storage"
)

// Projector is the read side. Every snapshot re-reads the live collections
// and recomputes the derived figures; nothing is cached, so a snapshot taken
// right after a command always reflects it.
type Projector struct {
	store *storage.Store
}

func NewProjector(store *storage.Store) *Projector {
	return &Projector{store: store}
}

// Snapshot assembles the full derived view of an account as of now.
func (p *Projector) Snapshot(ctx context.Context, accountID string, now time.Time) (core.Snapshot, error) {
	q := p.store.Queries()

	categories, err := q.ListCategories(ctx, accountID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("list categories: %w", err)
	}
	goals, err := q.ListGoals(ctx, accountID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("list goals: %w", err)
	}
	periodic, err := q.ListPeriodicExpenses(ctx, accountID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("list periodic expenses: %w", err)
	}
	bills, err := q.ListFixedBills(ctx, accountID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("list fixed bills: %w", err)
	}
	loans, err := q.ListLoans(ctx, accountID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("list loans: %w", err)
	}
	incomes, err := q.ListIncomes(ctx, accountID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("list incomes: %w", err)
	}
	expenses, err := q.ListExpenses(ctx, accountID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("list expenses: %w", err)
	}

	return core.BuildSnapshot(accountID, now, categories, goals, periodic, bills, loans, incomes, expenses), nil
}

// Incomes returns the raw income history for an account.
func (p *Projector) Incomes(ctx context.Context, accountID string) ([]core.Income, error) {
	return p.store.Queries().ListIncomes(ctx, accountID)
}

// Expenses returns the raw expense history for an account.
func (p *Projector) Expenses(ctx context.Context, accountID string) ([]core.Expense, error) {
	return p.store.Queries().ListExpenses(ctx, accountID)
}
