// Package services holds the command side of the ledger: every mutation runs
// under a per-account lock and a single transaction, and the read side
// recomputes derived state from the stored collections on demand.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Yordi314/lanomina/internal/amqp"
	"github.com/Yordi314/lanomina/internal/core"
	"github.com/Yordi314/lanomina/internal/metrics"
	"github.com/Yordi314/lanomina/internal/storage"
)

// Default category setup for a fresh account. Categories are created once
// and never deleted; resets only zero their balances.
var defaultCategories = []core.Category{
	{Slug: core.SlugFixed, Name: "Gastos Fijos", AllocationPercentage: 50},
	{Slug: core.SlugSavings, Name: "Ahorros", AllocationPercentage: 30},
	{Slug: core.SlugVariable, Name: "Gastos Variables", AllocationPercentage: 20},
}

// Ledger orchestrates all mutating commands. Commands from the same account
// are serialized by a mutex so read-modify-write sequences on category
// balances never race; each command's writes commit or roll back together.
type Ledger struct {
	store  *storage.Store
	events *amqp.Client
	policy core.GasPolicy

	mu       sync.Mutex
	accounts map[string]*sync.Mutex
}

func NewLedger(store *storage.Store, events *amqp.Client, policy core.GasPolicy) *Ledger {
	return &Ledger{
		store:    store,
		events:   events,
		policy:   policy,
		accounts: make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) accountLock(accountID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.accounts[accountID]
	if !ok {
		m = &sync.Mutex{}
		l.accounts[accountID] = m
	}
	return m
}

// EnsureCategories creates any of the three budget categories missing for
// the account, with the default allocation split.
func (l *Ledger) EnsureCategories(ctx context.Context, accountID string) error {
	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		existing, err := q.ListCategories(ctx, accountID)
		if err != nil {
			return err
		}
		have := make(map[core.CategorySlug]bool, len(existing))
		for _, c := range existing {
			have[c.Slug] = true
		}
		for _, def := range defaultCategories {
			if have[def.Slug] {
				continue
			}
			c := def
			c.ID = uuid.NewString()
			c.AccountID = accountID
			if err := q.CreateCategory(ctx, c); err != nil {
				return err
			}
			slog.InfoContext(ctx, "Created default category",
				"account_id", accountID, "slug", string(c.Slug))
		}
		return nil
	})
}

// RecordIncome appends an income record and credits the categories according
// to the caller's distribution and the gas policy. The distribution is
// trusted as-is; shares that do not sum to the amount under- or
// over-allocate.
func (l *Ledger) RecordIncome(ctx context.Context, in core.Income, dist core.Distribution) (core.Income, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	lock := l.accountLock(in.AccountID)
	lock.Lock()
	defer lock.Unlock()

	credits := core.AllocateIncome(in.Amount, in.IncludesGas, dist, l.policy)

	err := l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.CreateIncome(ctx, in); err != nil {
			return err
		}
		// fixed order so failures are deterministic
		for _, slug := range []core.CategorySlug{core.SlugFixed, core.SlugSavings, core.SlugVariable} {
			m, ok := credits[slug]
			if !ok || m.IsZero() {
				continue
			}
			if err := l.creditCategory(ctx, q, in.AccountID, slug, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return core.Income{}, err
	}

	l.publishEvent(ctx, amqp.EventIncomeRecorded, in.AccountID, in.ID)
	return in, nil
}

// RecordExternalIncome credits a single category in full and appends an
// income record for the history, with no splitting and no gas flag.
func (l *Ledger) RecordExternalIncome(ctx context.Context, in core.Income, categoryID string) (core.Income, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}
	if in.Concept == "" {
		in.Concept = "Ingreso Extra"
	}
	in.IncludesGas = false
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	lock := l.accountLock(in.AccountID)
	lock.Lock()
	defer lock.Unlock()

	err := l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.CreateIncome(ctx, in); err != nil {
			return err
		}
		cat, err := q.GetCategory(ctx, in.AccountID, categoryID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("category %s: %w", categoryID, core.ErrNotFound)
			}
			return err
		}
		return q.UpdateCategoryBalance(ctx, in.AccountID, cat.ID, cat.Balance.Add(in.Amount).Cents)
	})
	if err != nil {
		return core.Income{}, err
	}

	l.publishEvent(ctx, amqp.EventIncomeRecorded, in.AccountID, in.ID)
	return in, nil
}

// UpdateIncome rewrites the history record only. Category balances are never
// adjusted: the original distribution was not retained, so there is nothing
// sound to reverse. Callers surface this to the user.
func (l *Ledger) UpdateIncome(ctx context.Context, in core.Income) error {
	if err := in.Validate(); err != nil {
		return err
	}

	lock := l.accountLock(in.AccountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.UpdateIncome(ctx, in); err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("income %s: %w", in.ID, core.ErrNotFound)
			}
			return err
		}
		return nil
	})
}

// DeleteIncome removes the history record. Balances stay put, same as
// UpdateIncome.
func (l *Ledger) DeleteIncome(ctx context.Context, accountID, id string) error {
	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.DeleteIncome(ctx, accountID, id); err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("income %s: %w", id, core.ErrNotFound)
			}
			return err
		}
		return nil
	})
}

// Transfer moves an amount between two categories. There is no affordability
// check and no floor: the source balance may go negative.
func (l *Ledger) Transfer(ctx context.Context, accountID, fromID, toID string, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if fromID == toID {
		return fmt.Errorf("%w: transfer to same category", core.ErrInvalidEnum)
	}

	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		from, err := q.GetCategory(ctx, accountID, fromID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("category %s: %w", fromID, core.ErrNotFound)
			}
			return err
		}
		to, err := q.GetCategory(ctx, accountID, toID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("category %s: %w", toID, core.ErrNotFound)
			}
			return err
		}
		if err := q.UpdateCategoryBalance(ctx, accountID, from.ID, from.Balance.Sub(amount).Cents); err != nil {
			return err
		}
		return q.UpdateCategoryBalance(ctx, accountID, to.ID, to.Balance.Add(amount).Cents)
	})
}

// AddExpense appends the expense record and debits its target. Gas expenses
// are history-only: they never touch a balance.
func (l *Ledger) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	lock := l.accountLock(e.AccountID)
	lock.Lock()
	defer lock.Unlock()

	err := l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.CreateExpense(ctx, e); err != nil {
			return err
		}
		return l.debitTarget(ctx, q, e)
	})
	if err != nil {
		return core.Expense{}, err
	}

	l.publishEvent(ctx, amqp.EventExpenseRecorded, e.AccountID, e.ID)
	return e, nil
}

// UpdateExpense reverses the old expense's impact, rewrites the record, then
// re-reads the (possibly different) target and applies the new debit. The
// re-read matters: when the target is unchanged, the debit must see the
// balance the reversal just restored.
func (l *Ledger) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	lock := l.accountLock(e.AccountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		old, err := q.GetExpense(ctx, e.AccountID, e.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("expense %s: %w", e.ID, core.ErrNotFound)
			}
			return err
		}
		if err := l.creditTarget(ctx, q, old); err != nil {
			return err
		}
		if err := q.UpdateExpense(ctx, e); err != nil {
			return err
		}
		return l.debitTarget(ctx, q, e)
	})
}

// DeleteExpense removes the record and refunds its target exactly.
func (l *Ledger) DeleteExpense(ctx context.Context, accountID, id string) error {
	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		e, err := q.GetExpense(ctx, accountID, id)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
			}
			return err
		}
		if err := q.DeleteExpense(ctx, accountID, id); err != nil {
			return err
		}
		return l.creditTarget(ctx, q, e)
	})
}

// debitTarget applies an expense's impact: a floor-at-zero subtraction on
// the target's balance. Gas expenses and loan targets leave every balance
// alone (loan progress is derived from the expense stream itself). A missing
// target is an error: new debits must land somewhere real.
func (l *Ledger) debitTarget(ctx context.Context, q *storage.Queries, e core.Expense) error {
	if e.IsGas || e.CategoryType == core.TargetLoan {
		return nil
	}
	switch {
	case e.CategoryType.IsCategory():
		cat, err := q.GetCategory(ctx, e.AccountID, e.CategoryID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("category %s: %w", e.CategoryID, core.ErrNotFound)
			}
			return err
		}
		return q.UpdateCategoryBalance(ctx, e.AccountID, cat.ID, cat.Balance.FloorSub(e.Amount).Cents)
	case e.CategoryType == core.TargetGoal:
		g, err := q.GetGoal(ctx, e.AccountID, e.CategoryID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("goal %s: %w", e.CategoryID, core.ErrNotFound)
			}
			return err
		}
		return q.UpdateGoalCurrent(ctx, e.AccountID, g.ID, g.CurrentAmount.FloorSub(e.Amount).Cents)
	case e.CategoryType == core.TargetPeriodic:
		p, err := q.GetPeriodicExpense(ctx, e.AccountID, e.CategoryID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("periodic expense %s: %w", e.CategoryID, core.ErrNotFound)
			}
			return err
		}
		return q.UpdatePeriodicCurrent(ctx, e.AccountID, p.ID, p.CurrentAmount.FloorSub(e.Amount).Cents)
	}
	return fmt.Errorf("%w: target kind %q", core.ErrInvalidEnum, e.CategoryType)
}

// creditTarget reverses an expense's impact with an exact (unfloored)
// addition. A target deleted since the expense was recorded is skipped with
// a warning: the reversal has nowhere to land, which the floor-at-zero debit
// rule already accepts as lossy.
func (l *Ledger) creditTarget(ctx context.Context, q *storage.Queries, e core.Expense) error {
	if e.IsGas || e.CategoryType == core.TargetLoan {
		return nil
	}
	orphaned := func(kind string) {
		slog.WarnContext(ctx, "Reversal target no longer exists, skipping refund",
			"kind", kind, "target_id", e.CategoryID, "expense_id", e.ID)
	}
	switch {
	case e.CategoryType.IsCategory():
		cat, err := q.GetCategory(ctx, e.AccountID, e.CategoryID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				orphaned("category")
				return nil
			}
			return err
		}
		return q.UpdateCategoryBalance(ctx, e.AccountID, cat.ID, cat.Balance.Add(e.Amount).Cents)
	case e.CategoryType == core.TargetGoal:
		g, err := q.GetGoal(ctx, e.AccountID, e.CategoryID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				orphaned("goal")
				return nil
			}
			return err
		}
		return q.UpdateGoalCurrent(ctx, e.AccountID, g.ID, g.CurrentAmount.Add(e.Amount).Cents)
	case e.CategoryType == core.TargetPeriodic:
		p, err := q.GetPeriodicExpense(ctx, e.AccountID, e.CategoryID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				orphaned("periodic expense")
				return nil
			}
			return err
		}
		return q.UpdatePeriodicCurrent(ctx, e.AccountID, p.ID, p.CurrentAmount.Add(e.Amount).Cents)
	}
	return fmt.Errorf("%w: target kind %q", core.ErrInvalidEnum, e.CategoryType)
}

func (l *Ledger) creditCategory(ctx context.Context, q *storage.Queries, accountID string, slug core.CategorySlug, m core.Money) error {
	cat, err := q.GetCategoryBySlug(ctx, accountID, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return fmt.Errorf("category %s: %w", slug, core.ErrNotFound)
		}
		return err
	}
	return q.UpdateCategoryBalance(ctx, accountID, cat.ID, cat.Balance.Add(m).Cents)
}

func (l *Ledger) publishEvent(ctx context.Context, kind, accountID, entityID string) {
	if l.events == nil {
		return
	}
	if err := l.events.PublishLedgerEvent(ctx, kind, accountID, entityID); err != nil {
		// the export worker's startup sweep catches missed rows
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", kind, "entity_id", entityID, "error", err)
		return
	}
	metrics.EventsPublished.WithLabelValues(kind).Inc()
}

// Close releases the broker connection; the store is owned by the caller.
func (l *Ledger) Close() error {
	if l.events != nil {
		if err := l.events.Close(); err != nil {
			return fmt.Errorf("amqp: %w", err)
		}
	}
	return nil
}
