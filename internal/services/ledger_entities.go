package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Yordi314/lanomina/internal/core"
	"github.com/Yordi314/lanomina/internal/storage"
)

// Goals.

func (l *Ledger) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.CurrentAmount = core.Money{}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	lock := l.accountLock(g.AccountID)
	lock.Lock()
	defer lock.Unlock()

	err := l.store.WithTx(ctx, func(q *storage.Queries) error {
		return q.CreateGoal(ctx, g)
	})
	if err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

// UpdateGoal rewrites the goal's settings. CurrentAmount is not touched;
// only funding and goal-targeted expenses move it.
func (l *Ledger) UpdateGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}

	lock := l.accountLock(g.AccountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.UpdateGoal(ctx, g); err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("goal %s: %w", g.ID, core.ErrNotFound)
			}
			return err
		}
		return nil
	})
}

func (l *Ledger) DeleteGoal(ctx context.Context, accountID, id string) error {
	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.DeleteGoal(ctx, accountID, id); err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
			}
			return err
		}
		return nil
	})
}

// FundGoal moves money from the savings category into a goal. The savings
// debit floors at zero like any debit; the goal is credited in full.
func (l *Ledger) FundGoal(ctx context.Context, accountID, goalID string, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}

	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		g, err := q.GetGoal(ctx, accountID, goalID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("goal %s: %w", goalID, core.ErrNotFound)
			}
			return err
		}
		savings, err := q.GetCategoryBySlug(ctx, accountID, core.SlugSavings)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("savings category: %w", core.ErrNotFound)
			}
			return err
		}
		if err := q.UpdateCategoryBalance(ctx, accountID, savings.ID, savings.Balance.FloorSub(amount).Cents); err != nil {
			return err
		}
		return q.UpdateGoalCurrent(ctx, accountID, g.ID, g.CurrentAmount.Add(amount).Cents)
	})
}

// Periodic expenses (sinking funds).

func (l *Ledger) AddPeriodicExpense(ctx context.Context, p core.PeriodicExpense) (core.PeriodicExpense, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CurrentAmount = core.Money{}
	if err := p.Validate(); err != nil {
		return core.PeriodicExpense{}, err
	}

	lock := l.accountLock(p.AccountID)
	lock.Lock()
	defer lock.Unlock()

	err := l.store.WithTx(ctx, func(q *storage.Queries) error {
		return q.CreatePeriodicExpense(ctx, p)
	})
	if err != nil {
		return core.PeriodicExpense{}, err
	}
	return p, nil
}

func (l *Ledger) UpdatePeriodicExpense(ctx context.Context, p core.PeriodicExpense) error {
	if err := p.Validate(); err != nil {
		return err
	}

	lock := l.accountLock(p.AccountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.UpdatePeriodicExpense(ctx, p); err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("periodic expense %s: %w", p.ID, core.ErrNotFound)
			}
			return err
		}
		return nil
	})
}

func (l *Ledger) DeletePeriodicExpense(ctx context.Context, accountID, id string) error {
	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.DeletePeriodicExpense(ctx, accountID, id); err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("periodic expense %s: %w", id, core.ErrNotFound)
			}
			return err
		}
		return nil
	})
}

// FundPeriodicExpense moves money from savings into a sinking fund, same
// rules as FundGoal.
func (l *Ledger) FundPeriodicExpense(ctx context.Context, accountID, id string, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}

	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		p, err := q.GetPeriodicExpense(ctx, accountID, id)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("periodic expense %s: %w", id, core.ErrNotFound)
			}
			return err
		}
		savings, err := q.GetCategoryBySlug(ctx, accountID, core.SlugSavings)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("savings category: %w", core.ErrNotFound)
			}
			return err
		}
		if err := q.UpdateCategoryBalance(ctx, accountID, savings.ID, savings.Balance.FloorSub(amount).Cents); err != nil {
			return err
		}
		return q.UpdatePeriodicCurrent(ctx, accountID, p.ID, p.CurrentAmount.Add(amount).Cents)
	})
}

// Fixed bills. Bills never hold money; they only shape the fortnight
// surplus, so their commands are plain record writes.

func (l *Ledger) AddFixedBill(ctx context.Context, b core.FixedBill) (core.FixedBill, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if err := b.Validate(); err != nil {
		return core.FixedBill{}, err
	}

	lock := l.accountLock(b.AccountID)
	lock.Lock()
	defer lock.Unlock()

	err := l.store.WithTx(ctx, func(q *storage.Queries) error {
		return q.CreateFixedBill(ctx, b)
	})
	if err != nil {
		return core.FixedBill{}, err
	}
	return b, nil
}

func (l *Ledger) UpdateFixedBill(ctx context.Context, b core.FixedBill) error {
	if err := b.Validate(); err != nil {
		return err
	}

	lock := l.accountLock(b.AccountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.UpdateFixedBill(ctx, b); err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("fixed bill %s: %w", b.ID, core.ErrNotFound)
			}
			return err
		}
		return nil
	})
}

func (l *Ledger) DeleteFixedBill(ctx context.Context, accountID, id string) error {
	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.DeleteFixedBill(ctx, accountID, id); err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("fixed bill %s: %w", id, core.ErrNotFound)
			}
			return err
		}
		return nil
	})
}
