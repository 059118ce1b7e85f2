package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Yordi314/lanomina/internal/amqp"
	"github.com/Yordi314/lanomina/internal/core"
	"github.com/Yordi314/lanomina/internal/storage"
)

// AddLoan stores the loan with its derived flat schedule. Whatever payment
// figure the caller supplied is discarded; the schedule is always computed
// from the total and the duration.
func (l *Ledger) AddLoan(ctx context.Context, ln core.Loan) (core.Loan, error) {
	if ln.ID == "" {
		ln.ID = uuid.NewString()
	}
	if ln.Status == "" {
		ln.Status = core.LoanActive
	}
	if ln.StartDate.IsZero() {
		ln.StartDate = time.Now().UTC()
	}
	if err := ln.Validate(); err != nil {
		return core.Loan{}, err
	}
	ln.PaymentPerFortnight = ln.Schedule()

	lock := l.accountLock(ln.AccountID)
	lock.Lock()
	defer lock.Unlock()

	err := l.store.WithTx(ctx, func(q *storage.Queries) error {
		return q.CreateLoan(ctx, ln)
	})
	if err != nil {
		return core.Loan{}, err
	}
	return ln, nil
}

// UpdateLoan rewrites the loan terms and re-derives the schedule. Repayment
// progress is untouched: it lives in the expense stream.
func (l *Ledger) UpdateLoan(ctx context.Context, ln core.Loan) error {
	if err := ln.Validate(); err != nil {
		return err
	}
	ln.PaymentPerFortnight = ln.Schedule()

	lock := l.accountLock(ln.AccountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.UpdateLoan(ctx, ln); err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("loan %s: %w", ln.ID, core.ErrNotFound)
			}
			return err
		}
		return nil
	})
}

// DeleteLoan removes the loan record. Its payment expenses stay in the
// history as ordinary records; with the loan gone they no longer project
// onto anything.
func (l *Ledger) DeleteLoan(ctx context.Context, accountID, id string) error {
	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.DeleteLoan(ctx, accountID, id); err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("loan %s: %w", id, core.ErrNotFound)
			}
			return err
		}
		return nil
	})
}

// ToggleLoanStatus marks a loan active or paid. A paid loan keeps its
// history but stops committing its payment to the fortnight total.
func (l *Ledger) ToggleLoanStatus(ctx context.Context, accountID, id string, status core.LoanStatus) error {
	switch status {
	case core.LoanActive, core.LoanPaid:
	default:
		return fmt.Errorf("%w: status %q", core.ErrInvalidEnum, status)
	}

	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.UpdateLoanStatus(ctx, accountID, id, status); err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("loan %s: %w", id, core.ErrNotFound)
			}
			return err
		}
		return nil
	})
}

// PayLoan debits the source category (floored at zero) and appends a
// loan-targeted expense. The loan row itself never changes; progress is
// derived by folding these expenses.
func (l *Ledger) PayLoan(ctx context.Context, accountID, loanID, sourceCategoryID string, amount core.Money) (core.Expense, error) {
	if err := amount.Validate(); err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		Date:         time.Now().UTC(),
		Amount:       amount,
		CategoryID:   loanID,
		CategoryType: core.TargetLoan,
		Description:  "Abono a préstamo",
	}

	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	err := l.store.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetLoan(ctx, accountID, loanID); err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("loan %s: %w", loanID, core.ErrNotFound)
			}
			return err
		}
		src, err := q.GetCategory(ctx, accountID, sourceCategoryID)
		if err != nil {
			if errors.Is(err, storage.ErrNoRows) {
				return fmt.Errorf("category %s: %w", sourceCategoryID, core.ErrNotFound)
			}
			return err
		}
		if err := q.UpdateCategoryBalance(ctx, accountID, src.ID, src.Balance.FloorSub(amount).Cents); err != nil {
			return err
		}
		return q.CreateExpense(ctx, e)
	})
	if err != nil {
		return core.Expense{}, err
	}

	l.publishEvent(ctx, amqp.EventExpenseRecorded, accountID, e.ID)
	return e, nil
}

// ResetAllData wipes every collection for the account and zeroes the
// category balances. The categories themselves survive.
func (l *Ledger) ResetAllData(ctx context.Context, accountID string) error {
	lock := l.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	err := l.store.WithTx(ctx, func(q *storage.Queries) error {
		for _, del := range []func(context.Context, string) error{
			q.DeleteAllExpenses,
			q.DeleteAllIncomes,
			q.DeleteAllGoals,
			q.DeleteAllPeriodicExpenses,
			q.DeleteAllFixedBills,
			q.DeleteAllLoans,
		} {
			if err := del(ctx, accountID); err != nil {
				return err
			}
		}
		return q.ResetCategoryBalances(ctx, accountID)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Account data reset", "account_id", accountID)
	return nil
}
