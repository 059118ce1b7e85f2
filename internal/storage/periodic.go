package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Yordi314/lanomina/internal/core"
)

func (q *Queries) CreatePeriodicExpense(ctx context.Context, p core.PeriodicExpense) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO periodic_expenses (id, account_id, name, target_cents, current_cents, due_date, frequency)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.AccountID, p.Name, p.TargetAmount.Cents, p.CurrentAmount.Cents,
		encodeDate(p.DueDate), string(p.Frequency))
	if err != nil {
		return fmt.Errorf("insert periodic expense: %w", err)
	}
	return nil
}

func (q *Queries) GetPeriodicExpense(ctx context.Context, accountID, id string) (core.PeriodicExpense, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, account_id, name, target_cents, current_cents, due_date, frequency
		FROM periodic_expenses WHERE account_id = ? AND id = ?`, accountID, id)
	return scanPeriodic(row)
}

func (q *Queries) ListPeriodicExpenses(ctx context.Context, accountID string) ([]core.PeriodicExpense, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, account_id, name, target_cents, current_cents, due_date, frequency
		FROM periodic_expenses WHERE account_id = ? ORDER BY created_at`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list periodic expenses: %w", err)
	}
	defer rows.Close()

	var out []core.PeriodicExpense
	for rows.Next() {
		p, err := scanPeriodic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q *Queries) UpdatePeriodicExpense(ctx context.Context, p core.PeriodicExpense) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE periodic_expenses SET name = ?, target_cents = ?, due_date = ?, frequency = ?
		WHERE account_id = ? AND id = ?`,
		p.Name, p.TargetAmount.Cents, encodeDate(p.DueDate), string(p.Frequency),
		p.AccountID, p.ID)
	if err != nil {
		return fmt.Errorf("update periodic expense: %w", err)
	}
	return requireRow(res, "periodic expense")
}

func (q *Queries) UpdatePeriodicCurrent(ctx context.Context, accountID, id string, currentCents int64) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE periodic_expenses SET current_cents = ? WHERE account_id = ? AND id = ?`,
		currentCents, accountID, id)
	if err != nil {
		return fmt.Errorf("update periodic current: %w", err)
	}
	return requireRow(res, "periodic expense")
}

func (q *Queries) DeletePeriodicExpense(ctx context.Context, accountID, id string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM periodic_expenses WHERE account_id = ? AND id = ?`, accountID, id)
	if err != nil {
		return fmt.Errorf("delete periodic expense: %w", err)
	}
	return requireRow(res, "periodic expense")
}

func (q *Queries) DeleteAllPeriodicExpenses(ctx context.Context, accountID string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM periodic_expenses WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("delete periodic expenses: %w", err)
	}
	return nil
}

func scanPeriodic(r rowScanner) (core.PeriodicExpense, error) {
	var p core.PeriodicExpense
	var due, freq string
	if err := r.Scan(&p.ID, &p.AccountID, &p.Name, &p.TargetAmount.Cents, &p.CurrentAmount.Cents, &due, &freq); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.PeriodicExpense{}, err
		}
		return core.PeriodicExpense{}, fmt.Errorf("scan periodic expense: %w", err)
	}
	t, err := decodeDate(due)
	if err != nil {
		return core.PeriodicExpense{}, fmt.Errorf("parse periodic due date: %w", err)
	}
	p.DueDate = t
	p.Frequency = core.PeriodicFrequency(freq)
	return p, nil
}
