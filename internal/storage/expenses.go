package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Yordi314/lanomina/internal/core"
)

func (q *Queries) CreateExpense(ctx context.Context, e core.Expense) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO expenses (id, account_id, date, amount_cents, category_id, category_type, description, is_gas)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.AccountID, encodeDate(e.Date), e.Amount.Cents,
		e.CategoryID, string(e.CategoryType), e.Description, boolToInt(e.IsGas))
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (q *Queries) GetExpense(ctx context.Context, accountID, id string) (core.Expense, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, account_id, date, amount_cents, category_id, category_type, description, is_gas
		FROM expenses WHERE account_id = ? AND id = ?`, accountID, id)
	return scanExpense(row)
}

func (q *Queries) ListExpenses(ctx context.Context, accountID string) ([]core.Expense, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, account_id, date, amount_cents, category_id, category_type, description, is_gas
		FROM expenses WHERE account_id = ? ORDER BY date DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

// ListExpensesByTarget returns the expenses charged against one target, used
// to fold loan payment history.
func (q *Queries) ListExpensesByTarget(ctx context.Context, accountID string, kind core.TargetKind, targetID string) ([]core.Expense, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, account_id, date, amount_cents, category_id, category_type, description, is_gas
		FROM expenses WHERE account_id = ? AND category_type = ? AND category_id = ?
		ORDER BY date`, accountID, string(kind), targetID)
	if err != nil {
		return nil, fmt.Errorf("list expenses by target: %w", err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func (q *Queries) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE expenses SET date = ?, amount_cents = ?, category_id = ?, category_type = ?, description = ?, is_gas = ?
		WHERE account_id = ? AND id = ?`,
		encodeDate(e.Date), e.Amount.Cents, e.CategoryID, string(e.CategoryType),
		e.Description, boolToInt(e.IsGas), e.AccountID, e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res, "expense")
}

func (q *Queries) DeleteExpense(ctx context.Context, accountID, id string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE account_id = ? AND id = ?`, accountID, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res, "expense")
}

func (q *Queries) DeleteAllExpenses(ctx context.Context, accountID string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM expenses WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("delete expenses: %w", err)
	}
	return nil
}

func (q *Queries) ListUnexportedExpenses(ctx context.Context, limit int) ([]core.Expense, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, account_id, date, amount_cents, category_id, category_type, description, is_gas
		FROM expenses WHERE exported = 0 ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unexported expenses: %w", err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func (q *Queries) MarkExpenseExported(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE expenses SET exported = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark expense exported: %w", err)
	}
	return nil
}

func collectExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanExpense(r rowScanner) (core.Expense, error) {
	var e core.Expense
	var date, kind string
	var gas int
	if err := r.Scan(&e.ID, &e.AccountID, &date, &e.Amount.Cents, &e.CategoryID, &kind, &e.Description, &gas); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	t, err := decodeDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse expense date: %w", err)
	}
	e.Date = t
	e.CategoryType = core.TargetKind(kind)
	e.IsGas = gas != 0
	return e, nil
}
