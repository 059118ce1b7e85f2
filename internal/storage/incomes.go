package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Yordi314/lanomina/internal/core"
)

func (q *Queries) CreateIncome(ctx context.Context, i core.Income) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO incomes (id, account_id, date, concept, amount_cents, includes_gas)
		VALUES (?, ?, ?, ?, ?, ?)`,
		i.ID, i.AccountID, encodeDate(i.Date), i.Concept, i.Amount.Cents, boolToInt(i.IncludesGas))
	if err != nil {
		return fmt.Errorf("insert income: %w", err)
	}
	return nil
}

func (q *Queries) GetIncome(ctx context.Context, accountID, id string) (core.Income, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, account_id, date, concept, amount_cents, includes_gas
		FROM incomes WHERE account_id = ? AND id = ?`, accountID, id)
	return scanIncome(row)
}

func (q *Queries) ListIncomes(ctx context.Context, accountID string) ([]core.Income, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, account_id, date, concept, amount_cents, includes_gas
		FROM incomes WHERE account_id = ? ORDER BY date DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// UpdateIncome rewrites the history fields only. Category balances are left
// alone on purpose: the original distribution was not retained.
func (q *Queries) UpdateIncome(ctx context.Context, i core.Income) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE incomes SET date = ?, concept = ?, amount_cents = ?
		WHERE account_id = ? AND id = ?`,
		encodeDate(i.Date), i.Concept, i.Amount.Cents, i.AccountID, i.ID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return requireRow(res, "income")
}

func (q *Queries) DeleteIncome(ctx context.Context, accountID, id string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM incomes WHERE account_id = ? AND id = ?`, accountID, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return requireRow(res, "income")
}

func (q *Queries) DeleteAllIncomes(ctx context.Context, accountID string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM incomes WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("delete incomes: %w", err)
	}
	return nil
}

// ListUnexportedIncomes returns history rows not yet pushed to the export
// spreadsheet, oldest first.
func (q *Queries) ListUnexportedIncomes(ctx context.Context, limit int) ([]core.Income, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, account_id, date, concept, amount_cents, includes_gas
		FROM incomes WHERE exported = 0 ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unexported incomes: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (q *Queries) MarkIncomeExported(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE incomes SET exported = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark income exported: %w", err)
	}
	return nil
}

func scanIncome(r rowScanner) (core.Income, error) {
	var i core.Income
	var date string
	var gas int
	if err := r.Scan(&i.ID, &i.AccountID, &date, &i.Concept, &i.Amount.Cents, &gas); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Income{}, err
		}
		return core.Income{}, fmt.Errorf("scan income: %w", err)
	}
	t, err := decodeDate(date)
	if err != nil {
		return core.Income{}, fmt.Errorf("parse income date: %w", err)
	}
	i.Date = t
	i.IncludesGas = gas != 0
	return i, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
