package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Yordi314/lanomina/internal/core"
)

func (q *Queries) CreateFixedBill(ctx context.Context, b core.FixedBill) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO fixed_bills (id, account_id, name, amount_cents, frequency, fortnight)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.AccountID, b.Name, b.Amount.Cents, string(b.Frequency), encodeFortnight(b.Fortnight))
	if err != nil {
		return fmt.Errorf("insert fixed bill: %w", err)
	}
	return nil
}

func (q *Queries) GetFixedBill(ctx context.Context, accountID, id string) (core.FixedBill, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, account_id, name, amount_cents, frequency, fortnight
		FROM fixed_bills WHERE account_id = ? AND id = ?`, accountID, id)
	return scanFixedBill(row)
}

func (q *Queries) ListFixedBills(ctx context.Context, accountID string) ([]core.FixedBill, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, account_id, name, amount_cents, frequency, fortnight
		FROM fixed_bills WHERE account_id = ? ORDER BY created_at`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list fixed bills: %w", err)
	}
	defer rows.Close()

	var out []core.FixedBill
	for rows.Next() {
		b, err := scanFixedBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (q *Queries) UpdateFixedBill(ctx context.Context, b core.FixedBill) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE fixed_bills SET name = ?, amount_cents = ?, frequency = ?, fortnight = ?
		WHERE account_id = ? AND id = ?`,
		b.Name, b.Amount.Cents, string(b.Frequency), encodeFortnight(b.Fortnight),
		b.AccountID, b.ID)
	if err != nil {
		return fmt.Errorf("update fixed bill: %w", err)
	}
	return requireRow(res, "fixed bill")
}

func (q *Queries) DeleteFixedBill(ctx context.Context, accountID, id string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM fixed_bills WHERE account_id = ? AND id = ?`, accountID, id)
	if err != nil {
		return fmt.Errorf("delete fixed bill: %w", err)
	}
	return requireRow(res, "fixed bill")
}

func (q *Queries) DeleteAllFixedBills(ctx context.Context, accountID string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM fixed_bills WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("delete fixed bills: %w", err)
	}
	return nil
}

func encodeFortnight(f *int) any {
	if f == nil {
		return nil
	}
	return *f
}

func scanFixedBill(r rowScanner) (core.FixedBill, error) {
	var b core.FixedBill
	var freq string
	var fortnight sql.NullInt64
	if err := r.Scan(&b.ID, &b.AccountID, &b.Name, &b.Amount.Cents, &freq, &fortnight); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.FixedBill{}, err
		}
		return core.FixedBill{}, fmt.Errorf("scan fixed bill: %w", err)
	}
	b.Frequency = core.BillFrequency(freq)
	if fortnight.Valid {
		f := int(fortnight.Int64)
		b.Fortnight = &f
	}
	return b, nil
}
