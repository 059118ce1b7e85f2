package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Yordi314/lanomina/internal/core"
)

func (q *Queries) CreateLoan(ctx context.Context, l core.Loan) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO loans (id, account_id, name, total_cents, duration_value, duration_type,
			payment_per_fortnight_cents, start_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.AccountID, l.Name, l.TotalAmount.Cents, l.DurationValue, string(l.DurationType),
		l.PaymentPerFortnight.Cents, encodeDate(l.StartDate), string(l.Status))
	if err != nil {
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

func (q *Queries) GetLoan(ctx context.Context, accountID, id string) (core.Loan, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, account_id, name, total_cents, duration_value, duration_type,
			payment_per_fortnight_cents, start_date, status
		FROM loans WHERE account_id = ? AND id = ?`, accountID, id)
	return scanLoan(row)
}

func (q *Queries) ListLoans(ctx context.Context, accountID string) ([]core.Loan, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, account_id, name, total_cents, duration_value, duration_type,
			payment_per_fortnight_cents, start_date, status
		FROM loans WHERE account_id = ? ORDER BY created_at`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	var out []core.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (q *Queries) UpdateLoan(ctx context.Context, l core.Loan) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE loans SET name = ?, total_cents = ?, duration_value = ?, duration_type = ?,
			payment_per_fortnight_cents = ?, start_date = ?, status = ?
		WHERE account_id = ? AND id = ?`,
		l.Name, l.TotalAmount.Cents, l.DurationValue, string(l.DurationType),
		l.PaymentPerFortnight.Cents, encodeDate(l.StartDate), string(l.Status),
		l.AccountID, l.ID)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	return requireRow(res, "loan")
}

func (q *Queries) UpdateLoanStatus(ctx context.Context, accountID, id string, status core.LoanStatus) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE loans SET status = ? WHERE account_id = ? AND id = ?`,
		string(status), accountID, id)
	if err != nil {
		return fmt.Errorf("update loan status: %w", err)
	}
	return requireRow(res, "loan")
}

func (q *Queries) DeleteLoan(ctx context.Context, accountID, id string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM loans WHERE account_id = ? AND id = ?`, accountID, id)
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	return requireRow(res, "loan")
}

func (q *Queries) DeleteAllLoans(ctx context.Context, accountID string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM loans WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("delete loans: %w", err)
	}
	return nil
}

func scanLoan(r rowScanner) (core.Loan, error) {
	var l core.Loan
	var durationType, startDate, status string
	if err := r.Scan(&l.ID, &l.AccountID, &l.Name, &l.TotalAmount.Cents, &l.DurationValue,
		&durationType, &l.PaymentPerFortnight.Cents, &startDate, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Loan{}, err
		}
		return core.Loan{}, fmt.Errorf("scan loan: %w", err)
	}
	l.DurationType = core.DurationType(durationType)
	l.Status = core.LoanStatus(status)
	t, err := decodeDate(startDate)
	if err != nil {
		return core.Loan{}, fmt.Errorf("parse loan start date: %w", err)
	}
	l.StartDate = t
	return l, nil
}
