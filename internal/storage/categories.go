package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Yordi314/lanomina/internal/core"
)

// ErrNoRows is returned when a referenced row does not exist; callers map it
// to core.ErrNotFound at the service boundary.
var ErrNoRows = sql.ErrNoRows

func (q *Queries) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO categories (id, account_id, slug, name, allocation_percentage, balance_cents)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.AccountID, string(c.Slug), c.Name, c.AllocationPercentage, c.Balance.Cents)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (q *Queries) GetCategory(ctx context.Context, accountID, id string) (core.Category, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, account_id, slug, name, allocation_percentage, balance_cents
		FROM categories WHERE account_id = ? AND id = ?`, accountID, id)
	return scanCategory(row)
}

func (q *Queries) GetCategoryBySlug(ctx context.Context, accountID string, slug core.CategorySlug) (core.Category, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, account_id, slug, name, allocation_percentage, balance_cents
		FROM categories WHERE account_id = ? AND slug = ?`, accountID, string(slug))
	return scanCategory(row)
}

func (q *Queries) ListCategories(ctx context.Context, accountID string) ([]core.Category, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, account_id, slug, name, allocation_percentage, balance_cents
		FROM categories WHERE account_id = ? ORDER BY created_at`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCategoryBalance overwrites a category's balance. Callers compute the
// new balance inside the same transaction they read the old one in.
func (q *Queries) UpdateCategoryBalance(ctx context.Context, accountID, id string, balanceCents int64) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE categories SET balance_cents = ? WHERE account_id = ? AND id = ?`,
		balanceCents, accountID, id)
	if err != nil {
		return fmt.Errorf("update category balance: %w", err)
	}
	return requireRow(res, "category")
}

func (q *Queries) ResetCategoryBalances(ctx context.Context, accountID string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE categories SET balance_cents = 0 WHERE account_id = ?`, accountID)
	if err != nil {
		return fmt.Errorf("reset category balances: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(r rowScanner) (core.Category, error) {
	var c core.Category
	var slug string
	if err := r.Scan(&c.ID, &c.AccountID, &slug, &c.Name, &c.AllocationPercentage, &c.Balance.Cents); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Category{}, err
		}
		return core.Category{}, fmt.Errorf("scan category: %w", err)
	}
	c.Slug = core.CategorySlug(slug)
	return c, nil
}

func requireRow(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, sql.ErrNoRows)
	}
	return nil
}
