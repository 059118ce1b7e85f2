package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Yordi314/lanomina/internal/core"
)

func (q *Queries) CreateGoal(ctx context.Context, g core.Goal) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO goals (id, account_id, name, target_cents, current_cents, allocation_percentage, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.AccountID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		g.AllocationPercentage, encodeOptionalDate(g.DueDate))
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (q *Queries) GetGoal(ctx context.Context, accountID, id string) (core.Goal, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, account_id, name, target_cents, current_cents, allocation_percentage, due_date
		FROM goals WHERE account_id = ? AND id = ?`, accountID, id)
	return scanGoal(row)
}

func (q *Queries) ListGoals(ctx context.Context, accountID string) ([]core.Goal, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, account_id, name, target_cents, current_cents, allocation_percentage, due_date
		FROM goals WHERE account_id = ? ORDER BY created_at`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGoal persists the configurable fields; the stored current amount is
// only touched by UpdateGoalCurrent.
func (q *Queries) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE goals SET name = ?, target_cents = ?, allocation_percentage = ?, due_date = ?
		WHERE account_id = ? AND id = ?`,
		g.Name, g.TargetAmount.Cents, g.AllocationPercentage, encodeOptionalDate(g.DueDate),
		g.AccountID, g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res, "goal")
}

func (q *Queries) UpdateGoalCurrent(ctx context.Context, accountID, id string, currentCents int64) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE goals SET current_cents = ? WHERE account_id = ? AND id = ?`,
		currentCents, accountID, id)
	if err != nil {
		return fmt.Errorf("update goal current: %w", err)
	}
	return requireRow(res, "goal")
}

func (q *Queries) DeleteGoal(ctx context.Context, accountID, id string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM goals WHERE account_id = ? AND id = ?`, accountID, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res, "goal")
}

func (q *Queries) DeleteAllGoals(ctx context.Context, accountID string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM goals WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("delete goals: %w", err)
	}
	return nil
}

func scanGoal(r rowScanner) (core.Goal, error) {
	var g core.Goal
	var due sql.NullString
	if err := r.Scan(&g.ID, &g.AccountID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &g.AllocationPercentage, &due); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Goal{}, err
		}
		return core.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	if due.Valid && due.String != "" {
		t, err := time.Parse(time.RFC3339, due.String)
		if err != nil {
			return core.Goal{}, fmt.Errorf("parse goal due date: %w", err)
		}
		g.DueDate = &t
	}
	return g, nil
}

func encodeOptionalDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func encodeDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func decodeDate(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
