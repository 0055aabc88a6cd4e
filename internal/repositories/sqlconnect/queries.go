package sqlconnect

import (
	"context"
	"database/sql"
	"fmt"

	"splitpot/internal/services"
)

func GroupExists(ctx context.Context, db *sql.DB, groupID int) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM `groups` WHERE id = ?)", groupID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check group %d: %w", groupID, err)
	}
	return exists, nil
}

// GroupExpenseRecords loads the (payer, amount) pairs of every expense in a
// group. Values are scanned untyped so the settlement calculator performs
// the numeric coercion and rejects malformed rows.
func GroupExpenseRecords(ctx context.Context, db *sql.DB, groupID int) ([]services.ExpenseRecord, error) {
	rows, err := db.QueryContext(ctx, "SELECT payer, amount FROM expenses WHERE group_id = ? ORDER BY id", groupID)
	if err != nil {
		return nil, fmt.Errorf("query expenses for group %d: %w", groupID, err)
	}
	defer rows.Close()

	records := []services.ExpenseRecord{}
	for rows.Next() {
		var rec services.ExpenseRecord
		if err := rows.Scan(&rec.Payer, &rec.Amount); err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return records, nil
}

// GroupSummary identifies a group that has at least one expense.
type GroupSummary struct {
	ID   int
	Name string
}

func GroupsWithExpenses(ctx context.Context, db *sql.DB) ([]GroupSummary, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT g.id, g.name FROM `groups` g WHERE EXISTS (SELECT 1 FROM expenses e WHERE e.group_id = g.id) ORDER BY g.id")
	if err != nil {
		return nil, fmt.Errorf("query groups with expenses: %w", err)
	}
	defer rows.Close()

	var groups []GroupSummary
	for rows.Next() {
		var g GroupSummary
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return groups, nil
}

// UserEmail returns the email of a user, or "" when no such user exists.
func UserEmail(ctx context.Context, db *sql.DB, userID int64) (string, error) {
	var email string
	err := db.QueryRowContext(ctx, "SELECT email FROM users WHERE id = ?", userID).Scan(&email)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query email of user %d: %w", userID, err)
	}
	return email, nil
}
