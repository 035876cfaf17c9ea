package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roamly/tripsplit/internal/expense/split"
)

// Repository handles expense and split data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const expenseColumns = `e.id, e.group_id, e.trip_id, e.payer_id, e.description, e.amount, e.currency, e.category, e.split_type, e.receipt_url, e.notes, e.expense_date, e.created_at`

// CreateExpenseWithSplits inserts an expense and all of its splits in one
// transaction. Either everything lands or nothing does.
func (r *Repository) CreateExpenseWithSplits(ctx context.Context, payerID int64, e *Expense, outputs []split.SplitOutput) (*ExpenseWithSplits, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (group_id, trip_id, payer_id, description, amount, currency, category, split_type, receipt_url, notes, expense_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, group_id, trip_id, payer_id, description, amount, currency, category, split_type, receipt_url, notes, expense_date, created_at
	`

	created := &Expense{}
	err = tx.QueryRowContext(ctx, query,
		e.GroupID,
		e.TripID,
		payerID,
		e.Description,
		e.Amount,
		e.Currency,
		e.Category,
		e.SplitType,
		e.ReceiptURL,
		e.Notes,
		e.Date,
	).Scan(
		&created.ID,
		&created.GroupID,
		&created.TripID,
		&created.PayerID,
		&created.Description,
		&created.Amount,
		&created.Currency,
		&created.Category,
		&created.SplitType,
		&created.ReceiptURL,
		&created.Notes,
		&created.Date,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT username FROM users WHERE id = $1`, payerID).Scan(&created.PayerUsername); err != nil {
		return nil, fmt.Errorf("failed to load payer username: %w", err)
	}

	splitQuery := `
		INSERT INTO expense_splits (expense_id, user_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, expense_id, user_id, amount, created_at
	`

	splits := make([]*Split, 0, len(outputs))
	for _, out := range outputs {
		sp := &Split{}
		err := tx.QueryRowContext(ctx, splitQuery, created.ID, out.UserID, out.Amount).Scan(
			&sp.ID,
			&sp.ExpenseID,
			&sp.UserID,
			&sp.Amount,
			&sp.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create split: %w", err)
		}
		splits = append(splits, sp)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense creation: %w", err)
	}

	return &ExpenseWithSplits{Expense: created, Splits: splits}, nil
}

// GetExpenseByID retrieves an expense by its ID, or nil if none exists
func (r *Repository) GetExpenseByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT ` + expenseColumns + `, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.id = $1
	`

	e := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID,
		&e.GroupID,
		&e.TripID,
		&e.PayerID,
		&e.Description,
		&e.Amount,
		&e.Currency,
		&e.Category,
		&e.SplitType,
		&e.ReceiptURL,
		&e.Notes,
		&e.Date,
		&e.CreatedAt,
		&e.PayerUsername,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// GetSplitsByExpenseID retrieves all splits for an expense
func (r *Repository) GetSplitsByExpenseID(ctx context.Context, expenseID int64) ([]*Split, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.amount, s.created_at, u.username
		FROM expense_splits s
		JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = $1
		ORDER BY s.id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []*Split
	for rows.Next() {
		sp := &Split{}
		if err := rows.Scan(
			&sp.ID,
			&sp.ExpenseID,
			&sp.UserID,
			&sp.Amount,
			&sp.CreatedAt,
			&sp.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, sp)
	}

	return splits, nil
}

// ExpenseFilter narrows a group expense listing
type ExpenseFilter struct {
	TripID   *int64
	Category *Category
}

// ListExpensesByGroupID retrieves expenses for a group with optional filters
// and pagination, newest expense date first.
func (r *Repository) ListExpensesByGroupID(ctx context.Context, groupID int64, filter ExpenseFilter, limit, offset int) ([]*Expense, int, error) {
	where := `WHERE e.group_id = $1`
	args := []interface{}{groupID}

	if filter.TripID != nil {
		args = append(args, *filter.TripID)
		where += fmt.Sprintf(" AND e.trip_id = $%d", len(args))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		where += fmt.Sprintf(" AND e.category = $%d", len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM expenses e ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT `+expenseColumns+`, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		%s
		ORDER BY e.expense_date DESC, e.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e := &Expense{}
		if err := rows.Scan(
			&e.ID,
			&e.GroupID,
			&e.TripID,
			&e.PayerID,
			&e.Description,
			&e.Amount,
			&e.Currency,
			&e.Category,
			&e.SplitType,
			&e.ReceiptURL,
			&e.Notes,
			&e.Date,
			&e.CreatedAt,
			&e.PayerUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	return expenses, total, nil
}

// LedgerEntry is one split row joined with its expense's payer and metadata,
// the unit the debt ledger is computed from.
type LedgerEntry struct {
	ExpenseID   int64
	PayerID     int64
	SplitUserID int64
	SplitAmount decimal.Decimal
	Amount      decimal.Decimal
	Currency    string
	Date        time.Time
	CreatedAt   time.Time
}

// ListLedgerEntries retrieves every split in a group joined with its
// expense, ordered newest expense first.
func (r *Repository) ListLedgerEntries(ctx context.Context, groupID int64) ([]*LedgerEntry, error) {
	query := `
		SELECT e.id, e.payer_id, s.user_id, s.amount, e.amount, e.currency, e.expense_date, e.created_at
		FROM expense_splits s
		JOIN expenses e ON s.expense_id = e.id
		WHERE e.group_id = $1
		ORDER BY e.expense_date DESC, e.created_at DESC, s.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*LedgerEntry
	for rows.Next() {
		le := &LedgerEntry{}
		if err := rows.Scan(
			&le.ExpenseID,
			&le.PayerID,
			&le.SplitUserID,
			&le.SplitAmount,
			&le.Amount,
			&le.Currency,
			&le.Date,
			&le.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, le)
	}

	return entries, nil
}

// UpdateExpense modifies an expense's descriptive fields
func (r *Repository) UpdateExpense(ctx context.Context, id int64, req *UpdateExpenseRequest) (*Expense, error) {
	query := `
		UPDATE expenses
		SET description = COALESCE($2, description),
		    category = COALESCE($3, category),
		    receipt_url = COALESCE($4, receipt_url),
		    notes = COALESCE($5, notes)
		WHERE id = $1
		RETURNING id, group_id, trip_id, payer_id, description, amount, currency, category, split_type, receipt_url, notes, expense_date, created_at
	`

	e := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id, req.Description, req.Category, req.ReceiptURL, req.Notes).Scan(
		&e.ID,
		&e.GroupID,
		&e.TripID,
		&e.PayerID,
		&e.Description,
		&e.Amount,
		&e.Currency,
		&e.Category,
		&e.SplitType,
		&e.ReceiptURL,
		&e.Notes,
		&e.Date,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return e, nil
}

// DeleteExpense removes an expense. Splits go with it via ON DELETE CASCADE.
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("expense not found")
	}
	return nil
}
