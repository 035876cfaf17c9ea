package debt

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository handles debt data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new debt repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListUnsettledByGroup retrieves the current simplified debts of a group
func (r *Repository) ListUnsettledByGroup(ctx context.Context, groupID int64) ([]*Debt, error) {
	query := `
		SELECT d.id, d.group_id, d.from_user_id, d.to_user_id, d.amount, d.currency,
		       d.is_settled, d.settled_at, d.created_at, fu.username, tu.username
		FROM debts d
		JOIN users fu ON d.from_user_id = fu.id
		JOIN users tu ON d.to_user_id = tu.id
		WHERE d.group_id = $1 AND d.is_settled = FALSE
		ORDER BY d.amount DESC, d.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	return scanDebts(rows)
}

// ListByUser retrieves a user's unsettled debts across all groups, both
// directions.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*Debt, error) {
	query := `
		SELECT d.id, d.group_id, d.from_user_id, d.to_user_id, d.amount, d.currency,
		       d.is_settled, d.settled_at, d.created_at, fu.username, tu.username
		FROM debts d
		JOIN users fu ON d.from_user_id = fu.id
		JOIN users tu ON d.to_user_id = tu.id
		WHERE (d.from_user_id = $1 OR d.to_user_id = $1) AND d.is_settled = FALSE
		ORDER BY d.created_at DESC, d.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	return scanDebts(rows)
}

func scanDebts(rows *sql.Rows) ([]*Debt, error) {
	var debts []*Debt
	for rows.Next() {
		d := &Debt{}
		if err := rows.Scan(
			&d.ID,
			&d.GroupID,
			&d.FromUserID,
			&d.ToUserID,
			&d.Amount,
			&d.Currency,
			&d.IsSettled,
			&d.SettledAt,
			&d.CreatedAt,
			&d.FromUsername,
			&d.ToUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	return debts, nil
}

// GetByID retrieves a debt by its ID, or nil if none exists
func (r *Repository) GetByID(ctx context.Context, id int64) (*Debt, error) {
	query := `
		SELECT d.id, d.group_id, d.from_user_id, d.to_user_id, d.amount, d.currency,
		       d.is_settled, d.settled_at, d.created_at, fu.username, tu.username
		FROM debts d
		JOIN users fu ON d.from_user_id = fu.id
		JOIN users tu ON d.to_user_id = tu.id
		WHERE d.id = $1
	`

	d := &Debt{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID,
		&d.GroupID,
		&d.FromUserID,
		&d.ToUserID,
		&d.Amount,
		&d.Currency,
		&d.IsSettled,
		&d.SettledAt,
		&d.CreatedAt,
		&d.FromUsername,
		&d.ToUsername,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}

	return d, nil
}

// ReplaceUnsettled swaps the group's unsettled debts for the given
// transfers in one transaction. Settled rows stay untouched as history.
// Callers read the result back through ListUnsettledByGroup, which joins
// usernames.
func (r *Repository) ReplaceUnsettled(ctx context.Context, groupID int64, transfers []Transfer, currency string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM debts WHERE group_id = $1 AND is_settled = FALSE`, groupID); err != nil {
		return fmt.Errorf("failed to clear unsettled debts: %w", err)
	}

	insertQuery := `
		INSERT INTO debts (group_id, from_user_id, to_user_id, amount, currency)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, t := range transfers {
		if _, err := tx.ExecContext(ctx, insertQuery, groupID, t.FromUserID, t.ToUserID, t.Amount, currency); err != nil {
			return fmt.Errorf("failed to insert debt: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit debt replacement: %w", err)
	}

	return nil
}

// Settle marks a debt as paid. Settled rows are kept as history.
func (r *Repository) Settle(ctx context.Context, id int64) (*Debt, error) {
	query := `
		UPDATE debts
		SET is_settled = TRUE, settled_at = NOW()
		WHERE id = $1 AND is_settled = FALSE
		RETURNING id, group_id, from_user_id, to_user_id, amount, currency, is_settled, settled_at, created_at
	`

	d := &Debt{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID,
		&d.GroupID,
		&d.FromUserID,
		&d.ToUserID,
		&d.Amount,
		&d.Currency,
		&d.IsSettled,
		&d.SettledAt,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to settle debt: %w", err)
	}

	return d, nil
}
