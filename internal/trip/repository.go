package trip

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository handles trip data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new trip repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new trip
func (r *Repository) Create(ctx context.Context, groupID, createdBy int64, name, destination string, startDate, endDate *time.Time) (*Trip, error) {
	query := `
		INSERT INTO trips (group_id, name, destination, start_date, end_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, group_id, name, destination, start_date, end_date, status, created_by, created_at
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, groupID, name, destination, startDate, endDate, createdBy))
}

// GetByID retrieves a trip by its ID, or nil if none exists
func (r *Repository) GetByID(ctx context.Context, id int64) (*Trip, error) {
	query := `
		SELECT id, group_id, name, destination, start_date, end_date, status, created_by, created_at
		FROM trips
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *Repository) scanOne(row *sql.Row) (*Trip, error) {
	t := &Trip{}
	err := row.Scan(
		&t.ID,
		&t.GroupID,
		&t.Name,
		&t.Destination,
		&t.StartDate,
		&t.EndDate,
		&t.Status,
		&t.CreatedBy,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return t, nil
}

// ListByGroupID retrieves all trips in a group, newest first
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64) ([]*Trip, error) {
	query := `
		SELECT id, group_id, name, destination, start_date, end_date, status, created_by, created_at
		FROM trips
		WHERE group_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		t := &Trip{}
		if err := rows.Scan(
			&t.ID,
			&t.GroupID,
			&t.Name,
			&t.Destination,
			&t.StartDate,
			&t.EndDate,
			&t.Status,
			&t.CreatedBy,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}

	return trips, nil
}

// Update modifies an existing trip
func (r *Repository) Update(ctx context.Context, id int64, name, destination *string, startDate, endDate *time.Time, status *TripStatus) (*Trip, error) {
	query := `
		UPDATE trips
		SET name = COALESCE($2, name),
		    destination = COALESCE($3, destination),
		    start_date = COALESCE($4, start_date),
		    end_date = COALESCE($5, end_date),
		    status = COALESCE($6, status)
		WHERE id = $1
		RETURNING id, group_id, name, destination, start_date, end_date, status, created_by, created_at
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, name, destination, startDate, endDate, status))
}

// Delete removes a trip. Expenses keep their rows; the foreign key sets
// their trip reference to NULL.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("trip not found")
	}
	return nil
}
