package location

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles location data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new location repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// UpsertLocation records a member's latest position, replacing any earlier
// one for the same group.
func (r *Repository) UpsertLocation(ctx context.Context, groupID, userID int64, lat, lng float64) (*MemberLocation, error) {
	query := `
		INSERT INTO member_locations (group_id, user_id, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id, user_id)
		DO UPDATE SET latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, recorded_at = NOW()
		RETURNING id, group_id, user_id, latitude, longitude, recorded_at
	`

	loc := &MemberLocation{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID, lat, lng).Scan(
		&loc.ID,
		&loc.GroupID,
		&loc.UserID,
		&loc.Latitude,
		&loc.Longitude,
		&loc.RecordedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record location: %w", err)
	}

	return loc, nil
}

// DeleteLocation drops a member's stored position, used when they stop
// sharing.
func (r *Repository) DeleteLocation(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM member_locations WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}

// ListGroupLocations retrieves the positions of members who are currently
// sharing in a group.
func (r *Repository) ListGroupLocations(ctx context.Context, groupID int64) ([]*MemberLocation, error) {
	query := `
		SELECT ml.id, ml.group_id, ml.user_id, ml.latitude, ml.longitude, ml.recorded_at, u.username
		FROM member_locations ml
		JOIN group_members gm ON gm.group_id = ml.group_id AND gm.user_id = ml.user_id
		JOIN users u ON ml.user_id = u.id
		WHERE ml.group_id = $1 AND gm.share_location = TRUE
		ORDER BY ml.recorded_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []*MemberLocation
	for rows.Next() {
		loc := &MemberLocation{}
		if err := rows.Scan(
			&loc.ID,
			&loc.GroupID,
			&loc.UserID,
			&loc.Latitude,
			&loc.Longitude,
			&loc.RecordedAt,
			&loc.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}

	return locations, nil
}

// CreateAlert stores a new alert
func (r *Repository) CreateAlert(ctx context.Context, groupID, userID int64, message string, lat, lng float64) (*Alert, error) {
	query := `
		INSERT INTO location_alerts (group_id, user_id, message, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, group_id, user_id, message, latitude, longitude, created_at
	`

	a := &Alert{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID, message, lat, lng).Scan(
		&a.ID,
		&a.GroupID,
		&a.UserID,
		&a.Message,
		&a.Latitude,
		&a.Longitude,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	return a, nil
}

// ListAlerts retrieves a group's alerts, newest first
func (r *Repository) ListAlerts(ctx context.Context, groupID int64, limit int) ([]*Alert, error) {
	query := `
		SELECT a.id, a.group_id, a.user_id, a.message, a.latitude, a.longitude, a.created_at, u.username
		FROM location_alerts a
		JOIN users u ON a.user_id = u.id
		WHERE a.group_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*Alert
	for rows.Next() {
		a := &Alert{}
		if err := rows.Scan(
			&a.ID,
			&a.GroupID,
			&a.UserID,
			&a.Message,
			&a.Latitude,
			&a.Longitude,
			&a.CreatedAt,
			&a.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}

	return alerts, nil
}
