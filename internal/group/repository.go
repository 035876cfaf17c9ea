package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository handles group data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithAdmin inserts a new group and its creator as ADMIN member in one
// transaction.
func (r *Repository) CreateWithAdmin(ctx context.Context, creatorID int64, inviteCode string, req *CreateGroupRequest) (*Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO groups (name, description, invite_code, photo_url, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, invite_code, photo_url, created_by, is_active, created_at
	`

	g := &Group{}
	err = tx.QueryRowContext(ctx, query, req.Name, req.Description, inviteCode, req.PhotoURL, creatorID).Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.InviteCode,
		&g.PhotoURL,
		&g.CreatedBy,
		&g.IsActive,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	memberQuery := `INSERT INTO group_members (group_id, user_id, role) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, memberQuery, g.ID, creatorID, MemberRoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to add creator as admin: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit group creation: %w", err)
	}

	return g, nil
}

// GetByID retrieves an active group by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT id, name, description, invite_code, photo_url, created_by, is_active, created_at
		FROM groups
		WHERE id = $1 AND is_active = TRUE
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByInviteCode retrieves an active group by its invite code
func (r *Repository) GetByInviteCode(ctx context.Context, code string) (*Group, error) {
	query := `
		SELECT id, name, description, invite_code, photo_url, created_by, is_active, created_at
		FROM groups
		WHERE invite_code = $1 AND is_active = TRUE
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, code))
}

func (r *Repository) scanOne(row *sql.Row) (*Group, error) {
	g := &Group{}
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.InviteCode,
		&g.PhotoURL,
		&g.CreatedBy,
		&g.IsActive,
		&g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

// ListByUserID retrieves all active groups a user is a member of
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Group, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1 AND g.is_active = TRUE
	`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT g.id, g.name, g.description, g.invite_code, g.photo_url, g.created_by, g.is_active, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1 AND g.is_active = TRUE
		ORDER BY g.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g := &Group{}
		if err := rows.Scan(
			&g.ID,
			&g.Name,
			&g.Description,
			&g.InviteCode,
			&g.PhotoURL,
			&g.CreatedBy,
			&g.IsActive,
			&g.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}

	return groups, total, nil
}

// Update modifies an existing group
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateGroupRequest) (*Group, error) {
	query := `
		UPDATE groups
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    photo_url = COALESCE($4, photo_url)
		WHERE id = $1 AND is_active = TRUE
		RETURNING id, name, description, invite_code, photo_url, created_by, is_active, created_at
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, req.Name, req.Description, req.PhotoURL))
}

// UpdateInviteCode replaces the group's invite code
func (r *Repository) UpdateInviteCode(ctx context.Context, id int64, code string) (*Group, error) {
	query := `
		UPDATE groups
		SET invite_code = $2
		WHERE id = $1 AND is_active = TRUE
		RETURNING id, name, description, invite_code, photo_url, created_by, is_active, created_at
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, code))
}

// Deactivate soft-deletes a group
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE groups SET is_active = FALSE WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate group: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("group not found")
	}
	return nil
}

// AddMember adds a user to a group
func (r *Repository) AddMember(ctx context.Context, groupID, userID int64, role MemberRole) (*GroupMember, error) {
	query := `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, group_id, user_id, role, share_location, joined_at
	`

	m := &GroupMember{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID, role).Scan(
		&m.ID,
		&m.GroupID,
		&m.UserID,
		&m.Role,
		&m.ShareLocation,
		&m.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return m, nil
}

// GetMember retrieves one membership record, or nil if the user is not a member
func (r *Repository) GetMember(ctx context.Context, groupID, userID int64) (*GroupMember, error) {
	query := `
		SELECT id, group_id, user_id, role, share_location, joined_at
		FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`

	m := &GroupMember{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(
		&m.ID,
		&m.GroupID,
		&m.UserID,
		&m.Role,
		&m.ShareLocation,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return m, nil
}

// GetMembers retrieves all members of a group ordered by join time
func (r *Repository) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.role, gm.share_location, gm.joined_at, u.username, u.email
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*GroupMember
	for rows.Next() {
		m := &GroupMember{}
		if err := rows.Scan(
			&m.ID,
			&m.GroupID,
			&m.UserID,
			&m.Role,
			&m.ShareLocation,
			&m.JoinedAt,
			&m.Username,
			&m.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	return members, nil
}

// RemoveMember removes a user from a group
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("member not found")
	}
	return nil
}

// SetShareLocation toggles a member's location-sharing opt-in
func (r *Repository) SetShareLocation(ctx context.Context, groupID, userID int64, enabled bool) error {
	query := `UPDATE group_members SET share_location = $3 WHERE group_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, groupID, userID, enabled)
	if err != nil {
		return fmt.Errorf("failed to update location sharing: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("member not found")
	}
	return nil
}
