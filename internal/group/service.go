package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrInvalidInviteCode   = errors.New("invalid invite code")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrNotMember           = errors.New("user is not a member of this group")
	ErrNotAdmin            = errors.New("only group admins can perform this action")
	ErrCannotRemoveAdmin   = errors.New("group creator cannot be removed")
)

// inviteCodeAttempts bounds retries when a generated code collides with an
// existing one. Collisions are vanishingly rare with an 8-char code.
const inviteCodeAttempts = 5

// Service handles group business logic
type Service struct {
	repo *Repository
	log  *logrus.Logger
}

// NewService creates a new group service
func NewService(repo *Repository, log *logrus.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CreateGroup creates a new group with the caller as its admin
func (s *Service) CreateGroup(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := GenerateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate invite code: %w", err)
		}

		g, err := s.repo.CreateWithAdmin(ctx, creatorID, code, req)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, err
		}

		s.log.WithFields(logrus.Fields{
			"group_id":   g.ID,
			"created_by": creatorID,
		}).Info("group created")

		return g, nil
	}

	return nil, fmt.Errorf("failed to generate a unique invite code")
}

// GetGroup retrieves a group with its members. The caller must be a member.
func (s *Service) GetGroup(ctx context.Context, groupID, callerID int64) (*Group, []*GroupMember, error) {
	if err := s.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, nil, err
	}

	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, ErrGroupNotFound
	}

	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	return g, members, nil
}

// ListGroups retrieves the caller's groups with pagination
func (s *Service) ListGroups(ctx context.Context, userID int64, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// UpdateGroup modifies a group. The caller must be an admin.
func (s *Service) UpdateGroup(ctx context.Context, groupID, callerID int64, req *UpdateGroupRequest) (*Group, error) {
	if err := s.requireAdmin(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	g, err := s.repo.Update(ctx, groupID, req)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	return g, nil
}

// DeleteGroup soft-deletes a group. The caller must be an admin.
func (s *Service) DeleteGroup(ctx context.Context, groupID, callerID int64) error {
	if err := s.requireAdmin(ctx, groupID, callerID); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, groupID)
}

// JoinByCode adds the caller to the group matching the invite code
func (s *Service) JoinByCode(ctx context.Context, userID int64, code string) (*Group, error) {
	g, err := s.repo.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrInvalidInviteCode
	}

	existing, err := s.repo.GetMember(ctx, g.ID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	if _, err := s.repo.AddMember(ctx, g.ID, userID, MemberRoleMember); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrMemberAlreadyExists
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"group_id": g.ID,
		"user_id":  userID,
	}).Info("member joined group")

	return g, nil
}

// GetMembers retrieves the members of a group. The caller must be a member.
func (s *Service) GetMembers(ctx context.Context, groupID, callerID int64) ([]*GroupMember, error) {
	if err := s.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	return s.repo.GetMembers(ctx, groupID)
}

// RemoveMember removes a user from a group. Admins can remove anyone except
// the creator; members can only remove themselves.
func (s *Service) RemoveMember(ctx context.Context, groupID, callerID, targetID int64) error {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrGroupNotFound
	}
	if targetID == g.CreatedBy {
		return ErrCannotRemoveAdmin
	}

	if callerID != targetID {
		if err := s.requireAdmin(ctx, groupID, callerID); err != nil {
			return err
		}
	}

	target, err := s.repo.GetMember(ctx, groupID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrMemberNotFound
	}

	return s.repo.RemoveMember(ctx, groupID, targetID)
}

// RegenerateInviteCode replaces the group's invite code. The caller must be
// an admin. The old code stops working immediately.
func (s *Service) RegenerateInviteCode(ctx context.Context, groupID, callerID int64) (*Group, error) {
	if err := s.requireAdmin(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := GenerateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate invite code: %w", err)
		}

		g, err := s.repo.UpdateInviteCode(ctx, groupID, code)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, err
		}
		if g == nil {
			return nil, ErrGroupNotFound
		}
		return g, nil
	}

	return nil, fmt.Errorf("failed to generate a unique invite code")
}

// SetShareLocation toggles the caller's own location-sharing flag
func (s *Service) SetShareLocation(ctx context.Context, groupID, userID int64, enabled bool) error {
	if err := s.RequireMember(ctx, groupID, userID); err != nil {
		return err
	}
	return s.repo.SetShareLocation(ctx, groupID, userID, enabled)
}

// RequireMember returns ErrNotMember unless the user belongs to the group.
// Other feature services use this to enforce group scoping.
func (s *Service) RequireMember(ctx context.Context, groupID, userID int64) error {
	m, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotMember
	}
	return nil
}

// IsMember reports whether the user belongs to the group
func (s *Service) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	m, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// MemberIDs returns the user IDs of all members of a group
func (s *Service) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}

func (s *Service) requireAdmin(ctx context.Context, groupID, userID int64) error {
	m, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotMember
	}
	if m.Role != MemberRoleAdmin {
		return ErrNotAdmin
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
