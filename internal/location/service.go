package location

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/roamly/tripsplit/internal/group"
	"github.com/roamly/tripsplit/internal/notification"
)

var ErrSharingDisabled = errors.New("location sharing is disabled for this member")

// Service handles location business logic
type Service struct {
	repo     *Repository
	groupSvc *group.Service
	notifier *notification.Service
	log      *logrus.Logger
}

// NewService creates a new location service
func NewService(repo *Repository, groupSvc *group.Service, notifier *notification.Service, log *logrus.Logger) *Service {
	return &Service{repo: repo, groupSvc: groupSvc, notifier: notifier, log: log}
}

// Ping records the caller's current position in a group. The caller must
// be a member with sharing enabled.
func (s *Service) Ping(ctx context.Context, groupID, userID int64, lat, lng float64) (*MemberLocation, error) {
	sharing, err := s.sharingEnabled(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !sharing {
		return nil, ErrSharingDisabled
	}
	return s.repo.UpsertLocation(ctx, groupID, userID, lat, lng)
}

// SetSharing toggles the caller's location sharing in a group. Turning it
// off also drops the stored position.
func (s *Service) SetSharing(ctx context.Context, groupID, userID int64, enabled bool) error {
	if err := s.groupSvc.SetShareLocation(ctx, groupID, userID, enabled); err != nil {
		return err
	}
	if !enabled {
		return s.repo.DeleteLocation(ctx, groupID, userID)
	}
	return nil
}

// GroupLocations retrieves the positions of sharing members in a group the
// caller belongs to.
func (s *Service) GroupLocations(ctx context.Context, groupID, callerID int64) ([]*MemberLocation, error) {
	if err := s.groupSvc.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListGroupLocations(ctx, groupID)
}

// RaiseAlert stores an alert and notifies every other group member
func (s *Service) RaiseAlert(ctx context.Context, groupID, userID int64, message string, lat, lng float64) (*Alert, error) {
	m, err := s.memberOrErr(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.CreateAlert(ctx, groupID, userID, message, lat, lng)
	if err != nil {
		return nil, err
	}
	a.Username = m.Username

	s.log.WithFields(logrus.Fields{
		"alert_id": a.ID,
		"group_id": groupID,
	}).Info("route alert raised")

	members, err := s.groupSvc.MemberIDs(ctx, groupID)
	if err != nil {
		s.log.WithError(err).Warn("failed to list members for alert fan-out")
		return a, nil
	}
	for _, memberID := range members {
		if memberID == userID {
			continue
		}
		if _, err := s.notifier.NotifyRouteAlert(ctx, memberID, a.Username, a.ID); err != nil {
			s.log.WithError(err).Warn("failed to notify member about alert")
		}
	}

	return a, nil
}

// ListAlerts retrieves a group's recent alerts
func (s *Service) ListAlerts(ctx context.Context, groupID, callerID int64, limit int) ([]*Alert, error) {
	if err := s.groupSvc.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.repo.ListAlerts(ctx, groupID, limit)
}

func (s *Service) sharingEnabled(ctx context.Context, groupID, userID int64) (bool, error) {
	m, err := s.memberOrErr(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	return m.ShareLocation, nil
}

func (s *Service) memberOrErr(ctx context.Context, groupID, userID int64) (*group.GroupMember, error) {
	members, err := s.groupSvc.GetMembers(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.UserID == userID {
			return m, nil
		}
	}
	return nil, group.ErrNotMember
}
