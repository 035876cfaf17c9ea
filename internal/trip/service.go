package trip

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roamly/tripsplit/internal/group"
)

var (
	ErrTripNotFound  = errors.New("trip not found")
	ErrInvalidDates  = errors.New("end date cannot be before start date")
	ErrInvalidStatus = errors.New("invalid trip status")
)

// Service handles trip business logic
type Service struct {
	repo     *Repository
	groupSvc *group.Service
	log      *logrus.Logger
}

// NewService creates a new trip service
func NewService(repo *Repository, groupSvc *group.Service, log *logrus.Logger) *Service {
	return &Service{repo: repo, groupSvc: groupSvc, log: log}
}

// CreateTrip creates a trip in a group the caller belongs to
func (s *Service) CreateTrip(ctx context.Context, userID int64, req *CreateTripRequest) (*Trip, error) {
	if err := s.groupSvc.RequireMember(ctx, req.GroupID, userID); err != nil {
		return nil, err
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, ErrInvalidDates
	}

	t, err := s.repo.Create(ctx, req.GroupID, userID, req.Name, req.Destination, startDate, endDate)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"trip_id":  t.ID,
		"group_id": t.GroupID,
	}).Info("trip created")

	return t, nil
}

// GetTrip retrieves a trip. The caller must be a member of the trip's group.
func (s *Service) GetTrip(ctx context.Context, tripID, userID int64) (*Trip, error) {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTripNotFound
	}
	if err := s.groupSvc.RequireMember(ctx, t.GroupID, userID); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTrips retrieves all trips in a group the caller belongs to
func (s *Service) ListTrips(ctx context.Context, groupID, userID int64) ([]*Trip, error) {
	if err := s.groupSvc.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByGroupID(ctx, groupID)
}

// UpdateTrip modifies a trip. The caller must be a member of the trip's group.
func (s *Service) UpdateTrip(ctx context.Context, tripID, userID int64, req *UpdateTripRequest) (*Trip, error) {
	existing, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrTripNotFound
	}
	if err := s.groupSvc.RequireMember(ctx, existing.GroupID, userID); err != nil {
		return nil, err
	}

	var startDate, endDate *time.Time
	if req.StartDate != nil {
		if startDate, err = parseDate(*req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if endDate, err = parseDate(*req.EndDate); err != nil {
			return nil, err
		}
	}

	var status *TripStatus
	if req.Status != nil {
		st := TripStatus(*req.Status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		status = &st
	}

	t, err := s.repo.Update(ctx, tripID, req.Name, req.Destination, startDate, endDate, status)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTripNotFound
	}
	return t, nil
}

// DeleteTrip removes a trip. Only its creator may delete it.
func (s *Service) DeleteTrip(ctx context.Context, tripID, userID int64) error {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrTripNotFound
	}
	if t.CreatedBy != userID {
		return group.ErrNotAdmin
	}
	return s.repo.Delete(ctx, tripID)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, ErrInvalidDates
	}
	return &d, nil
}
