package trip

import "time"

// TripStatus represents the lifecycle stage of a trip
type TripStatus string

const (
	TripStatusPlanned   TripStatus = "PLANNED"
	TripStatusOngoing   TripStatus = "ONGOING"
	TripStatusCompleted TripStatus = "COMPLETED"
)

// Valid checks if the trip status is one of the known values
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusPlanned, TripStatusOngoing, TripStatusCompleted:
		return true
	}
	return false
}

// Trip represents a planned journey within a group. Expenses can be tagged
// with a trip so costs are reviewable per journey.
type Trip struct {
	ID          int64      `json:"id"`
	GroupID     int64      `json:"group_id"`
	Name        string     `json:"name"`
	Destination string     `json:"destination"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Status      TripStatus `json:"status"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}
