package location

import "time"

// MemberLocation is a member's last reported position within a group.
// Only members who opted into sharing have a row.
type MemberLocation struct {
	ID         int64     `json:"id"`
	GroupID    int64     `json:"group_id"`
	UserID     int64     `json:"user_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// Alert is a group-wide notice raised by a member, such as a road closure
// at a point on the shared route.
type Alert struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}
