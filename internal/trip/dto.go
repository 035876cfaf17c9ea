package trip

// CreateTripRequest represents the request to create a trip
type CreateTripRequest struct {
	GroupID     int64  `json:"group_id" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Destination string `json:"destination" validate:"max=200"`
	StartDate   string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTripRequest represents the request to update a trip
type UpdateTripRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Destination *string `json:"destination,omitempty" validate:"omitempty,max=200"`
	StartDate   *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=PLANNED ONGOING COMPLETED"`
}

// TripResponse represents the response for a trip
type TripResponse struct {
	ID          int64      `json:"id"`
	GroupID     int64      `json:"group_id"`
	Name        string     `json:"name"`
	Destination string     `json:"destination,omitempty"`
	StartDate   string     `json:"start_date,omitempty"`
	EndDate     string     `json:"end_date,omitempty"`
	Status      TripStatus `json:"status"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   string     `json:"created_at"`
}

// ToResponse converts a Trip model to a TripResponse DTO
func (t *Trip) ToResponse() *TripResponse {
	resp := &TripResponse{
		ID:          t.ID,
		GroupID:     t.GroupID,
		Name:        t.Name,
		Destination: t.Destination,
		Status:      t.Status,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if t.StartDate != nil {
		resp.StartDate = t.StartDate.Format("2006-01-02")
	}
	if t.EndDate != nil {
		resp.EndDate = t.EndDate.Format("2006-01-02")
	}
	return resp
}
