package expense

// CreateExpenseRequest represents the request to create an expense.
// Participants may be omitted for EQUAL splits; the expense is then split
// across all current group members.
type CreateExpenseRequest struct {
	GroupID      int64               `json:"group_id" validate:"required,gt=0"`
	TripID       *int64              `json:"trip_id,omitempty" validate:"omitempty,gt=0"`
	Description  string              `json:"description" validate:"required,min=1,max=255"`
	Amount       string              `json:"amount" validate:"required"`
	Currency     string              `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
	Category     string              `json:"category,omitempty" validate:"omitempty,oneof=FOOD TRANSPORT ACCOMMODATION ACTIVITY SHOPPING OTHER"`
	SplitType    string              `json:"split_type" validate:"required,oneof=EQUAL PERCENTAGE EXACT"`
	ReceiptURL   *string             `json:"receipt_url,omitempty" validate:"omitempty,url"`
	Notes        string              `json:"notes,omitempty" validate:"max=1000"`
	Date         string              `json:"expense_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Participants []*SplitParticipant `json:"participants,omitempty" validate:"omitempty,min=1,dive"`
}

// UpdateExpenseRequest represents the request to update an expense's
// descriptive fields. Amounts and splits are immutable; delete and recreate
// the expense to change them.
type UpdateExpenseRequest struct {
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=255"`
	Category    *string `json:"category,omitempty" validate:"omitempty,oneof=FOOD TRANSPORT ACCOMMODATION ACTIVITY SHOPPING OTHER"`
	ReceiptURL  *string `json:"receipt_url,omitempty" validate:"omitempty,url"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID            int64            `json:"id"`
	GroupID       int64            `json:"group_id"`
	TripID        *int64           `json:"trip_id,omitempty"`
	PayerID       int64            `json:"payer_id"`
	PayerUsername string           `json:"payer_username,omitempty"`
	Description   string           `json:"description"`
	Amount        string           `json:"amount"`
	Currency      string           `json:"currency"`
	Category      Category         `json:"category"`
	SplitType     string           `json:"split_type"`
	ReceiptURL    *string          `json:"receipt_url,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Date          string           `json:"expense_date"`
	CreatedAt     string           `json:"created_at"`
	Splits        []*SplitResponse `json:"splits,omitempty"`
}

// SplitResponse represents the response for a split
type SplitResponse struct {
	ID        int64  `json:"id"`
	ExpenseID int64  `json:"expense_id"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Amount    string `json:"amount"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		GroupID:       e.GroupID,
		TripID:        e.TripID,
		PayerID:       e.PayerID,
		PayerUsername: e.PayerUsername,
		Description:   e.Description,
		Amount:        e.Amount.StringFixed(2),
		Currency:      e.Currency,
		Category:      e.Category,
		SplitType:     string(e.SplitType),
		ReceiptURL:    e.ReceiptURL,
		Notes:         e.Notes,
		Date:          e.Date.Format("2006-01-02"),
		CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Split model to a SplitResponse DTO
func (s *Split) ToResponse() *SplitResponse {
	return &SplitResponse{
		ID:        s.ID,
		ExpenseID: s.ExpenseID,
		UserID:    s.UserID,
		Username:  s.Username,
		Amount:    s.Amount.StringFixed(2),
	}
}
