package debt

// DebtResponse represents the response for a debt
type DebtResponse struct {
	ID           int64  `json:"id"`
	GroupID      int64  `json:"group_id"`
	FromUserID   int64  `json:"from_user_id"`
	FromUsername string `json:"from_username,omitempty"`
	ToUserID     int64  `json:"to_user_id"`
	ToUsername   string `json:"to_username,omitempty"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	IsSettled    bool   `json:"is_settled"`
	SettledAt    string `json:"settled_at,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// SimplifyResponse represents the outcome of a simplification run
type SimplifyResponse struct {
	Debts    []*DebtResponse `json:"debts"`
	Leftover string          `json:"leftover,omitempty"`
}

// BalanceResponse represents one member's net position
type BalanceResponse struct {
	UserID   int64  `json:"user_id"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// ToResponse converts a Debt model to a DebtResponse DTO
func (d *Debt) ToResponse() *DebtResponse {
	resp := &DebtResponse{
		ID:           d.ID,
		GroupID:      d.GroupID,
		FromUserID:   d.FromUserID,
		FromUsername: d.FromUsername,
		ToUserID:     d.ToUserID,
		ToUsername:   d.ToUsername,
		Amount:       d.Amount.StringFixed(2),
		Currency:     d.Currency,
		IsSettled:    d.IsSettled,
		CreatedAt:    d.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if d.SettledAt != nil {
		resp.SettledAt = d.SettledAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}
