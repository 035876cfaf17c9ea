package debt

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt represents one simplified obligation between two group members.
// Rows are produced by simplification and retired by settlement.
type Debt struct {
	ID         int64           `json:"id"`
	GroupID    int64           `json:"group_id"`
	FromUserID int64           `json:"from_user_id"`
	ToUserID   int64           `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	IsSettled  bool            `json:"is_settled"`
	SettledAt  *time.Time      `json:"settled_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`

	// Populated via JOIN
	FromUsername string `json:"from_username,omitempty"`
	ToUsername   string `json:"to_username,omitempty"`
}

// Transfer is one payment produced by the simplifier, before it is stored
// as a Debt row.
type Transfer struct {
	FromUserID int64
	ToUserID   int64
	Amount     decimal.Decimal
}
