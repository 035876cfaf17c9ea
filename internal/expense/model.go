package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roamly/tripsplit/internal/expense/split"
)

// Category classifies an expense for filtering and trip summaries
type Category string

const (
	CategoryFood          Category = "FOOD"
	CategoryTransport     Category = "TRANSPORT"
	CategoryAccommodation Category = "ACCOMMODATION"
	CategoryActivity      Category = "ACTIVITY"
	CategoryShopping      Category = "SHOPPING"
	CategoryOther         Category = "OTHER"
)

// Valid checks if the category is one of the known values
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryAccommodation,
		CategoryActivity, CategoryShopping, CategoryOther:
		return true
	}
	return false
}

// Expense represents a cost paid by one group member on behalf of several
type Expense struct {
	ID          int64           `json:"id"`
	GroupID     int64           `json:"group_id"`
	TripID      *int64          `json:"trip_id,omitempty"`
	PayerID     int64           `json:"payer_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    Category        `json:"category"`
	SplitType   split.SplitType `json:"split_type"`
	ReceiptURL  *string         `json:"receipt_url,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Date        time.Time       `json:"expense_date"`
	CreatedAt   time.Time       `json:"created_at"`

	// Populated via JOIN
	PayerUsername string `json:"payer_username,omitempty"`
}

// Split represents one participant's share of an expense
type Split struct {
	ID        int64           `json:"id"`
	ExpenseID int64           `json:"expense_id"`
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// ExpenseWithSplits combines an expense with its calculated splits
type ExpenseWithSplits struct {
	Expense *Expense
	Splits  []*Split
}

// SplitParticipant is used when creating an expense with splits
type SplitParticipant struct {
	UserID     int64            `json:"user_id" validate:"required,gt=0"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
}

// ToSplitInput converts to the split package's input type
func (p *SplitParticipant) ToSplitInput() split.SplitInput {
	return split.SplitInput{
		UserID:     p.UserID,
		Percentage: p.Percentage,
		Amount:     p.Amount,
	}
}
