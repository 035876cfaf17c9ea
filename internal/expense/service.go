package expense

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/roamly/tripsplit/internal/expense/split"
	"github.com/roamly/tripsplit/internal/group"
	"github.com/roamly/tripsplit/internal/notification"
)

var (
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrInvalidDate      = errors.New("invalid expense date")
	ErrInvalidCategory  = errors.New("invalid expense category")
	ErrSplitSumMismatch = errors.New("split amounts do not sum to the expense total")
	ErrNotPayer         = errors.New("only the payer can modify this expense")
)

// Service handles expense business logic
type Service struct {
	repo         *Repository
	splitFactory *split.Factory
	groupSvc     *group.Service
	notifier     *notification.Service
	log          *logrus.Logger
}

// NewService creates a new expense service with dependencies injected
func NewService(repo *Repository, splitFactory *split.Factory, groupSvc *group.Service, notifier *notification.Service, log *logrus.Logger) *Service {
	return &Service{
		repo:         repo,
		splitFactory: splitFactory,
		groupSvc:     groupSvc,
		notifier:     notifier,
		log:          log,
	}
}

// CreateExpense validates the request, calculates splits with the selected
// strategy and stores the expense atomically. The payer and every
// participant must be members of the group. When no participants are given
// for an EQUAL split, the expense is divided across all group members,
// payer included.
func (s *Service) CreateExpense(ctx context.Context, payerID int64, req *CreateExpenseRequest) (*ExpenseWithSplits, error) {
	if err := s.groupSvc.RequireMember(ctx, req.GroupID, payerID); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	amount = amount.Round(2)

	strategy, err := s.splitFactory.CreateFromString(req.SplitType)
	if err != nil {
		return nil, err
	}

	participants := req.Participants
	if len(participants) == 0 {
		if strategy.Type() != split.SplitTypeEqual {
			return nil, split.ErrNoParticipants
		}
		memberIDs, err := s.groupSvc.MemberIDs(ctx, req.GroupID)
		if err != nil {
			return nil, err
		}
		for _, id := range memberIDs {
			participants = append(participants, &SplitParticipant{UserID: id})
		}
	}

	inputs := make([]split.SplitInput, len(participants))
	for i, p := range participants {
		if err := s.groupSvc.RequireMember(ctx, req.GroupID, p.UserID); err != nil {
			return nil, err
		}
		inputs[i] = p.ToSplitInput()
	}

	if err := strategy.Validate(amount, inputs); err != nil {
		return nil, err
	}

	outputs, err := strategy.Calculate(amount, inputs)
	if err != nil {
		return nil, err
	}

	// EXACT splits only quantize; the total is checked here.
	if strategy.Type() == split.SplitTypeExact {
		sum := decimal.Zero
		for _, out := range outputs {
			sum = sum.Add(out.Amount)
		}
		if !sum.Equal(amount) {
			return nil, ErrSplitSumMismatch
		}
	}

	expenseDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		expenseDate, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	category := Category(req.Category)
	if req.Category == "" {
		category = CategoryOther
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	e := &Expense{
		GroupID:     req.GroupID,
		TripID:      req.TripID,
		Description: req.Description,
		Amount:      amount,
		Currency:    currency,
		Category:    category,
		SplitType:   strategy.Type(),
		ReceiptURL:  req.ReceiptURL,
		Notes:       req.Notes,
		Date:        expenseDate,
	}

	result, err := s.repo.CreateExpenseWithSplits(ctx, payerID, e, outputs)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"expense_id": result.Expense.ID,
		"group_id":   result.Expense.GroupID,
		"amount":     result.Expense.Amount.StringFixed(2),
		"split_type": result.Expense.SplitType,
	}).Info("expense created")

	for _, sp := range result.Splits {
		if sp.UserID == payerID {
			continue
		}
		if _, err := s.notifier.NotifyExpenseAdded(ctx, sp.UserID, result.Expense.PayerUsername, sp.Amount, result.Expense.Currency, result.Expense.ID); err != nil {
			s.log.WithError(err).Warn("failed to notify participant about new expense")
		}
	}

	return result, nil
}

// GetExpense retrieves an expense with its splits. The caller must be a
// member of the expense's group.
func (s *Service) GetExpense(ctx context.Context, id, userID int64) (*ExpenseWithSplits, error) {
	e, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	if err := s.groupSvc.RequireMember(ctx, e.GroupID, userID); err != nil {
		return nil, err
	}

	splits, err := s.repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithSplits{Expense: e, Splits: splits}, nil
}

// ListExpenses retrieves expenses for a group the caller belongs to
func (s *Service) ListExpenses(ctx context.Context, groupID, userID int64, filter ExpenseFilter, page, perPage int) ([]*Expense, int, error) {
	if err := s.groupSvc.RequireMember(ctx, groupID, userID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage
	return s.repo.ListExpensesByGroupID(ctx, groupID, filter, perPage, offset)
}

// LedgerEntries returns every split in a group joined with its expense,
// newest expense first. The debt ledger is recomputed from this.
func (s *Service) LedgerEntries(ctx context.Context, groupID int64) ([]*LedgerEntry, error) {
	return s.repo.ListLedgerEntries(ctx, groupID)
}

// UpdateExpense modifies an expense's descriptive fields. Only the payer
// may update, and amounts stay immutable.
func (s *Service) UpdateExpense(ctx context.Context, id, userID int64, req *UpdateExpenseRequest) (*Expense, error) {
	existing, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrExpenseNotFound
	}
	if existing.PayerID != userID {
		return nil, ErrNotPayer
	}

	e, err := s.repo.UpdateExpense(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}
	return e, nil
}

// DeleteExpense removes an expense and its splits. Only the payer may
// delete; balances change on the next simplification.
func (s *Service) DeleteExpense(ctx context.Context, id, userID int64) error {
	e, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrExpenseNotFound
	}
	if e.PayerID != userID {
		return ErrNotPayer
	}

	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"expense_id": id,
		"group_id":   e.GroupID,
	}).Info("expense deleted")

	return nil
}
