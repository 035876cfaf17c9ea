package debt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/roamly/tripsplit/internal/expense"
	"github.com/roamly/tripsplit/internal/group"
	"github.com/roamly/tripsplit/internal/notification"
)

var (
	ErrDebtNotFound       = errors.New("debt not found")
	ErrNotDebtor          = errors.New("only the debtor can settle this debt")
	ErrAlreadySettled     = errors.New("debt is already settled")
	ErrSimplifyInProgress = errors.New("a simplification is already running for this group")
)

// simplifyLockTTL bounds how long a crashed simplification can block the
// next one.
const simplifyLockTTL = 30 * time.Second

// Service recomputes and settles group debts
type Service struct {
	repo       *Repository
	expenseSvc *expense.Service
	groupSvc   *group.Service
	notifier   *notification.Service
	locker     *redislock.Client
	log        *logrus.Logger
}

// NewService creates a new debt service
func NewService(repo *Repository, expenseSvc *expense.Service, groupSvc *group.Service, notifier *notification.Service, locker *redislock.Client, log *logrus.Logger) *Service {
	return &Service{
		repo:       repo,
		expenseSvc: expenseSvc,
		groupSvc:   groupSvc,
		notifier:   notifier,
		locker:     locker,
		log:        log,
	}
}

// SimplifyResult is what one simplification run produced
type SimplifyResult struct {
	Debts    []*Debt
	Leftover decimal.Decimal
}

// Simplify recomputes the group's debts from the full expense ledger and
// replaces all unsettled rows with a minimal transfer set. The run is
// serialized per group with a Redis lock; a second caller gets
// ErrSimplifyInProgress instead of waiting.
func (s *Service) Simplify(ctx context.Context, groupID, callerID int64) (*SimplifyResult, error) {
	if err := s.groupSvc.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("tripsplit:simplify:%d", groupID)
	lock, err := s.locker.Obtain(ctx, lockKey, simplifyLockTTL, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, ErrSimplifyInProgress
		}
		return nil, fmt.Errorf("failed to obtain simplify lock: %w", err)
	}
	defer lock.Release(context.WithoutCancel(ctx))

	runID := uuid.New().String()
	log := s.log.WithFields(logrus.Fields{
		"group_id": groupID,
		"run_id":   runID,
	})

	entries, err := s.expenseSvc.LedgerEntries(ctx, groupID)
	if err != nil {
		return nil, err
	}

	net := ComputeNetBalances(entries)
	transfers, leftover := BuildTransfers(net)

	if !leftover.IsZero() {
		// Balances over a consistent ledger sum to zero, so leftover
		// indicates corrupt split data. Store the matchable part and
		// surface the rest.
		log.WithField("leftover", leftover.String()).Warn("ledger did not balance to zero")
	}

	currency := LedgerCurrency(entries)
	if err := s.repo.ReplaceUnsettled(ctx, groupID, transfers, currency); err != nil {
		return nil, err
	}

	// Re-read through the users join so the response and the notifications
	// carry usernames.
	debts, err := s.repo.ListUnsettledByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"balances":  len(net),
		"transfers": len(debts),
	}).Info("debts simplified")

	for _, d := range debts {
		if _, err := s.notifier.NotifyDebtAssigned(ctx, d.FromUserID, d.ToUsername, d.Amount, d.Currency, d.ID); err != nil {
			log.WithError(err).Warn("failed to notify debtor")
		}
	}

	return &SimplifyResult{Debts: debts, Leftover: leftover}, nil
}

// ListGroupDebts retrieves the current simplified debts of a group the
// caller belongs to.
func (s *Service) ListGroupDebts(ctx context.Context, groupID, callerID int64) ([]*Debt, error) {
	if err := s.groupSvc.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListUnsettledByGroup(ctx, groupID)
}

// ListUserDebts retrieves the caller's unsettled debts across all groups
func (s *Service) ListUserDebts(ctx context.Context, userID int64) ([]*Debt, error) {
	return s.repo.ListByUser(ctx, userID)
}

// NetBalances previews each member's net position without touching stored
// debts.
func (s *Service) NetBalances(ctx context.Context, groupID, callerID int64) (map[int64]decimal.Decimal, string, error) {
	if err := s.groupSvc.RequireMember(ctx, groupID, callerID); err != nil {
		return nil, "", err
	}

	entries, err := s.expenseSvc.LedgerEntries(ctx, groupID)
	if err != nil {
		return nil, "", err
	}

	return ComputeNetBalances(entries), LedgerCurrency(entries), nil
}

// Settle marks a debt as paid. Only the debtor can settle, settlement is
// terminal, and the creditor is notified.
func (s *Service) Settle(ctx context.Context, debtID, callerID int64) (*Debt, error) {
	d, err := s.repo.GetByID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDebtNotFound
	}
	if d.FromUserID != callerID {
		return nil, ErrNotDebtor
	}
	if d.IsSettled {
		return nil, ErrAlreadySettled
	}

	settled, err := s.repo.Settle(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if settled == nil {
		// Lost a race with another settle call on the same row.
		return nil, ErrAlreadySettled
	}
	settled.FromUsername = d.FromUsername
	settled.ToUsername = d.ToUsername

	s.log.WithFields(logrus.Fields{
		"debt_id":  settled.ID,
		"group_id": settled.GroupID,
		"amount":   settled.Amount.StringFixed(2),
	}).Info("debt settled")

	if _, err := s.notifier.NotifyDebtSettled(ctx, settled.ToUserID, settled.FromUsername, settled.Amount, settled.Currency, settled.ID); err != nil {
		s.log.WithError(err).Warn("failed to notify creditor")
	}

	return settled, nil
}
