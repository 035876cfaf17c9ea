package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Service handles notification business logic
type Service struct {
	repo *Repository
}

// NewService creates a new notification service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new notification
func (s *Service) Create(ctx context.Context, recipientID int64, message string, entityType *string, entityID *int64) (*Notification, error) {
	return s.repo.Create(ctx, recipientID, message, entityType, entityID)
}

// GetByID retrieves a notification by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}

// ListByRecipientID retrieves all notifications for a user
func (s *Service) ListByRecipientID(ctx context.Context, recipientID int64, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification == nil {
		return ErrNotificationNotFound
	}
	if notification.RecipientID != userID {
		return ErrNotRecipient
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user
func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// Message templates, kept as plain functions so their wording is testable.

func groupInviteMessage(groupName string) string {
	return "You have been added to group: " + groupName
}

func expenseAddedMessage(payerName string, amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s added an expense of %s %s that includes you", payerName, currency, amount.StringFixed(2))
}

func debtAssignedMessage(creditorName string, amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("You owe %s %s %s after simplification", creditorName, currency, amount.StringFixed(2))
}

func debtSettledMessage(debtorName string, amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s settled %s %s with you", debtorName, currency, amount.StringFixed(2))
}

func routeAlertMessage(memberName string) string {
	return memberName + " reported a route deviation"
}

// Helper methods for creating specific notification types

// NotifyGroupInvite creates a notification for a group invitation
func (s *Service) NotifyGroupInvite(ctx context.Context, recipientID int64, groupName string, groupID int64) (*Notification, error) {
	entityType := "GROUP"
	return s.repo.Create(ctx, recipientID, groupInviteMessage(groupName), &entityType, &groupID)
}

// NotifyExpenseAdded creates a notification for a new expense
func (s *Service) NotifyExpenseAdded(ctx context.Context, recipientID int64, payerName string, amount decimal.Decimal, currency string, expenseID int64) (*Notification, error) {
	entityType := "EXPENSE"
	return s.repo.Create(ctx, recipientID, expenseAddedMessage(payerName, amount, currency), &entityType, &expenseID)
}

// NotifyDebtAssigned creates a notification when simplification assigns a debt
func (s *Service) NotifyDebtAssigned(ctx context.Context, recipientID int64, creditorName string, amount decimal.Decimal, currency string, debtID int64) (*Notification, error) {
	entityType := "DEBT"
	return s.repo.Create(ctx, recipientID, debtAssignedMessage(creditorName, amount, currency), &entityType, &debtID)
}

// NotifyDebtSettled creates a notification when a debtor settles a debt
func (s *Service) NotifyDebtSettled(ctx context.Context, recipientID int64, debtorName string, amount decimal.Decimal, currency string, debtID int64) (*Notification, error) {
	entityType := "DEBT"
	return s.repo.Create(ctx, recipientID, debtSettledMessage(debtorName, amount, currency), &entityType, &debtID)
}

// NotifyRouteAlert creates a notification for a route-deviation alert
func (s *Service) NotifyRouteAlert(ctx context.Context, recipientID int64, memberName string, alertID int64) (*Notification, error) {
	entityType := "ALERT"
	return s.repo.Create(ctx, recipientID, routeAlertMessage(memberName), &entityType, &alertID)
}
