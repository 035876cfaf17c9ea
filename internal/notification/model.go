package notification

import "time"

// Notification is one entry in a user's in-app feed
type Notification struct {
	ID                int64     `json:"id"`
	RecipientID       int64     `json:"recipient_id"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"is_read"`
	RelatedEntityType *string   `json:"related_entity_type,omitempty"` // e.g., "EXPENSE", "DEBT", "GROUP", "ALERT"
	RelatedEntityID   *int64    `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeGroupInvite  NotificationType = "GROUP_INVITE"
	NotificationTypeExpenseAdded NotificationType = "EXPENSE_ADDED"
	NotificationTypeDebtAssigned NotificationType = "DEBT_ASSIGNED"
	NotificationTypeDebtSettled  NotificationType = "DEBT_SETTLED"
	NotificationTypeRouteAlert   NotificationType = "ROUTE_ALERT"
)
