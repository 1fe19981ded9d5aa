package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationType tells the UI how to render a notification.
type NotificationType string

const (
	NotifyDeposit                NotificationType = "deposit"
	NotifyTransfer               NotificationType = "transfer"
	NotifyRequestCreated         NotificationType = "request_created"
	NotifyRequestApproved        NotificationType = "request_approved"
	NotifyRequestRejected        NotificationType = "request_rejected"
	NotifyRecurringExecuted      NotificationType = "recurring_executed"
	NotifyRecurringFailedSummary NotificationType = "recurring_failed_summary"
	NotifyRecurringUpcoming      NotificationType = "recurring_upcoming"
)

// RecipientAdmins is the broadcast target for every administrator.
const RecipientAdmins UserID = "admins"

// NotificationsPrefix is the store prefix of notifications.
const NotificationsPrefix = "notifications"

// Notification is append-only; only Read ever changes.
type Notification struct {
	ID        string            `json:"id"`
	Type      NotificationType  `json:"type"`
	Recipient UserID            `json:"recipient"`
	Amount    *decimal.Decimal  `json:"amount,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
	Message   string            `json:"message"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NotificationPath is the store location of a notification.
func NotificationPath(id string) string { return NotificationsPrefix + "/" + id }
