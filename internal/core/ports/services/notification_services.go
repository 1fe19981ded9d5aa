package services

import (
	"context"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
)

// NotificationSvcFacade defines reads on the notification feed.
type NotificationSvcFacade interface {
	// ListNotifications returns the recipient's feed, newest first.
	ListNotifications(ctx context.Context, recipient domain.UserID) ([]domain.Notification, error)

	// MarkRead flips the read flag; recipients other than the owner get apperrors.ErrNotFound.
	MarkRead(ctx context.Context, id string, reader domain.UserID) (*domain.Notification, error)
}
