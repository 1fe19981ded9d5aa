package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/casa_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// DefaultDispatchTimeout bounds one call to the notification dispatcher.
const DefaultDispatchTimeout = 8 * time.Second

// notifier hands durably written notifications to the external dispatcher.
type notifier struct {
	BaseService
	dispatcher portssvc.Dispatcher
	timeout    time.Duration
}

func newNotifier(dispatcher portssvc.Dispatcher, timeout time.Duration) *notifier {
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	return &notifier{dispatcher: dispatcher, timeout: timeout}
}

// dispatch is best-effort: failures are logged and never undo the committed write.
func (n *notifier) dispatch(ctx context.Context, notes []domain.Notification) {
	if n == nil || n.dispatcher == nil {
		return
	}
	for _, note := range notes {
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		err := n.dispatcher.Dispatch(dctx, note.ID)
		cancel()
		if err != nil {
			n.GetLogger(ctx).Warn("Notification dispatch failed",
				slog.String("notification_id", note.ID),
				slog.String("error", err.Error()))
		}
	}
}

// newNotification builds a record whose id is derived from cause, so a replay of the same
// event rewrites the same node instead of adding a duplicate.
func newNotification(typ domain.NotificationType, recipient domain.UserID, cause string, amount *decimal.Decimal, message string, now time.Time, kv map[string]string) domain.Notification {
	return domain.Notification{
		ID:        domain.NotificationID(cause, recipient),
		Type:      typ,
		Recipient: recipient,
		Amount:    amount,
		Context:   kv,
		Message:   message,
		CreatedAt: now,
	}
}

func amountPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// notificationService serves the notification feed.
type notificationService struct {
	BaseService
	store portsrepo.Store
}

// NewNotificationService creates a new NotificationSvcFacade.
func NewNotificationService(store portsrepo.Store, clock Clock) portssvc.NotificationSvcFacade {
	return &notificationService{BaseService: BaseService{Clock: clock}, store: store}
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

func (s *notificationService) ListNotifications(ctx context.Context, recipient domain.UserID) ([]domain.Notification, error) {
	nodes, err := s.store.List(ctx, domain.NotificationsPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Notification, 0)
	for key, raw := range nodes {
		var n domain.Notification
		if err := decodeNode(raw, &n); err != nil {
			s.LogError(ctx, err, "Skipping undecodable notification", slog.String("notification_id", key))
			continue
		}
		if n.Recipient == recipient {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// MarkRead lets the recipient, or any member for the shared admin feed, flip the read flag.
func (s *notificationService) MarkRead(ctx context.Context, id string, reader domain.UserID) (*domain.Notification, error) {
	if err := validateID("notification id", id); err != nil {
		return nil, err
	}
	path := domain.NotificationPath(id)
	raw, err := s.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	var n domain.Notification
	if err := decodeNode(raw, &n); err != nil {
		return nil, err
	}
	if n.Recipient != reader && n.Recipient != domain.RecipientAdmins {
		return nil, fmt.Errorf("%w: notification %s", apperrors.ErrNotFound, id)
	}
	if n.Read {
		return &n, nil
	}

	n.Read = true
	batch := portsrepo.NewBatch().Put(path, n).ExpectValue(path, raw)
	if err := s.store.Commit(ctx, batch); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Only the read flag ever changes, so a lost race means someone else marked it.
			return &n, nil
		}
		return nil, err
	}
	return &n, nil
}
