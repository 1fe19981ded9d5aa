package services

import (
	"context"
	"time"
)

// Dispatcher asks the external delivery service to fan out a stored notification.
type Dispatcher interface {
	Dispatch(ctx context.Context, notificationID string) error
}

// Connectivity is the binary online/offline signal the sync engine follows.
type Connectivity interface {
	Online() bool
	// Subscribe delivers every transition until ctx is done.
	Subscribe(ctx context.Context) <-chan bool
}

// Locker guards work across processes. Obtain returns apperrors.ErrConflict when the key is held.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}
