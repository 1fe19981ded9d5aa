package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/SscSPs/casa_ledger/internal/middleware"
)

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

// SystemActor is recorded as the actor of work nobody triggered by hand.
const SystemActor domain.UserID = "system"

// BaseService provides common functionality for all services
type BaseService struct {
	Clock Clock
}

// Now returns the service clock's time, or time.Now when none is set.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}
