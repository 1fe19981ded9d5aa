package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/SscSPs/casa_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, apperrors.ErrDuplicate) {
		return http.StatusConflict
	}
	switch apperrors.Classify(err) {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindInsufficientFunds, apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindTransport:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err at a level matching its class and writes the JSON error body.
// Internal failures are reported with fallback instead of the raw error text.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := statusFor(err)
	kind := apperrors.Classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()), slog.String("kind", string(kind)))
	} else {
		logger.Warn(fallback, slog.String("error", err.Error()), slog.String("kind", string(kind)))
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = fallback
	}
	c.JSON(status, gin.H{"error": msg, "kind": kind})
}

// badRequest answers a binding or parameter failure.
func badRequest(c *gin.Context, logger *slog.Logger, what string, err error) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}

// actorOrAbort returns the authenticated member or writes 401.
func actorOrAbort(c *gin.Context, logger *slog.Logger) (domain.UserID, bool) {
	actor, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return actor, true
}

// parseAccountRef parses a path or query account reference as a validation failure on error.
func parseAccountRef(raw string) (domain.AccountRef, error) {
	ref, err := domain.ParseAccountRef(raw)
	if err != nil {
		return domain.AccountRef{}, apperrors.Validationf("%v", err)
	}
	return ref, nil
}
