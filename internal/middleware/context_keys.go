package middleware

import (
	"context"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey is the key under which the authenticated member is stored in the request context.
const userIDKey = contextKey("userID")

// WithUserID returns a copy of ctx carrying the acting member.
func WithUserID(ctx context.Context, userID domain.UserID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the authenticated member set by AuthMiddleware.
func GetUserIDFromContext(c *gin.Context) (domain.UserID, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(domain.UserID)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
