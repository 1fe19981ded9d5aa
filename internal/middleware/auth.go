package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errNoAuthHeader  = errors.New("authorization header required")
	errAuthScheme    = errors.New("authorization header format must be Bearer {token}")
	errBadSubject    = errors.New("token subject is not a member id")
	errInvalidClaims = errors.New("invalid token claims")
)

// AuthMiddleware validates the HS256 bearer token on every request. The token subject
// becomes the acting member for every mutator the request reaches.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var userID domain.UserID
			if userID, err = memberFromToken(raw, jwtSecret); err == nil {
				ctx := WithUserID(c.Request.Context(), userID)
				ctx = WithLogger(ctx, logger.With(slog.String("user_id", string(userID))))
				c.Request = c.Request.WithContext(ctx)
				c.Next()
				return
			}
		}

		logger.Warn("Request rejected by auth", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authMessage(err)})
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errNoAuthHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" || strings.Contains(token, " ") {
		return "", errAuthScheme
	}
	return token, nil
}

// memberFromToken verifies raw and returns its subject as a member id.
func memberFromToken(raw, secret string) (domain.UserID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errInvalidClaims
	}
	userID := domain.UserID(claims.Subject)
	if err := domain.Personal(userID).Validate(); err != nil {
		return "", errBadSubject
	}
	return userID, nil
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, errNoAuthHeader):
		return "Authorization header required"
	case errors.Is(err, errAuthScheme):
		return "Authorization header format must be Bearer {token}"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "Token not valid yet"
	case errors.Is(err, errInvalidClaims), errors.Is(err, errBadSubject):
		return "Invalid token claims"
	default:
		return "Invalid token"
	}
}
