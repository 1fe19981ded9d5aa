package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/casa_ledger/internal/core/domain"
)

const testSecret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		want   string
		err    error
	}{
		"missing":      {header: "", err: errNoAuthHeader},
		"wrong scheme": {header: "Basic abc", err: errAuthScheme},
		"no token":     {header: "Bearer", err: errAuthScheme},
		"extra parts":  {header: "Bearer a b", err: errAuthScheme},
		"lower case":   {header: "bearer abc", want: "abc"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := bearerToken(tc.header)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMemberFromToken(t *testing.T) {
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	t.Run("valid", func(t *testing.T) {
		raw := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "ana", ExpiresAt: future})
		got, err := memberFromToken(raw, testSecret)
		require.NoError(t, err)
		assert.Equal(t, domain.UserID("ana"), got)
	})

	t.Run("expired", func(t *testing.T) {
		raw := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
			Subject: "ana", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		})
		_, err := memberFromToken(raw, testSecret)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
		assert.Equal(t, "Token has expired", authMessage(err))
	})

	t.Run("wrong secret", func(t *testing.T) {
		raw := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "ana", ExpiresAt: future})
		_, err := memberFromToken(raw, testSecret)
		assert.Error(t, err)
		assert.Equal(t, "Invalid token", authMessage(err))
	})

	t.Run("other hmac size", func(t *testing.T) {
		raw := sign(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.RegisteredClaims{Subject: "ana", ExpiresAt: future})
		_, err := memberFromToken(raw, testSecret)
		assert.Error(t, err)
	})

	t.Run("subject with separator", func(t *testing.T) {
		raw := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "ana/luis", ExpiresAt: future})
		_, err := memberFromToken(raw, testSecret)
		assert.ErrorIs(t, err, errBadSubject)
		assert.Equal(t, "Invalid token claims", authMessage(err))
	})

	t.Run("no subject", func(t *testing.T) {
		raw := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{ExpiresAt: future})
		_, err := memberFromToken(raw, testSecret)
		assert.ErrorIs(t, err, errInvalidClaims)
	})
}
