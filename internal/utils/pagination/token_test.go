package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	ts := time.Date(2024, 4, 30, 10, 15, 0, 123, time.UTC)

	token := EncodeToken(ts, "settlement-r1")
	gotTS, gotID, err := DecodeToken(token)

	require.NoError(t, err)
	assert.True(t, ts.Equal(gotTS))
	assert.Equal(t, "settlement-r1", gotID)
}

func TestDecodeTokenRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"!!!", rawToken("nope"), rawToken("2024-01-01T00:00:00Z|")} {
		_, _, err := DecodeToken(bad)
		assert.Error(t, err, bad)
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, ClampLimit(0, 20, 100))
	assert.Equal(t, 100, ClampLimit(500, 20, 100))
	assert.Equal(t, 7, ClampLimit(7, 20, 100))
}

func rawToken(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
