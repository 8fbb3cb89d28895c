package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	raw, exp, err := NewAccessToken("secret", 7, "desk@hotel.local", "receptionist", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := ParseAccessToken("secret", raw)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.AdminID)
	assert.Equal(t, "receptionist", claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	raw, _, err := NewAccessToken("secret", 1, "a", "owner", time.Hour)
	require.NoError(t, err)
	_, err = ParseAccessToken("other", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := NewAccessToken("secret", 1, "a", "owner", -time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken("secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
