package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := NewSessionToken(42, "a@test.com", secret, time.Hour)
	require.NoError(t, err)

	memberID, err := ParseSessionToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, int64(42), memberID)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := NewSessionToken(42, "a@test.com", secret, time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "other-secret")
	assert.Error(t, err)
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := NewSessionToken(42, "a@test.com", secret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, secret)
	assert.Error(t, err)
}

func TestEmailTokenRoundTrip(t *testing.T) {
	token, err := NewEmailToken(7, PurposeEmailVerification, secret, time.Minute)
	require.NoError(t, err)

	memberID, err := ParseEmailToken(token, PurposeEmailVerification, secret)
	require.NoError(t, err)
	assert.Equal(t, int64(7), memberID)
}

func TestEmailTokenPurposeMismatch(t *testing.T) {
	token, err := NewEmailToken(7, PurposeEmailVerification, secret, time.Minute)
	require.NoError(t, err)

	_, err = ParseEmailToken(token, PurposePasswordReset, secret)
	assert.Error(t, err)
}

func TestEmailTokenNotASessionToken(t *testing.T) {
	token, err := NewEmailToken(7, PurposePasswordReset, secret, time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, secret)
	assert.Error(t, err)
}

func TestGarbageToken(t *testing.T) {
	_, err := ParseSessionToken("not-a-token", secret)
	assert.Error(t, err)

	_, err = ParseEmailToken("not-a-token", PurposeEmailVerification, secret)
	assert.Error(t, err)
}
