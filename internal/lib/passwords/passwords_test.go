package passwords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndMatch(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)
	require.NotEmpty(t, salt)

	hash := Hash("Passw0rd!", salt)

	assert.True(t, Matches("Passw0rd!", salt, hash))
	assert.False(t, Matches("Passw0rd?", salt, hash))
	assert.False(t, Matches("", salt, hash))
}

func TestSaltsAreUnique(t *testing.T) {
	a, err := GenerateSalt()
	require.NoError(t, err)

	b, err := GenerateSalt()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSamePasswordDifferentSalt(t *testing.T) {
	saltA, err := GenerateSalt()
	require.NoError(t, err)

	saltB, err := GenerateSalt()
	require.NoError(t, err)

	assert.NotEqual(t, Hash("Passw0rd!", saltA), Hash("Passw0rd!", saltB))
}
