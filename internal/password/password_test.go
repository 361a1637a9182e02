package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_SamePasswordYieldsDifferentPairs(t *testing.T) {
	t.Parallel()

	hash1, salt1, err := Hash("Aa1!aaaa")
	require.NoError(t, err)
	hash2, salt2, err := Hash("Aa1!aaaa")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)

	for _, pair := range [][2]string{{hash1, salt1}, {hash2, salt2}} {
		ok, err := Verify("Aa1!aaaa", pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, salt, err := Hash("Aa1!aaaa")
	require.NoError(t, err)

	ok, err := Verify("Aa1!aaab", hash, salt)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Verify("", hash, salt)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_MalformedStoredValues(t *testing.T) {
	t.Parallel()

	hash, salt, err := Hash("Aa1!aaaa")
	require.NoError(t, err)

	_, err = Verify("Aa1!aaaa", hash, "%%%not-base64%%%")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCredentialFormat)

	_, err = Verify("Aa1!aaaa", "%%%not-base64%%%", salt)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCredentialFormat)
}
