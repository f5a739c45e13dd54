package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hashed)

	require.True(t, CheckPassword(hashed, "secret1"))
	require.False(t, CheckPassword(hashed, "secret2"))
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashPassword("secret1")
	require.NoError(t, err)
	second, err := HashPassword("secret1")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, CheckPassword(first, "secret1"))
	require.True(t, CheckPassword(second, "secret1"))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	require.False(t, CheckPassword("not-a-bcrypt-hash", "secret1"))
	require.False(t, CheckPassword("", "secret1"))
}
