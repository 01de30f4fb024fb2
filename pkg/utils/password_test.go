package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	for _, pw := range []string{"secret", "", "p@ss wörd", "0123456789012345678901234567890123456789012345678901234567890123456789ab"} {
		h, err := HashPassword(pw)
		require.NoError(t, err)
		require.NotEqual(t, pw, h)
		require.True(t, CheckPassword(pw, h), "password %q", pw)
	}
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.True(t, CheckPassword("same", a))
	require.True(t, CheckPassword("same", b))
}

func TestCheckPasswordRejectsOtherPassword(t *testing.T) {
	h, err := HashPassword("correct horse")
	require.NoError(t, err)

	require.False(t, CheckPassword("correct hors", h))
	require.False(t, CheckPassword("correct horse ", h))
	require.False(t, CheckPassword("", h))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	require.False(t, CheckPassword("pw", ""))
	require.False(t, CheckPassword("pw", "not-a-bcrypt-hash"))
	require.False(t, CheckPassword("pw", "$2a$10$short"))
}

func TestHashPasswordTooLong(t *testing.T) {
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err := HashPassword(string(long))
	require.Error(t, err)
}
