// internal/auth/passcode_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasscodeHashAndVerify(t *testing.T) {
	hash, err := HashPasscode("parlor123", Params)
	require.NoError(t, err)

	ok, err := VerifyPasscode("parlor123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPasscode("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPasscode("parlor123", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestSeatTokenRoundTrip(t *testing.T) {
	Init()

	tok, err := CreateSeatToken("f3b9b2f0-0000-0000-0000-000000000001", "ABC123")
	require.NoError(t, err)

	pid, sid, err := AuthenticateSeatToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "f3b9b2f0-0000-0000-0000-000000000001", pid)
	assert.Equal(t, "ABC123", sid)

	_, _, err = AuthenticateSeatToken(tok + "x")
	assert.Error(t, err)
}
