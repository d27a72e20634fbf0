package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	key, err := DeriveKey("super-secret", "credential")
	require.NoError(t, err)
	require.Len(t, key, 32)

	sealed, err := Encrypt([]byte("hello"), key)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "hello")

	opened, err := Decrypt(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(opened))

	sealed[len(sealed)-1] ^= 0xff
	_, err = Decrypt(sealed, key)
	assert.Error(t, err)
}

func TestDeriveKey(t *testing.T) {
	a, err := DeriveKey("secret", "credential")
	require.NoError(t, err)
	b, err := DeriveKey("secret", "state")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = DeriveKey("", "credential")
	assert.Error(t, err)
}

func TestGenerateState(t *testing.T) {
	s1, err := GenerateState(16)
	require.NoError(t, err)
	s2, err := GenerateState(16)
	require.NoError(t, err)

	assert.Len(t, s1, 22)
	assert.NotEqual(t, s1, s2)
	assert.NotContains(t, s1, "+")
	assert.NotContains(t, s1, "/")
}

func TestNormalizeText(t *testing.T) {
	decomposed := "Beyonce\u0301"
	assert.Equal(t, "Beyonc\u00e9", NormalizeText(decomposed))
}

func TestSessionJwt(t *testing.T) {
	raw, err := SignSessionJwt("sid-1", "jwt-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionJwt(raw, "jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)

	_, err = ParseSessionJwt(raw, "other-secret")
	assert.Error(t, err)

	expired, err := SignSessionJwt("sid-1", "jwt-secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseSessionJwt(expired, "jwt-secret")
	assert.Error(t, err)
}
