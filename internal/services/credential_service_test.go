package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rings-s/anha/internal/common"
)

func TestHashPassword_VerifyRoundtrip(t *testing.T) {
	creds := NewCredentialService("test-secret", time.Hour)

	hash, err := creds.HashPassword("correct horse battery staple")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, creds.VerifyPassword("correct horse battery staple", hash))
	assert.False(t, creds.VerifyPassword("wrong password", hash))
}

func TestHashPassword_TruncatesAt72Bytes(t *testing.T) {
	creds := NewCredentialService("test-secret", time.Hour)

	long := strings.Repeat("a", 100)
	hash, err := creds.HashPassword(long)
	assert.NoError(t, err)

	// Everything past byte 72 is ignored, so a password differing only
	// beyond that point still verifies.
	assert.True(t, creds.VerifyPassword(strings.Repeat("a", 72), hash))
	assert.True(t, creds.VerifyPassword(strings.Repeat("a", 72)+"bbbb", hash))
	assert.False(t, creds.VerifyPassword(strings.Repeat("a", 71), hash))
}

func TestAccessToken_Roundtrip(t *testing.T) {
	creds := NewCredentialService("test-secret", time.Hour)

	token, err := creds.NewAccessToken("user@example.com")
	assert.NoError(t, err)

	subject, err := creds.ParseAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user@example.com", subject)
}

func TestAccessToken_Expired(t *testing.T) {
	creds := NewCredentialService("test-secret", -time.Minute)

	token, err := creds.NewAccessToken("user@example.com")
	assert.NoError(t, err)

	_, err = creds.ParseAccessToken(token)
	assert.ErrorIs(t, err, common.ErrInvalidCredential)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	issuer := NewCredentialService("secret-a", time.Hour)
	verifier := NewCredentialService("secret-b", time.Hour)

	token, err := issuer.NewAccessToken("user@example.com")
	assert.NoError(t, err)

	_, err = verifier.ParseAccessToken(token)
	assert.ErrorIs(t, err, common.ErrInvalidCredential)
}

func TestAccessToken_Garbage(t *testing.T) {
	creds := NewCredentialService("test-secret", time.Hour)

	_, err := creds.ParseAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, common.ErrInvalidCredential)
}

func TestResetToken_Roundtrip(t *testing.T) {
	creds := NewCredentialService("test-secret", time.Hour)

	token, tokenHash, err := creds.NewResetToken()
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, token, tokenHash)

	assert.Equal(t, tokenHash, creds.HashResetToken(token))
	assert.True(t, creds.VerifyResetToken(token, tokenHash))
	assert.False(t, creds.VerifyResetToken("some-other-token", tokenHash))
}

func TestResetToken_Unique(t *testing.T) {
	creds := NewCredentialService("test-secret", time.Hour)

	first, _, err := creds.NewResetToken()
	assert.NoError(t, err)
	second, _, err := creds.NewResetToken()
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}
