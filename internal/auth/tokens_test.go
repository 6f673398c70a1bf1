package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService(GenerateKeyHex(), time.Hour)
	require.NoError(t, err)

	token, err := svc.MintAccessToken(&domain.User{ID: "user-a", DisplayName: "Ada"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-a", user.ID)
	assert.Equal(t, "Ada", user.DisplayName)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc, err := NewTokenService(GenerateKeyHex(), time.Hour)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken("v4.local.notatoken")
	assert.Error(t, err)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	issuer, err := NewTokenService(GenerateKeyHex(), time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService(GenerateKeyHex(), time.Hour)
	require.NoError(t, err)

	token, err := issuer.MintAccessToken(&domain.User{ID: "user-a"})
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc, err := NewTokenService(GenerateKeyHex(), -time.Minute)
	require.NoError(t, err)

	token, err := svc.MintAccessToken(&domain.User{ID: "user-a"})
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestNewTokenServiceRejectsBadKey(t *testing.T) {
	_, err := NewTokenService("deadbeef", time.Hour)
	assert.Error(t, err)
}
