// Package auth verifies access tokens minted by the external identity
// provider. Credentials and sessions live with that provider; this server
// only decrypts tokens with the shared key and trusts their claims.
package auth

import (
	"encoding/hex"
	"encoding/json/v2"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/errors"
	"github.com/beenthereapp/beenthere-server/internal/id"
)

const (
	tokenIssuer   = "beenthere-identity"
	tokenAudience = "beenthere-server"

	// PASETO v4 symmetric key requirements.
	keyBytesSize = 32 // 256 bits
	keyHexSize   = 64 // 32 bytes as hex string
)

// AccessClaims are the claims this server reads out of a verified token.
type AccessClaims struct {
	Subject     string `json:"sub"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// TokenService verifies PASETO v4.local access tokens.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	tokenTTL     time.Duration
}

// NewTokenService creates a token service from the shared key in hex.
func NewTokenService(keyHex string, tokenTTL time.Duration) (*TokenService, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for PASETO key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey: key,
		tokenTTL:     tokenTTL,
	}, nil
}

// VerifyAccessToken decrypts and validates a token, returning the user it
// identifies.
func (s *TokenService) VerifyAccessToken(tokenString string) (*domain.User, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, errors.Unauthorized("invalid token").WithCause(err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, errors.Unauthorized("invalid token claims").WithCause(err)
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return nil, errors.Unauthorized("token carries no user identity")
	}

	return &domain.User{
		ID:          userID,
		DisplayName: claims.DisplayName,
	}, nil
}

// MintAccessToken issues a token the way the identity provider would.
// Used by tests and local development; production tokens come from the
// identity provider itself.
func (s *TokenService) MintAccessToken(user *domain.User) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(user.ID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.tokenTTL))
	token.SetJti(id.MustGenerate("token"))

	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("user_id", user.ID)
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("display_name", user.DisplayName)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// GenerateKeyHex produces a fresh random symmetric key in hex form.
// Useful for first-run setup when no shared key is configured yet.
func GenerateKeyHex() string {
	key := paseto.NewV4SymmetricKey()
	return key.ExportHex()
}
