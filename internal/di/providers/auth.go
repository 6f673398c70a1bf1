package providers

import (
	"encoding/hex"

	"github.com/samber/do/v2"

	"github.com/beenthereapp/beenthere-server/internal/auth"
	"github.com/beenthereapp/beenthere-server/internal/config"
	"github.com/beenthereapp/beenthere-server/internal/logger"
)

// AuthKey wraps the shared token key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the token verification key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Store.BasePath)
	if err != nil {
		return nil, err
	}

	// Update config with the loaded key
	cfg.Auth.AccessTokenKey = key

	log.Info("Token key loaded",
		"access_token_ttl", cfg.Auth.AccessTokenTTL,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	keyHex := hex.EncodeToString([]byte(authKey))
	return auth.NewTokenService(keyHex, cfg.Auth.AccessTokenTTL)
}
