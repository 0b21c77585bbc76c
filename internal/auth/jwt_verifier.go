package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"materihub/internal/domain/models"
)

// asymmetricAlgs are the only algorithms accepted from the identity provider,
// so a leaked HMAC secret cannot mint tokens that pass this verifier.
var asymmetricAlgs = []string{"RS256", "ES256"}

// JWKSVerifier accepts tokens signed by an external identity provider
type JWKSVerifier struct {
	keys   keyfunc.Keyfunc
	stop   context.CancelFunc
	logger *slog.Logger
}

// NewJWKSVerifier fetches the key set at jwksURL and keeps it refreshed until Close
func NewJWKSVerifier(jwksURL string, logger *slog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("jwks url is empty")
	}

	ctx, stop := context.WithCancel(context.Background())
	keys, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		stop()
		return nil, fmt.Errorf("load jwks from %s: %w", jwksURL, err)
	}

	logger = logger.With("verifier", "jwks")
	logger.Info("external identity provider enabled", "jwks_url", jwksURL)
	return &JWKSVerifier{keys: keys, stop: stop, logger: logger}, nil
}

func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.SessionClaims, error) {
	return parseSession(tokenString, v.keys.Keyfunc, v.logger, jwt.WithValidMethods(asymmetricAlgs))
}

// Close stops the background key refresh
func (v *JWKSVerifier) Close() error {
	v.stop()
	return nil
}
