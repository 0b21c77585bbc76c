package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"materihub/internal/domain/models"
)

const tokenIssuer = "materihub"

// HMACTokens issues and verifies HS256 session tokens signed with a shared secret.
// It implements both TokenIssuer and TokenVerifier.
type HMACTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewHMACTokens creates a token issuer/verifier. ttl is the session lifetime.
func NewHMACTokens(secret string, ttl time.Duration, logger *slog.Logger) (*HMACTokens, error) {
	if secret == "" {
		return nil, errors.New("token secret cannot be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &HMACTokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}, nil
}

// Issue signs a session token for the user
func (t *HMACTokens) Issue(user *models.AuthUser) (string, error) {
	now := t.now()
	claims := &models.SessionClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a session token issued by Issue
func (t *HMACTokens) VerifyToken(tokenString string) (*models.SessionClaims, error) {
	return parseSession(tokenString, func(*jwt.Token) (any, error) { return t.secret, nil }, t.logger,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
}

// Close is a no-op; HMAC verification holds no resources
func (t *HMACTokens) Close() error {
	return nil
}
