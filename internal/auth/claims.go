package auth

import (
	"log/slog"

	"github.com/golang-jwt/jwt/v5"

	"materihub/internal/domain"
	"materihub/internal/domain/models"
)

// parseSession parses and validates a signed token into session claims.
// Every failure collapses to domain.ErrUnauthorized; the cause is logged at debug.
func parseSession(raw string, keys jwt.Keyfunc, logger *slog.Logger, opts ...jwt.ParserOption) (*models.SessionClaims, error) {
	opts = append(opts, jwt.WithExpirationRequired())

	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, keys, opts...)
	if err != nil {
		logger.Debug("session token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}
	if !token.Valid || claims.Subject == "" {
		logger.Debug("session token without subject")
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
