package auth

import (
	"errors"
	"fmt"

	"materihub/internal/domain"
	"materihub/internal/domain/models"
)

// ChainVerifier accepts a token when any of its verifiers does.
// Used to honour locally issued sessions next to an external identity provider.
type ChainVerifier struct {
	verifiers []TokenVerifier
}

// NewChainVerifier creates a verifier that tries each verifier in order
func NewChainVerifier(verifiers ...TokenVerifier) *ChainVerifier {
	return &ChainVerifier{verifiers: verifiers}
}

// VerifyToken returns the claims of the first verifier that accepts the token
func (c *ChainVerifier) VerifyToken(tokenString string) (*models.SessionClaims, error) {
	var errs []error
	for _, v := range c.verifiers {
		claims, err := v.VerifyToken(tokenString)
		if err == nil {
			return claims, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, errors.Join(errs...))
}

// Close closes every verifier and reports all failures
func (c *ChainVerifier) Close() error {
	var errs []error
	for _, v := range c.verifiers {
		if err := v.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
