package auth

import "materihub/internal/domain/models"

// TokenVerifier defines the interface for session token verification.
// This abstraction allows for different verification implementations
// while keeping the middleware agnostic to the verification details.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.SessionClaims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}

// TokenIssuer creates session tokens for authenticated users
type TokenIssuer interface {
	Issue(user *models.AuthUser) (string, error)
}

// PasswordManager hashes and compares passwords
type PasswordManager interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) error
}
