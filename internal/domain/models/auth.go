package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims represents the JWT claims carried by a session token.
// The subject claim holds the user ID.
type SessionClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, exp, iat, jti)
	Username             string `json:"username"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *SessionClaims) GetUserID() string {
	return c.Subject
}

// AuthUser is the authenticated caller of a request
type AuthUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
