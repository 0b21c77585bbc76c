package httputil

import (
	"context"
	"net/http"

	"materihub/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	userKey contextKey = "user"
)

// WithUser adds the authenticated caller to the request context
func WithUser(r *http.Request, user *models.AuthUser) *http.Request {
	ctx := context.WithValue(r.Context(), userKey, user)
	return r.WithContext(ctx)
}

// GetUser retrieves the authenticated caller from context
func GetUser(r *http.Request) (*models.AuthUser, bool) {
	user, ok := r.Context().Value(userKey).(*models.AuthUser)
	return user, ok && user != nil
}

// GetUserID returns the caller's ID, or empty string for anonymous requests
func GetUserID(r *http.Request) string {
	if user, ok := GetUser(r); ok {
		return user.ID
	}
	return ""
}
