package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"materihub/internal/auth"
	"materihub/internal/domain/models"
	"materihub/internal/httputil"
)

// SessionCookie carries the session token for browser clients
const SessionCookie = "session-token"

// AuthMiddleware attaches the caller to the request context when it presents a
// valid session token, from the Authorization header or the session cookie.
// Requests without a valid token pass through anonymously; handlers that need
// a caller reject them.
func AuthMiddleware(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("session token rejected",
					"error", err,
					"path", r.URL.Path,
				)
				next.ServeHTTP(w, r)
				return
			}

			r = httputil.WithUser(r, &models.AuthUser{
				ID:       claims.GetUserID(),
				Username: claims.Username,
			})
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken prefers the Authorization header over the cookie
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
