package handler

import (
	"log/slog"
	"net/http"
	"time"

	"materihub/internal/domain/services"
	"materihub/internal/httputil"
	"materihub/internal/middleware"
)

// CookieOptions controls the session cookie written on login
type CookieOptions struct {
	TTL    time.Duration
	Secure bool // HTTPS-only; off for local development
}

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	userService services.UserService
	cookie      CookieOptions
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService services.UserService, cookie CookieOptions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		cookie:      cookie,
		logger:      logger,
	}
}

// signupResponse is the body of a successful signup
type signupResponse struct {
	Message string      `json:"message"`
	User    interface{} `json:"user"`
}

// Signup registers a new account
// POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupRequest
	if !readBody(w, r, &req) {
		return
	}

	user, err := h.userService.Signup(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, signupResponse{
		Message: "User created successfully",
		User:    user,
	})
}

// Login checks credentials, returns the session token and sets the session cookie
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if !readBody(w, r, &req) {
		return
	}

	session, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(session.Token, h.cookie.TTL))
	httputil.RespondJSON(w, http.StatusOK, session)
}

// Logout clears the session cookie. Tokens are stateless, so nothing else changes.
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(ttl.Seconds())
	}
	return cookie
}
