package handler

import "net/http"

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Health *HealthHandler
	Auth   *AuthHandler
	User   *UserHandler
	Materi *MateriHandler
	Drive  *DriveHandler
}

// RegisterRoutes mounts the API on mux (Go 1.22+ enhanced patterns)
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	// Health check
	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	// Auth routes
	mux.HandleFunc("POST /api/auth/signup", h.Auth.Signup)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)

	// Account routes
	mux.HandleFunc("GET /api/users/me", h.User.GetProfile)
	mux.HandleFunc("PUT /api/users/me/password", h.User.ChangePassword)

	// Materi routes
	mux.HandleFunc("GET /api/materi", h.Materi.ListMateri)
	mux.HandleFunc("POST /api/materi", h.Materi.CreateMateri)
	mux.HandleFunc("GET /api/materi/{id}", h.Materi.GetMateri)
	mux.HandleFunc("PUT /api/materi/{id}", h.Materi.UpdateMateri)
	mux.HandleFunc("DELETE /api/materi/{id}", h.Materi.DeleteMateri)
	mux.HandleFunc("GET /api/materi/{id}/tree", h.Materi.GetFolderTree)

	// Drive preview
	mux.HandleFunc("GET /api/drive/folder", h.Drive.GetFolder)
}
