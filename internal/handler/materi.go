package handler

import (
	"log/slog"
	"net/http"

	"materihub/internal/domain/models"
	"materihub/internal/domain/services"
	"materihub/internal/httputil"
)

// MateriHandler handles materi HTTP requests
type MateriHandler struct {
	materiService services.MateriService
	logger        *slog.Logger
}

// NewMateriHandler creates a new materi handler
func NewMateriHandler(materiService services.MateriService, logger *slog.Logger) *MateriHandler {
	return &MateriHandler{
		materiService: materiService,
		logger:        logger,
	}
}

// ListMateri returns all materi newest first, or one author's with ?authorId=
// GET /api/materi
func (h *MateriHandler) ListMateri(w http.ResponseWriter, r *http.Request) {
	var (
		list []models.Materi
		err  error
	)
	if authorID := r.URL.Query().Get("authorId"); authorID != "" {
		list, err = h.materiService.ListMateriByAuthor(r.Context(), authorID)
	} else {
		list, err = h.materiService.ListMateri(r.Context())
	}
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

// CreateMateri publishes a materi authored by the caller
// POST /api/materi
func (h *MateriHandler) CreateMateri(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.CreateMateriRequest
	if !readBody(w, r, &req) {
		return
	}
	req.AuthorID = user.ID

	materi, err := h.materiService.CreateMateri(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, materi)
}

// GetMateri retrieves a materi by ID
// GET /api/materi/{id}
func (h *MateriHandler) GetMateri(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	materi, err := h.materiService.GetMateri(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, materi)
}

// UpdateMateri replaces a materi the caller authored
// PUT /api/materi/{id}
func (h *MateriHandler) UpdateMateri(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req services.UpdateMateriRequest
	if !readBody(w, r, &req) {
		return
	}

	materi, err := h.materiService.UpdateMateri(r.Context(), id, user.ID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, materi)
}

// DeleteMateri deletes a materi the caller authored
// DELETE /api/materi/{id}
func (h *MateriHandler) DeleteMateri(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.materiService.DeleteMateri(r.Context(), id, user.ID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetFolderTree returns the decoded folder tree of a folder materi
// GET /api/materi/{id}/tree
func (h *MateriHandler) GetFolderTree(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	view, err := h.materiService.GetFolderTree(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}
