package handler

import (
	"log/slog"
	"net/http"

	"materihub/internal/domain/services"
	"materihub/internal/httputil"
)

// DriveHandler previews Google Drive folders before they are published
type DriveHandler struct {
	materiService services.MateriService
	logger        *slog.Logger
}

// NewDriveHandler creates a new drive handler
func NewDriveHandler(materiService services.MateriService, logger *slog.Logger) *DriveHandler {
	return &DriveHandler{
		materiService: materiService,
		logger:        logger,
	}
}

// GetFolder ingests a folder and returns root, flat list, tree and PDF files.
// folderId accepts a bare ID or a folder URL.
// GET /api/drive/folder?folderId=
func (h *DriveHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	folderID := r.URL.Query().Get("folderId")
	if folderID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Folder ID is required")
		return
	}

	result, err := h.materiService.PreviewFolder(r.Context(), folderID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
