package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"materihub/internal/domain"
	"materihub/internal/domain/models"
	"materihub/internal/httputil"
)

// sentinelStatus is checked in order; the first matching sentinel decides the status
var sentinelStatus = []struct {
	err    error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
}

// handleError writes the problem response for err.
// Typed errors carry extra members; unknown errors are logged and hidden.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			httputil.RespondError(w, s.status, err.Error())
			return
		}
	}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]interface{}{
			"resourceType": conflictErr.ResourceType,
		})
		return
	}
	if errors.Is(err, domain.ErrConflict) {
		httputil.RespondError(w, http.StatusConflict, err.Error())
		return
	}

	var remoteErr *domain.RemoteError
	if errors.As(err, &remoteErr) {
		status := remoteErr.StatusCode()
		if status >= http.StatusInternalServerError {
			logger.Error("remote store failure", "error", err, "item_id", remoteErr.ItemID)
		}
		var extras map[string]interface{}
		if remoteErr.ItemID != "" {
			extras = map[string]interface{}{"itemId": remoteErr.ItemID}
		}
		httputil.RespondErrorWithExtras(w, status, remoteErr.Error(), extras)
		return
	}

	logger.Error("unhandled error", "error", err)
	httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
}

// readBody decodes the JSON request body, writing 413 or 400 on failure
func readBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	err := httputil.ParseJSON(w, r, dest)
	switch {
	case err == nil:
		return true
	case errors.Is(err, httputil.ErrBodyTooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
	}
	return false
}

// requireUser returns the authenticated caller or writes a 401
func requireUser(w http.ResponseWriter, r *http.Request) (*models.AuthUser, bool) {
	if user, ok := httputil.GetUser(r); ok {
		return user, true
	}
	httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
	return nil, false
}

// pathID reads the {id} path value, writing a 400 when it is empty
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if id := r.PathValue("id"); id != "" {
		return id, true
	}
	httputil.RespondError(w, http.StatusBadRequest, "id is required")
	return "", false
}
