package domain

import (
	"errors"
	"net/http"
)

// Sentinels for errors.Is. Handlers map these to HTTP statuses.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrConfiguration is fatal at startup and never produced per request
	ErrConfiguration = errors.New("configuration error")
)

// Remote store error kinds. Every RemoteError unwraps to exactly one of these.
var (
	ErrRemoteNotFound     = errors.New("remote item not found")
	ErrRemoteAccessDenied = errors.New("remote access denied")
	ErrRemoteProvider     = errors.New("remote provider error")
)

// ValidationError carries a user-facing message and matches ErrValidation
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string        { return e.Message }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError carries a user-facing message and matches ErrNotFound
type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string        { return e.Message }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError matches ErrConflict and names the kind of resource that clashed
type ConflictError struct {
	Message      string
	ResourceType string // user, materi
	ResourceID   string
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// RemoteError is a failure reported by, or while talking to, the remote file store
type RemoteError struct {
	Kind   error  // one of the ErrRemote* kinds
	ItemID string // item or folder the failing call was about
	Detail string // provider message, if any
}

// NewRemoteError builds a RemoteError; a nil kind means ErrRemoteProvider
func NewRemoteError(kind error, itemID, detail string) *RemoteError {
	if kind == nil {
		kind = ErrRemoteProvider
	}
	return &RemoteError{Kind: kind, ItemID: itemID, Detail: detail}
}

func (e *RemoteError) Error() string {
	msg := "Google Drive API error: " + e.Kind.Error()
	if e.ItemID != "" {
		msg += " (id " + e.ItemID + ")"
	}
	if e.Detail != "" {
		msg += ". Message: " + e.Detail
	}
	return msg
}

func (e *RemoteError) Unwrap() error { return e.Kind }

// StatusCode is 422 for folders the caller pointed at but the service account
// cannot read, and 502 for upstream failures.
func (e *RemoteError) StatusCode() int {
	if errors.Is(e.Kind, ErrRemoteNotFound) || errors.Is(e.Kind, ErrRemoteAccessDenied) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
