package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrUnexpectedResponse    = errors.New("unexpected response format")
	ErrFieldsLocked          = errors.New("period fields are locked")
	ErrNoPendingConfirmation = errors.New("no pending date confirmation")
	ErrUnknownContainer      = errors.New("unknown container")
	ErrUnknownPipeline       = errors.New("unknown pipeline")
	ErrNotAuthenticated      = errors.New("not authenticated")
)

// ValidationError is raised before any network call; Message is shown as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	switch {
	case len(e.Errors) > 0:
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, strings.Join(e.Errors, "; "))
	case e.Message != "":
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

// Reason is the backend-reported cause, or "" when the backend gave none.
func (e *APIError) Reason() string {
	if len(e.Errors) > 0 {
		return strings.Join(e.Errors, "\n")
	}
	return e.Message
}
