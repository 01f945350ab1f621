package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized matches, via errors.Is, any BackendError with status 401.
// Collaborators use it to send the user back to the login flow.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError reports input rejected locally, before any network call.
type ValidationError struct {
	Problems []string
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// BackendError is a non-2xx response. Message is the server-supplied reason.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Is reports whether a 401 is being matched against ErrUnauthorized.
func (e *BackendError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// TransportError means no response was obtained at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err is, or wraps, a 401 from the backend.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// newBackendError extracts the reason from an error body. The backend answers
// with {"error": ...} from its auth layer and {"message": ...} elsewhere.
func newBackendError(status int, body []byte) *BackendError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Error
		if msg == "" {
			msg = payload.Message
		}
	} else {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &BackendError{Status: status, Message: msg}
}
