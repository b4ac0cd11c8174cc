package api

import (
	"fmt"
	"net/http"

	"github.com/mmcdole/campus/internal/domain"
)

// Error is a non-2xx response from the backend
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
	// SessionExpired is set when the request carried the session token and
	// the server rejected it
	SessionExpired bool
}

func (e *Error) Error() string {
	if e.SessionExpired {
		return "Session expired or access denied. Please log in."
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// UserMessage returns the server-provided message
func (e *Error) UserMessage() string {
	if e.SessionExpired {
		return e.Error()
	}
	return e.Message
}

// StatusCode returns the HTTP status
func (e *Error) StatusCode() int {
	return e.Status
}

// Is maps the status onto the domain sentinels
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrAccessDenied:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case domain.ErrSessionExpired:
		return e.SessionExpired
	case domain.ErrConflict:
		return e.Status == http.StatusConflict
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}
