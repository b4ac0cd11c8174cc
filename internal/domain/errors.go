package domain

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for domain operations
var (
	// ErrNotAuthenticated indicates an operation requires a signed-in user
	ErrNotAuthenticated = errors.New("user not authenticated")

	// ErrUserNotIdentified indicates the token carries no username
	ErrUserNotIdentified = errors.New("user information not available")

	// ErrInvalidCredentials indicates the backend rejected a login
	ErrInvalidCredentials = errors.New("login failed, please check your credentials")

	// ErrMalformedToken indicates a login response carried no decodable token
	ErrMalformedToken = errors.New("login response contained no valid token")

	// ErrAccessDenied indicates the backend answered 401 or 403
	ErrAccessDenied = errors.New("access denied")

	// ErrSessionExpired indicates a protected request was rejected and the session was dropped
	ErrSessionExpired = errors.New("session expired or access denied, please log in")

	// ErrServerOffline indicates the backend is unreachable
	ErrServerOffline = errors.New("server is unreachable")

	// ErrConflict indicates the backend answered 409
	ErrConflict = errors.New("resource already exists")

	// ErrNotFound indicates the backend answered 404
	ErrNotFound = errors.New("resource not found")

	// ErrValidation indicates input failed local validation
	ErrValidation = errors.New("validation failed")

	// ErrSignupRoleNotAllowed indicates a signup asked for a role other than USER
	ErrSignupRoleNotAllowed = errors.New("only USER role is allowed for signup")
)

type userMessager interface {
	UserMessage() string
}

type statusCoder interface {
	StatusCode() int
}

// Failure carries a human-readable message alongside its cause
type Failure struct {
	Msg string
	Err error
}

func (f *Failure) Error() string       { return f.Msg }
func (f *Failure) Unwrap() error       { return f.Err }
func (f *Failure) UserMessage() string { return f.Msg }

// Fail wraps err with a message fit for display. The message comes from the
// error chain when one is available, otherwise fallback.
func Fail(err error, fallback string) error {
	if err == nil {
		return nil
	}
	return &Failure{Msg: Message(err, fallback), Err: err}
}

// Message extracts a display message from err, or returns fallback
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// StatusOf returns the HTTP status attached to err, or 0
func StatusOf(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

// IsDuplicateMessage reports whether text describes an existing enrollment
func IsDuplicateMessage(text string) bool {
	t := strings.ToLower(text)
	return strings.Contains(t, "duplicate") || strings.Contains(t, "already enrolled")
}

// IsDuplicate reports whether err means the resource already exists
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrConflict) || IsDuplicateMessage(Message(err, ""))
}
