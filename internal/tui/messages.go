package tui

import (
	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/state"
	"github.com/mmcdole/campus/internal/tui/components"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	msg := domain.Message(e.Err, e.Err.Error())
	if e.Context != "" {
		return e.Context + ": " + msg
	}
	return msg
}

// StateChangedMsg carries the latest store snapshot
type StateChangedMsg struct {
	State state.AppState
}

// AuthChangedMsg signals a login, logout or session expiry
type AuthChangedMsg struct {
	Authenticated bool
}

// NotificationMsg carries a notice raised by a service
type NotificationMsg struct {
	Note domain.Notification
}

// LoginResultMsg reports the outcome of a login attempt
type LoginResultMsg struct {
	Err error
}

// RatingLoadedMsg carries a course's average rating
type RatingLoadedMsg struct {
	CourseID int64
	Rating   float64
}

// FeedbackSubmittedMsg signals a stored review
type FeedbackSubmittedMsg struct {
	CourseID int64
	Message  string
}

// EnrollmentCheckedMsg reports whether the user may review a course
type EnrollmentCheckedMsg struct {
	Course   domain.Course
	Enrolled bool
}

// InstructorLoadedMsg carries an instructor profile and stats
type InstructorLoadedMsg struct {
	Detail components.InstructorDetail
}

// UsersLoadedMsg carries the admin user listing
type UsersLoadedMsg struct {
	Users []domain.User
}

// UserDeletedMsg signals a removed account
type UserDeletedMsg struct {
	Email   string
	Message string
}

// LinkOpenedMsg signals a link handed to the browser
type LinkOpenedMsg struct {
	URL string
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
