// Package state is the central store: a single AppState value changed only
// by reducing actions in dispatch order, with effects performing the I/O
// that actions ask for.
package state

import "github.com/mmcdole/campus/internal/domain"

// Status tracks one resource's load cycle
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// AuthState is who is signed in. Role and User change together.
type AuthState struct {
	Role domain.Role
	User *domain.UserDetails
}

// CourseState is the catalog and the signed-in user's enrollments.
// At most one of Error and Message is set.
type CourseState struct {
	Courses           []domain.Course
	Enrollments       []domain.Enrollment
	Error             string
	Message           string
	CoursesStatus     Status
	EnrollmentsStatus Status
}

// AppState is the whole store
type AppState struct {
	Auth   AuthState
	Course CourseState
}
