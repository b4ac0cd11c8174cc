package state

import "github.com/mmcdole/campus/internal/domain"

// Action is a request to change state
type Action interface {
	Type() string
}

type LoadCourses struct{}

type LoadCoursesSuccess struct {
	Courses []domain.Course
}

type LoadCoursesFailure struct {
	Error string
}

type AddCourse struct {
	Course domain.Course
}

type AddCourseSuccess struct {
	Course domain.Course
}

type UpdateCourse struct {
	Course domain.Course
}

type UpdateCourseSuccess struct {
	Course domain.Course
}

type DeleteCourse struct {
	CourseID int64
}

type DeleteCourseSuccess struct {
	CourseID int64
}

// CourseMutationFailure reports a failed add, update or delete
type CourseMutationFailure struct {
	Error string
}

type LoadEnrollments struct{}

type LoadEnrollmentsSuccess struct {
	Enrollments []domain.Enrollment
}

type LoadEnrollmentsFailure struct {
	Error string
}

type EnrollUser struct {
	CourseID   int64
	CourseName string
}

type EnrollUserSuccess struct {
	Enrollment domain.Enrollment
}

type EnrollUserFailure struct {
	Error string
}

// EnrollUserPending means another enroll request for the course is running
type EnrollUserPending struct {
	CourseID int64
}

type ClearCourseError struct{}

// SetAuth replaces role and user in one step
type SetAuth struct {
	Role domain.Role
	User *domain.UserDetails
}

// ClearAuth signs out and drops per-user data
type ClearAuth struct{}

func (LoadCourses) Type() string            { return "[Courses] Load Courses" }
func (LoadCoursesSuccess) Type() string     { return "[Courses] Load Courses Success" }
func (LoadCoursesFailure) Type() string     { return "[Courses] Load Courses Failure" }
func (AddCourse) Type() string              { return "[Courses] Add Course" }
func (AddCourseSuccess) Type() string       { return "[Courses] Add Course Success" }
func (UpdateCourse) Type() string           { return "[Courses] Update Course" }
func (UpdateCourseSuccess) Type() string    { return "[Courses] Update Course Success" }
func (DeleteCourse) Type() string           { return "[Courses] Delete Course" }
func (DeleteCourseSuccess) Type() string    { return "[Courses] Delete Course Success" }
func (CourseMutationFailure) Type() string  { return "[Courses] Course Mutation Failure" }
func (LoadEnrollments) Type() string        { return "[Enrollments] Load Enrollments" }
func (LoadEnrollmentsSuccess) Type() string { return "[Enrollments] Load Enrollments Success" }
func (LoadEnrollmentsFailure) Type() string { return "[Enrollments] Load Enrollments Failure" }
func (EnrollUser) Type() string             { return "[Enrollments] Enroll User" }
func (EnrollUserSuccess) Type() string      { return "[Enrollments] Enroll User Success" }
func (EnrollUserFailure) Type() string      { return "[Enrollments] Enroll User Failure" }
func (EnrollUserPending) Type() string      { return "[Enrollments] Enroll User Pending" }
func (ClearCourseError) Type() string       { return "[Courses] Clear Error" }
func (SetAuth) Type() string                { return "[Auth] Set Auth" }
func (ClearAuth) Type() string              { return "[Auth] Clear Auth" }
