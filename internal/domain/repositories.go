package domain

import "context"

// AuthRepository talks to the authentication endpoints
type AuthRepository interface {
	// Login returns the raw token from the login response ("" if none)
	Login(ctx context.Context, username, password string) (string, error)
	Signup(ctx context.Context, req SignupRequest) (string, error)
	CheckUsername(ctx context.Context, username string) (bool, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
	CurrentUserID(ctx context.Context) (int64, error)
}

// CourseRepository talks to the course and enrollment endpoints
type CourseRepository interface {
	GetCourses(ctx context.Context) ([]Course, error)
	GetEnrolledCourses(ctx context.Context) ([]Enrollment, error)
	GetHighestEnrolledCourses(ctx context.Context) ([]HighestEnrollment, error)
	AddCourse(ctx context.Context, course Course) (Course, error)
	UpdateCourse(ctx context.Context, course Course) (Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	ApplyCourse(ctx context.Context, courseID int64) (string, error)
}

// FeedbackRepository talks to the feedback endpoints
type FeedbackRepository interface {
	AllFeedback(ctx context.Context) ([]Feedback, error)
	SubmitFeedback(ctx context.Context, f Feedback) (string, error)
	UpdateFeedback(ctx context.Context, id int64, f Feedback) (Feedback, error)
	DeleteFeedback(ctx context.Context, id int64) (string, error)
	FeedbackByCourse(ctx context.Context, courseID int64) ([]Feedback, error)
	InstructorFeedbackCount(ctx context.Context, instructorID int64) (int64, error)
}

// InstructorRepository talks to the instructor profile endpoints
type InstructorRepository interface {
	InstructorDetails(ctx context.Context, id int64) (InstructorDetails, error)
	InstructorCourses(ctx context.Context, id int64) ([]InstructorCourse, error)
	InstructorAverageRating(ctx context.Context, id int64) (*float64, error)
	InstructorEnrollmentCount(ctx context.Context, id int64) (int64, error)
}

// UserRepository talks to the user administration endpoints
type UserRepository interface {
	ListUsers(ctx context.Context) ([]User, error)
	ListEnrollments(ctx context.Context) ([]RawEnrollment, error)
	DeleteUser(ctx context.Context, email string) (string, error)
}
