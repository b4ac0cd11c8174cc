package domain

import "strings"

// Role distinguishes administrators from regular users
type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// DefaultInstructor is shown when an enrollment's course is not in the catalog
const DefaultInstructor = "Unknown Instructor"

// Course is a catalog entry. ID is nil until the backend persists it.
type Course struct {
	ID           *int64  `json:"id,omitempty"`
	Title        string  `json:"title" validate:"required,notblank"`
	Body         string  `json:"body"`
	ImageURL     string  `json:"imageUrl"`
	Price        float64 `json:"price" validate:"gte=0"`
	Instructor   string  `json:"instructor"`
	InstructorID int64   `json:"instructorId"`
}

// CourseID returns the persisted id, or 0 for an unsaved course
func (c Course) CourseID() int64 {
	if c.ID == nil {
		return 0
	}
	return *c.ID
}

// Enrollment joins a user to a course. Identity is (Username, CourseID).
type Enrollment struct {
	Username     string  `json:"username"`
	CourseID     int64   `json:"courseId"`
	CourseName   string  `json:"courseName"`
	Body         string  `json:"body,omitempty"`
	Price        float64 `json:"price,omitempty"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	InstructorID *int64  `json:"instructorId,omitempty"`
	Instructor   string  `json:"instructor,omitempty"`
}

// Matches reports whether the enrollment has the given identity
func (e Enrollment) Matches(courseID int64, username string) bool {
	return e.CourseID == courseID && e.Username == username
}

// HasEnrollment reports whether username is enrolled in courseID
func HasEnrollment(enrollments []Enrollment, courseID int64, username string) bool {
	for _, e := range enrollments {
		if e.Matches(courseID, username) {
			return true
		}
	}
	return false
}

// RawEnrollment is an unjoined enrollment row from the admin listing
type RawEnrollment struct {
	Username   string `json:"username"`
	CourseID   int64  `json:"courseId"`
	CourseName string `json:"courseName"`
}

// UserDetails identifies the signed-in user
type UserDetails struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// User is an account as shown in the admin listing
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NormalizeRole strips the ROLE_ prefix and lowercases, defaulting to "user"
func NormalizeRole(role string) string {
	r := strings.ToLower(strings.TrimPrefix(role, "ROLE_"))
	if r == "" {
		return "user"
	}
	return r
}

// Feedback is a user's review of a course
type Feedback struct {
	ID         *int64  `json:"id,omitempty"`
	Username   string  `json:"username,omitempty"`
	CourseID   int64   `json:"courseId" validate:"required"`
	CourseName string  `json:"courseName,omitempty"`
	Rating     float64 `json:"rating" validate:"required,gte=0.5,lte=5,halfstep"`
	Comments   string  `json:"comments" validate:"required,min=10,max=500"`
}

// InstructorDetails is an instructor's public profile
type InstructorDetails struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Qualifications string   `json:"qualifications"`
	Experience     string   `json:"experience"`
	Courses        []string `json:"courses"`
	PhotoURL       string   `json:"photoUrl"`
	AboutMe        string   `json:"aboutMe"`
	TwitterURL     string   `json:"twitterUrl"`
	GithubURL      string   `json:"githubUrl"`
}

// InstructorCourse is a course as listed on an instructor profile
type InstructorCourse struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Body     string  `json:"body"`
	ImageURL string  `json:"imageUrl"`
	Price    float64 `json:"price"`
}

// HighestEnrollment is one row of the most-enrolled ranking
type HighestEnrollment struct {
	CourseID int64 `json:"courseId"`
	Count    int64 `json:"count"`
}

// SignupRequest registers a new account
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

// EnrollOutcome describes how an enroll request was resolved
type EnrollOutcome int

const (
	// EnrollCreated means the backend recorded a new enrollment
	EnrollCreated EnrollOutcome = iota
	// EnrollAlreadyEnrolled means the user was already a member
	EnrollAlreadyEnrolled
	// EnrollInProgress means another request for the course is in flight
	EnrollInProgress
)

func (o EnrollOutcome) String() string {
	switch o {
	case EnrollCreated:
		return "created"
	case EnrollAlreadyEnrolled:
		return "already-enrolled"
	case EnrollInProgress:
		return "in-progress"
	default:
		return "unknown"
	}
}

// EnrollResult is the resolved outcome of an enroll request
type EnrollResult struct {
	Outcome EnrollOutcome
	Message string
}
