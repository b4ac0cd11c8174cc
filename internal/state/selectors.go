package state

import "github.com/mmcdole/campus/internal/domain"

func SelectCourses(s AppState) []domain.Course         { return s.Course.Courses }
func SelectEnrollments(s AppState) []domain.Enrollment { return s.Course.Enrollments }
func SelectError(s AppState) string                    { return s.Course.Error }
func SelectMessage(s AppState) string                  { return s.Course.Message }
func SelectRole(s AppState) domain.Role                { return s.Auth.Role }
func SelectUser(s AppState) *domain.UserDetails        { return s.Auth.User }
func SelectIsAdmin(s AppState) bool                    { return s.Auth.Role == domain.RoleAdmin }

// SelectCourseByID returns the course with id, if loaded
func SelectCourseByID(s AppState, id int64) (domain.Course, bool) {
	for _, c := range s.Course.Courses {
		if c.CourseID() == id {
			return c, true
		}
	}
	return domain.Course{}, false
}

// SelectUsername returns the signed-in username, or ""
func SelectUsername(s AppState) string {
	if s.Auth.User == nil {
		return ""
	}
	return s.Auth.User.Username
}

// SelectUserEnrollments returns the enrollments of the signed-in user
func SelectUserEnrollments(s AppState) []domain.Enrollment {
	username := SelectUsername(s)
	if username == "" {
		return nil
	}
	var out []domain.Enrollment
	for _, e := range s.Course.Enrollments {
		if e.Username == username {
			out = append(out, e)
		}
	}
	return out
}

// SelectIsEnrolled reports whether the signed-in user is enrolled in courseID
func SelectIsEnrolled(s AppState, courseID int64) bool {
	username := SelectUsername(s)
	return username != "" && domain.HasEnrollment(s.Course.Enrollments, courseID, username)
}

// Enrollments returns the current enrollment snapshot
func (s *Store) Enrollments() []domain.Enrollment {
	return SelectEnrollments(s.State())
}
