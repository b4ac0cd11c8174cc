package state

import (
	"slices"

	"github.com/mmcdole/campus/internal/domain"
)

// Messages set by successful mutations
const (
	MsgCourseAdded      = "Course added successfully"
	MsgCourseUpdated    = "Course updated successfully"
	MsgCourseDeleted    = "Course deleted successfully"
	MsgEnrolled         = "Enrolled successfully"
	MsgEnrollInProgress = "Enrollment already in progress"
)

// Reduce returns the state after applying a. It never mutates s: slices
// are copied before they change.
func Reduce(s AppState, a Action) AppState {
	c := s.Course

	switch a := a.(type) {
	case LoadCourses:
		c.Error, c.Message = "", ""
		c.CoursesStatus = StatusLoading

	case LoadCoursesSuccess:
		c.Courses = slices.Clone(a.Courses)
		c.Error, c.Message = "", ""
		c.CoursesStatus = StatusSuccess

	case LoadCoursesFailure:
		c = fail(c, a.Error)
		c.CoursesStatus = StatusFailure

	case AddCourse, UpdateCourse, DeleteCourse:
		c.Error, c.Message = "", ""

	case AddCourseSuccess:
		c.Courses = append(slices.Clone(c.Courses), a.Course)
		c.Error, c.Message = "", MsgCourseAdded

	case UpdateCourseSuccess:
		id := a.Course.CourseID()
		c.Courses = slices.Clone(c.Courses)
		for i := range c.Courses {
			if c.Courses[i].CourseID() == id {
				c.Courses[i] = a.Course
			}
		}
		c.Error, c.Message = "", MsgCourseUpdated

	case DeleteCourseSuccess:
		c.Courses = slices.DeleteFunc(slices.Clone(c.Courses), func(x domain.Course) bool {
			return x.CourseID() == a.CourseID
		})
		c.Error, c.Message = "", MsgCourseDeleted

	case CourseMutationFailure:
		c = fail(c, a.Error)

	case LoadEnrollments, EnrollUser:
		c.Error, c.Message = "", ""
		c.EnrollmentsStatus = StatusLoading

	case LoadEnrollmentsSuccess:
		c.Enrollments = slices.Clone(a.Enrollments)
		c.Error, c.Message = "", ""
		c.EnrollmentsStatus = StatusSuccess

	case LoadEnrollmentsFailure:
		c = fail(c, a.Error)
		c.EnrollmentsStatus = StatusFailure

	case EnrollUserSuccess:
		c.Enrollments = upsertEnrollment(c.Enrollments, a.Enrollment)
		c.Error, c.Message = "", MsgEnrolled
		c.EnrollmentsStatus = StatusSuccess

	case EnrollUserFailure:
		if domain.IsDuplicateMessage(a.Error) {
			c.EnrollmentsStatus = StatusIdle
			break
		}
		c = fail(c, a.Error)
		c.EnrollmentsStatus = StatusFailure

	case EnrollUserPending:
		c.Error, c.Message = "", MsgEnrollInProgress
		c.EnrollmentsStatus = StatusIdle

	case ClearCourseError:
		c.Error, c.Message = "", ""

	case SetAuth:
		s.Auth = AuthState{Role: a.Role, User: cloneUser(a.User)}

	case ClearAuth:
		s.Auth = AuthState{}
		c.Enrollments = nil
		c.EnrollmentsStatus = StatusIdle

	default:
		return s
	}

	s.Course = c
	return s
}

// fail records err unless it only says the enrollment already exists
func fail(c CourseState, err string) CourseState {
	if domain.IsDuplicateMessage(err) {
		return c
	}
	c.Error, c.Message = err, ""
	return c
}

func upsertEnrollment(list []domain.Enrollment, e domain.Enrollment) []domain.Enrollment {
	out := slices.DeleteFunc(slices.Clone(list), func(x domain.Enrollment) bool {
		return x.Matches(e.CourseID, e.Username)
	})
	return append(out, e)
}

func cloneUser(u *domain.UserDetails) *domain.UserDetails {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
