package state

import (
	"context"
	"log/slog"

	"github.com/mmcdole/campus/internal/domain"
)

const (
	errNotAuthenticated = "User not authenticated"
	errUnknown          = "Unknown error"
)

// CourseService is what the course effects need from the course layer
type CourseService interface {
	GetCourses(ctx context.Context) ([]domain.Course, error)
	GetEnrolledCourses(ctx context.Context) ([]domain.Enrollment, error)
	AddCourse(ctx context.Context, course domain.Course) (domain.Course, error)
	UpdateCourse(ctx context.Context, course domain.Course) (domain.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	EnrollUser(ctx context.Context, courseID int64, courseName string) (domain.EnrollResult, error)
}

// CourseEffects wires course and enrollment actions to svc
func CourseEffects(svc CourseService, logger *slog.Logger) []Effect {
	if logger == nil {
		logger = slog.Default()
	}

	return []Effect{
		On("loadCourses", func(ctx context.Context, _ LoadCourses, _ AppState) Action {
			courses, err := svc.GetCourses(ctx)
			if err != nil {
				return LoadCoursesFailure{Error: domain.Message(err, "Failed to load courses")}
			}
			return LoadCoursesSuccess{Courses: courses}
		}),

		On("addCourse", func(ctx context.Context, a AddCourse, _ AppState) Action {
			created, err := svc.AddCourse(ctx, a.Course)
			if err != nil {
				return CourseMutationFailure{Error: domain.Message(err, "Failed to add course")}
			}
			return AddCourseSuccess{Course: created}
		}),

		On("updateCourse", func(ctx context.Context, a UpdateCourse, _ AppState) Action {
			updated, err := svc.UpdateCourse(ctx, a.Course)
			if err != nil {
				return CourseMutationFailure{Error: domain.Message(err, "Failed to update course")}
			}
			return UpdateCourseSuccess{Course: updated}
		}),

		On("deleteCourse", func(ctx context.Context, a DeleteCourse, _ AppState) Action {
			if err := svc.DeleteCourse(ctx, a.CourseID); err != nil {
				return CourseMutationFailure{Error: domain.Message(err, "Failed to delete course")}
			}
			return DeleteCourseSuccess{CourseID: a.CourseID}
		}),

		On("loadEnrollments", func(ctx context.Context, _ LoadEnrollments, _ AppState) Action {
			enrollments, err := svc.GetEnrolledCourses(ctx)
			if err != nil {
				return LoadEnrollmentsFailure{Error: domain.Message(err, "Failed to load enrollments")}
			}
			return LoadEnrollmentsSuccess{Enrollments: enrollments}
		}),

		On("enrollUser", func(ctx context.Context, a EnrollUser, snapshot AppState) Action {
			username := SelectUsername(snapshot)
			if username == "" {
				return EnrollUserFailure{Error: errNotAuthenticated}
			}

			enrollment := domain.Enrollment{
				Username:   username,
				CourseID:   a.CourseID,
				CourseName: a.CourseName,
			}

			if domain.HasEnrollment(snapshot.Course.Enrollments, a.CourseID, username) {
				logger.Debug("already enrolled, skipping request", "courseID", a.CourseID, "username", username)
				return EnrollUserSuccess{Enrollment: enrollment}
			}

			res, err := svc.EnrollUser(ctx, a.CourseID, a.CourseName)
			if err != nil {
				if domain.IsDuplicate(err) {
					return EnrollUserSuccess{Enrollment: enrollment}
				}
				return EnrollUserFailure{Error: domain.Message(err, errUnknown)}
			}
			if res.Outcome == domain.EnrollInProgress {
				return EnrollUserPending{CourseID: a.CourseID}
			}
			return EnrollUserSuccess{Enrollment: enrollment}
		}),
	}
}
