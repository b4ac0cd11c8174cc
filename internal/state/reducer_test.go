package state

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/campus/internal/domain"
)

func id(n int64) *int64 { return &n }

func TestReduce(t *testing.T) {
	goCourse := domain.Course{ID: id(1), Title: "Go", Price: 10}
	rustCourse := domain.Course{ID: id(2), Title: "Rust", Price: 20}
	ann := &domain.UserDetails{ID: 3, Username: "ann", Email: "ann@example.com"}

	tests := []struct {
		name   string
		given  AppState
		action Action
		want   AppState
	}{
		{
			name:   "success: load clears error and message",
			given:  AppState{Course: CourseState{Error: "old", Message: "older"}},
			action: LoadCourses{},
			want:   AppState{Course: CourseState{CoursesStatus: StatusLoading}},
		},
		{
			name:   "success: load success replaces courses",
			given:  AppState{Course: CourseState{Courses: []domain.Course{rustCourse}, CoursesStatus: StatusLoading}},
			action: LoadCoursesSuccess{Courses: []domain.Course{goCourse}},
			want:   AppState{Course: CourseState{Courses: []domain.Course{goCourse}, CoursesStatus: StatusSuccess}},
		},
		{
			name:   "error: load failure sets error",
			given:  AppState{Course: CourseState{CoursesStatus: StatusLoading, Message: "stale"}},
			action: LoadCoursesFailure{Error: "Failed to load courses"},
			want:   AppState{Course: CourseState{Error: "Failed to load courses", CoursesStatus: StatusFailure}},
		},
		{
			name:   "success: add appends server copy",
			given:  AppState{Course: CourseState{Courses: []domain.Course{goCourse}}},
			action: AddCourseSuccess{Course: rustCourse},
			want:   AppState{Course: CourseState{Courses: []domain.Course{goCourse, rustCourse}, Message: MsgCourseAdded}},
		},
		{
			name:   "success: add request changes nothing but clears messages",
			given:  AppState{Course: CourseState{Courses: []domain.Course{goCourse}, Error: "x"}},
			action: AddCourse{Course: rustCourse},
			want:   AppState{Course: CourseState{Courses: []domain.Course{goCourse}}},
		},
		{
			name:   "success: update replaces by id",
			given:  AppState{Course: CourseState{Courses: []domain.Course{goCourse, rustCourse}}},
			action: UpdateCourseSuccess{Course: domain.Course{ID: id(2), Title: "Rust 2"}},
			want: AppState{Course: CourseState{
				Courses: []domain.Course{goCourse, {ID: id(2), Title: "Rust 2"}},
				Message: MsgCourseUpdated,
			}},
		},
		{
			name:   "success: delete removes by id",
			given:  AppState{Course: CourseState{Courses: []domain.Course{goCourse, rustCourse}}},
			action: DeleteCourseSuccess{CourseID: 1},
			want:   AppState{Course: CourseState{Courses: []domain.Course{rustCourse}, Message: MsgCourseDeleted}},
		},
		{
			name:   "success: enroll upserts by course and user",
			given:  AppState{Course: CourseState{Enrollments: []domain.Enrollment{{Username: "ann", CourseID: 1, CourseName: "old"}}}},
			action: EnrollUserSuccess{Enrollment: domain.Enrollment{Username: "ann", CourseID: 1, CourseName: "Go"}},
			want: AppState{Course: CourseState{
				Enrollments:       []domain.Enrollment{{Username: "ann", CourseID: 1, CourseName: "Go"}},
				Message:           MsgEnrolled,
				EnrollmentsStatus: StatusSuccess,
			}},
		},
		{
			name:   "success: duplicate enroll failure is suppressed",
			given:  AppState{Course: CourseState{EnrollmentsStatus: StatusLoading}},
			action: EnrollUserFailure{Error: "User is Already Enrolled in this course"},
			want:   AppState{Course: CourseState{EnrollmentsStatus: StatusIdle}},
		},
		{
			name:   "error: genuine enroll failure sets error",
			given:  AppState{Course: CourseState{EnrollmentsStatus: StatusLoading}},
			action: EnrollUserFailure{Error: "Course is full"},
			want:   AppState{Course: CourseState{Error: "Course is full", EnrollmentsStatus: StatusFailure}},
		},
		{
			name:   "success: pending enroll reports progress",
			given:  AppState{Course: CourseState{EnrollmentsStatus: StatusLoading}},
			action: EnrollUserPending{CourseID: 1},
			want:   AppState{Course: CourseState{Message: MsgEnrollInProgress}},
		},
		{
			name:   "success: clear error",
			given:  AppState{Course: CourseState{Error: "x"}},
			action: ClearCourseError{},
			want:   AppState{},
		},
		{
			name:   "success: set auth sets role and user together",
			given:  AppState{},
			action: SetAuth{Role: domain.RoleAdmin, User: ann},
			want:   AppState{Auth: AuthState{Role: domain.RoleAdmin, User: ann}},
		},
		{
			name: "success: clear auth drops user and enrollments",
			given: AppState{
				Auth: AuthState{Role: domain.RoleUser, User: ann},
				Course: CourseState{
					Courses:           []domain.Course{goCourse},
					Enrollments:       []domain.Enrollment{{Username: "ann", CourseID: 1}},
					EnrollmentsStatus: StatusSuccess,
				},
			},
			action: ClearAuth{},
			want:   AppState{Course: CourseState{Courses: []domain.Course{goCourse}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.given, tt.action)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Reduce() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	given := AppState{Course: CourseState{
		Courses: []domain.Course{{ID: id(1), Title: "Go"}, {ID: id(2), Title: "Rust"}},
	}}
	before := cmp.Diff(AppState{}, given)

	_ = Reduce(given, UpdateCourseSuccess{Course: domain.Course{ID: id(1), Title: "Changed"}})
	_ = Reduce(given, DeleteCourseSuccess{CourseID: 2})

	assert.Equal(t, before, cmp.Diff(AppState{}, given))
}

func TestReduce_ErrorAndMessageExclusive(t *testing.T) {
	actions := []Action{
		LoadCourses{},
		LoadCoursesFailure{Error: "boom"},
		AddCourseSuccess{Course: domain.Course{ID: id(1)}},
		CourseMutationFailure{Error: "nope"},
		EnrollUserSuccess{Enrollment: domain.Enrollment{Username: "ann", CourseID: 1}},
		EnrollUserFailure{Error: "full"},
		EnrollUserPending{CourseID: 1},
	}

	var s AppState
	for _, a := range actions {
		s = Reduce(s, a)
		assert.False(t, s.Course.Error != "" && s.Course.Message != "", "after %s", a.Type())
	}
}
