package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"

	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/state"
)

type fakeCourses struct {
	catalog []domain.Course
	added   []domain.Course
	updated []domain.Course
	err     error
}

func (f *fakeCourses) GetCourses(ctx context.Context) ([]domain.Course, error) {
	return f.catalog, nil
}
func (f *fakeCourses) GetEnrolledCourses(ctx context.Context) ([]domain.Enrollment, error) {
	return nil, nil
}
func (f *fakeCourses) AddCourse(ctx context.Context, c domain.Course) (domain.Course, error) {
	if f.err != nil {
		return domain.Course{}, f.err
	}
	id := int64(len(f.catalog) + 1)
	c.ID = &id
	f.added = append(f.added, c)
	return c, nil
}
func (f *fakeCourses) UpdateCourse(ctx context.Context, c domain.Course) (domain.Course, error) {
	if f.err != nil {
		return domain.Course{}, f.err
	}
	f.updated = append(f.updated, c)
	return c, nil
}
func (f *fakeCourses) DeleteCourse(ctx context.Context, id int64) error { return nil }
func (f *fakeCourses) EnrollUser(ctx context.Context, courseID int64, courseName string) (domain.EnrollResult, error) {
	return domain.EnrollResult{}, nil
}

type fakeFeedbackAdmin struct {
	all      []domain.Feedback
	updated  map[int64]domain.Feedback
	deleted  []int64
	count    int64
	countErr error
}

func (f *fakeFeedbackAdmin) All(ctx context.Context) ([]domain.Feedback, error) { return f.all, nil }
func (f *fakeFeedbackAdmin) Update(ctx context.Context, id int64, fb domain.Feedback) (domain.Feedback, error) {
	if f.updated == nil {
		f.updated = make(map[int64]domain.Feedback)
	}
	f.updated[id] = fb
	return fb, nil
}
func (f *fakeFeedbackAdmin) Delete(ctx context.Context, id int64) (string, error) {
	f.deleted = append(f.deleted, id)
	return "Feedback deleted successfully", nil
}
func (f *fakeFeedbackAdmin) InstructorFeedbackCount(ctx context.Context, id int64) (int64, error) {
	return f.count, f.countErr
}

type fakeEnrollments []domain.RawEnrollment

func (f fakeEnrollments) Enrollments(ctx context.Context) ([]domain.RawEnrollment, error) {
	return f, nil
}

type fakeInstructor struct {
	rating *float64
	taught []domain.InstructorCourse
}

func (f fakeInstructor) Details(ctx context.Context, id int64) (domain.InstructorDetails, error) {
	if id != 3 {
		return domain.InstructorDetails{}, errors.New("Instructor not found")
	}
	return domain.InstructorDetails{ID: 3, Name: "Rob Pike", Email: "rob@example.com"}, nil
}
func (f fakeInstructor) Courses(ctx context.Context, id int64) ([]domain.InstructorCourse, error) {
	return f.taught, nil
}
func (f fakeInstructor) AverageRating(ctx context.Context, id int64) (*float64, error) {
	return f.rating, nil
}
func (f fakeInstructor) EnrollmentCount(ctx context.Context, id int64) (int64, error) {
	return 42, nil
}

type CommandsSuite struct {
	suite.Suite
	out      *bytes.Buffer
	courses  *fakeCourses
	feedback *fakeFeedbackAdmin
	store    *state.Store
	cmd      *commands
}

func (s *CommandsSuite) SetupTest() {
	s.out = &bytes.Buffer{}
	goID := int64(1)
	s.courses = &fakeCourses{catalog: []domain.Course{{ID: &goID, Title: "Go Basics", Price: 10, Instructor: "Rob"}}}
	review := int64(9)
	s.feedback = &fakeFeedbackAdmin{
		all: []domain.Feedback{{ID: &review, Username: "alice", CourseID: 1, CourseName: "Go Basics", Rating: 4, Comments: "Clear and well paced"}},
	}
	s.store = state.NewStore(nil)
	s.store.Use(state.CourseEffects(s.courses, nil)...)

	rating := 4.5
	s.cmd = &commands{
		out:      s.out,
		store:    s.store,
		catalog:  s.courses,
		feedback: s.feedback,
		users: fakeEnrollments{
			{Username: "alice", CourseID: 1, CourseName: "Go Basics"},
		},
		instructors: fakeInstructor{rating: &rating, taught: []domain.InstructorCourse{{ID: 1, Title: "Go Basics", Price: 10}}},
	}
}

func (s *CommandsSuite) TearDownTest() {
	s.store.Close()
}

func (s *CommandsSuite) TestCoursesAddDispatchesThroughStore() {
	err := s.cmd.courses(context.Background(), []string{"add", "-title", "Rust for Gophers", "-price", "20", "-instructor-id", "3"})
	s.Require().NoError(err)

	s.Require().Len(s.courses.added, 1)
	s.Equal("Rust for Gophers", s.courses.added[0].Title)
	s.Equal(20.0, s.courses.added[0].Price)
	s.Equal(int64(3), s.courses.added[0].InstructorID)
	s.Len(state.SelectCourses(s.store.State()), 1)
	s.Contains(s.out.String(), state.MsgCourseAdded)
}

func (s *CommandsSuite) TestCoursesEditKeepsUnsetFields() {
	err := s.cmd.courses(context.Background(), []string{"edit", "1", "-price", "15"})
	s.Require().NoError(err)

	s.Require().Len(s.courses.updated, 1)
	got := s.courses.updated[0]
	s.Equal(int64(1), got.CourseID())
	s.Equal("Go Basics", got.Title)
	s.Equal("Rob", got.Instructor)
	s.Equal(15.0, got.Price)
	s.Contains(s.out.String(), state.MsgCourseUpdated)
}

func (s *CommandsSuite) TestCoursesErrors() {
	tests := []struct {
		name    string
		args    []string
		failure error
		want    string
	}{
		{"missing subcommand", nil, nil, "usage"},
		{"unknown subcommand", []string{"remove"}, nil, "unknown courses command"},
		{"edit without id", []string{"edit"}, nil, "usage"},
		{"edit bad id", []string{"edit", "abc"}, nil, "invalid id"},
		{"edit unknown course", []string{"edit", "99"}, nil, "course 99 not found"},
		{"backend refuses", []string{"add", "-title", "Dup"}, errors.New("Course already exists"), "Course already exists"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.courses.err = tt.failure
			err := s.cmd.courses(context.Background(), tt.args)
			s.Require().Error(err)
			s.Contains(err.Error(), tt.want)
		})
	}
}

func (s *CommandsSuite) TestFeedbackCommands() {
	ctx := context.Background()

	s.Require().NoError(s.cmd.feedbackCmd(ctx, []string{"list"}))
	s.Contains(s.out.String(), "Clear and well paced")
	s.Contains(s.out.String(), "alice")

	s.Require().NoError(s.cmd.feedbackCmd(ctx, []string{"edit", "9", "-rating", "5"}))
	s.Require().Contains(s.feedback.updated, int64(9))
	s.Equal(5.0, s.feedback.updated[9].Rating)
	s.Equal("Clear and well paced", s.feedback.updated[9].Comments)

	s.Require().NoError(s.cmd.feedbackCmd(ctx, []string{"delete", "9"}))
	s.Equal([]int64{9}, s.feedback.deleted)
	s.Contains(s.out.String(), "Feedback deleted successfully")

	err := s.cmd.feedbackCmd(ctx, []string{"edit", "10"})
	s.Require().Error(err)
	s.Contains(err.Error(), "feedback 10 not found")
}

func (s *CommandsSuite) TestEnrollmentsListsRows() {
	s.Require().NoError(s.cmd.enrollments(context.Background()))

	s.Contains(s.out.String(), "USER")
	s.Contains(s.out.String(), "alice")
	s.Contains(s.out.String(), "Go Basics")
}

func (s *CommandsSuite) TestInstructorShowsStats() {
	s.feedback.count = 7

	s.Require().NoError(s.cmd.instructor(context.Background(), []string{"3"}))

	out := s.out.String()
	s.Contains(out, "Rob Pike")
	s.Contains(out, "4.5")
	s.Contains(out, "42")
	s.Contains(out, "7")
	s.Contains(out, "Go Basics")
}

func (s *CommandsSuite) TestInstructorStatsDegrade() {
	s.feedback.countErr = errors.New("backend down")
	s.cmd.instructors = fakeInstructor{}

	s.Require().NoError(s.cmd.instructor(context.Background(), []string{"3"}))

	out := s.out.String()
	s.Contains(out, "no ratings yet")
	s.Contains(out, "unavailable")
	s.NotContains(out, "Courses:")

	err := s.cmd.instructor(context.Background(), []string{"4"})
	s.Require().Error(err)
	s.Contains(err.Error(), "Instructor not found")
}

func TestCommandsSuite(t *testing.T) {
	suite.Run(t, new(CommandsSuite))
}
