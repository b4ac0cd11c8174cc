package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/mmcdole/campus/internal/domain"
)

type statusErr struct {
	status int
	msg    string
}

func (e statusErr) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return http.StatusText(e.status)
}
func (e statusErr) StatusCode() int     { return e.status }
func (e statusErr) UserMessage() string { return e.msg }
func (e statusErr) Is(target error) bool {
	switch target {
	case domain.ErrAccessDenied:
		return e.status == http.StatusUnauthorized || e.status == http.StatusForbidden
	case domain.ErrConflict:
		return e.status == http.StatusConflict
	}
	return false
}

type fakeSession struct {
	username string
}

func (f *fakeSession) IsAuthenticated() bool { return f.username != "" }
func (f *fakeSession) Username() string      { return f.username }

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(note domain.Notification) {
	n.mu.Lock()
	n.messages = append(n.messages, note.Message)
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type staticSnapshot []domain.Enrollment

func (s staticSnapshot) Enrollments() []domain.Enrollment { return s }

type fakeCourseRepo struct {
	mu sync.Mutex

	courses     []domain.Course
	enrolled    []domain.Enrollment
	ranking     []domain.HighestEnrollment
	coursesErr  error
	enrolledErr error
	applyErr    error
	mutateErr   error

	// applyGate blocks ApplyCourse until closed
	applyGate chan struct{}

	getCoursesCalls  int
	getEnrolledCalls int
	applyCalls       int
}

func (f *fakeCourseRepo) GetCourses(ctx context.Context) ([]domain.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCoursesCalls++
	return f.courses, f.coursesErr
}

func (f *fakeCourseRepo) GetEnrolledCourses(ctx context.Context) ([]domain.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getEnrolledCalls++
	return f.enrolled, f.enrolledErr
}

func (f *fakeCourseRepo) GetHighestEnrolledCourses(ctx context.Context) ([]domain.HighestEnrollment, error) {
	return f.ranking, nil
}

func (f *fakeCourseRepo) AddCourse(ctx context.Context, c domain.Course) (domain.Course, error) {
	if f.mutateErr != nil {
		return domain.Course{}, f.mutateErr
	}
	n := int64(100)
	c.ID = &n
	return c, nil
}

func (f *fakeCourseRepo) UpdateCourse(ctx context.Context, c domain.Course) (domain.Course, error) {
	return c, f.mutateErr
}

func (f *fakeCourseRepo) DeleteCourse(ctx context.Context, id int64) error {
	return f.mutateErr
}

func (f *fakeCourseRepo) ApplyCourse(ctx context.Context, courseID int64) (string, error) {
	f.mu.Lock()
	f.applyCalls++
	gate := f.applyGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.applyErr != nil {
		return "", f.applyErr
	}
	return "Enrolled in course", nil
}

func (f *fakeCourseRepo) calls() (courses, enrolled, apply int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCoursesCalls, f.getEnrolledCalls, f.applyCalls
}
