package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mmcdole/campus/internal/domain"
)

type fakeCourseService struct {
	mu          sync.Mutex
	courses     []domain.Course
	enrollments []domain.Enrollment
	enrollErr   error
	enrollCalls int
	inFlight    map[int64]bool
	gate        chan struct{}
}

func (f *fakeCourseService) GetCourses(ctx context.Context) ([]domain.Course, error) {
	return f.courses, nil
}

func (f *fakeCourseService) GetEnrolledCourses(ctx context.Context) ([]domain.Enrollment, error) {
	return f.enrollments, nil
}

func (f *fakeCourseService) AddCourse(ctx context.Context, c domain.Course) (domain.Course, error) {
	c.ID = id(99)
	return c, nil
}

func (f *fakeCourseService) UpdateCourse(ctx context.Context, c domain.Course) (domain.Course, error) {
	return c, nil
}

func (f *fakeCourseService) DeleteCourse(ctx context.Context, courseID int64) error {
	return errors.New("Failed to delete course")
}

func (f *fakeCourseService) EnrollUser(ctx context.Context, courseID int64, name string) (domain.EnrollResult, error) {
	f.mu.Lock()
	if f.inFlight[courseID] {
		f.mu.Unlock()
		return domain.EnrollResult{Outcome: domain.EnrollInProgress}, nil
	}
	f.inFlight[courseID] = true
	f.enrollCalls++
	f.mu.Unlock()

	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	delete(f.inFlight, courseID)
	f.mu.Unlock()

	if f.enrollErr != nil {
		return domain.EnrollResult{}, f.enrollErr
	}
	return domain.EnrollResult{Outcome: domain.EnrollCreated}, nil
}

type StoreSuite struct {
	suite.Suite
	svc   *fakeCourseService
	store *Store
}

func (s *StoreSuite) SetupTest() {
	s.svc = &fakeCourseService{inFlight: make(map[int64]bool)}
	s.store = NewStore(nil)
	s.store.Use(CourseEffects(s.svc, nil)...)
}

func (s *StoreSuite) TearDownTest() {
	s.store.Close()
}

func (s *StoreSuite) signIn(username string) {
	s.store.Dispatch(SetAuth{Role: domain.RoleUser, User: &domain.UserDetails{Username: username}})
}

func (s *StoreSuite) TestLoadCourses() {
	s.svc.courses = []domain.Course{{ID: id(1), Title: "Go"}}

	s.store.Dispatch(LoadCourses{})
	s.store.Wait()

	st := s.store.State()
	s.Equal(StatusSuccess, st.Course.CoursesStatus)
	s.Len(SelectCourses(st), 1)
}

func (s *StoreSuite) TestAddCourseAppliesServerCopy() {
	s.store.Dispatch(AddCourse{Course: domain.Course{Title: "New"}})
	s.store.Wait()

	st := s.store.State()
	course, ok := SelectCourseByID(st, 99)
	s.True(ok)
	s.Equal("New", course.Title)
	s.Equal(MsgCourseAdded, SelectMessage(st))
}

func (s *StoreSuite) TestMutationFailureSetsError() {
	s.store.Dispatch(DeleteCourse{CourseID: 1})
	s.store.Wait()

	s.Equal("Failed to delete course", SelectError(s.store.State()))
}

func (s *StoreSuite) TestEnrollWithoutUserFails() {
	s.store.Dispatch(EnrollUser{CourseID: 1, CourseName: "Go"})
	s.store.Wait()

	st := s.store.State()
	s.Equal("User not authenticated", SelectError(st))
	s.Empty(SelectEnrollments(st))
	s.Zero(s.svc.enrollCalls)
}

func (s *StoreSuite) TestEnrollTwiceIsIdempotent() {
	s.signIn("ann")

	s.store.Dispatch(EnrollUser{CourseID: 1, CourseName: "Go"})
	s.store.Wait()
	s.store.Dispatch(EnrollUser{CourseID: 1, CourseName: "Go"})
	s.store.Wait()

	st := s.store.State()
	s.Len(SelectEnrollments(st), 1)
	s.Equal(1, s.svc.enrollCalls, "second enroll is answered from the snapshot")
	s.True(SelectIsEnrolled(st, 1))
}

func (s *StoreSuite) TestSameTickEnrollsCollapse() {
	s.signIn("ann")
	s.svc.gate = make(chan struct{})

	s.store.Dispatch(EnrollUser{CourseID: 1, CourseName: "Go"})
	s.store.Dispatch(EnrollUser{CourseID: 1, CourseName: "Go"})
	time.Sleep(20 * time.Millisecond)
	close(s.svc.gate)
	s.store.Wait()

	s.Equal(1, s.svc.enrollCalls)
	s.Len(SelectEnrollments(s.store.State()), 1)
}

func (s *StoreSuite) TestDuplicateEnrollIsSuccess() {
	s.signIn("ann")
	s.svc.enrollErr = errors.New("duplicate key value violates unique constraint")

	s.store.Dispatch(EnrollUser{CourseID: 5, CourseName: "Rust"})
	s.store.Wait()

	st := s.store.State()
	s.Empty(SelectError(st))
	s.Equal([]domain.Enrollment{{Username: "ann", CourseID: 5, CourseName: "Rust"}}, SelectUserEnrollments(st))
}

func (s *StoreSuite) TestLogoutYieldsUnauthenticatedDefaults() {
	s.signIn("ann")
	s.svc.enrollments = []domain.Enrollment{{Username: "ann", CourseID: 1}}
	s.store.Dispatch(LoadEnrollments{})
	s.store.Wait()
	s.Require().Len(SelectEnrollments(s.store.State()), 1)

	s.store.Dispatch(ClearAuth{})

	st := s.store.State()
	s.Empty(SelectEnrollments(st))
	s.Empty(SelectUsername(st))
	s.Equal(domain.RoleNone, SelectRole(st))
	s.False(SelectIsAdmin(st))
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func TestStore_SubscribeLatestWins(t *testing.T) {
	store := NewStore(nil)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	states := store.Subscribe(ctx)

	first := <-states
	assert.Equal(t, StatusIdle, first.Course.CoursesStatus)

	store.Dispatch(LoadCourses{})
	store.Dispatch(LoadCoursesFailure{Error: "a"})
	store.Dispatch(LoadCoursesFailure{Error: "b"})

	latest := <-states
	assert.Equal(t, "b", latest.Course.Error)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-states:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestStore_DispatchAfterCloseIsIgnored(t *testing.T) {
	store := NewStore(nil)
	store.Close()

	store.Dispatch(LoadCoursesFailure{Error: "late"})

	assert.Empty(t, store.State().Course.Error)
	_, ok := <-store.Subscribe(context.Background())
	assert.False(t, ok)
}
