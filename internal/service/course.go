package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/mmcdole/campus/internal/cache"
	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/validate"
)

const (
	msgAccessDenied       = "Access denied: Please log in."
	msgEnrollDenied       = "Access denied: Please check your login status or permissions."
	msgEnrollInProgress   = "Enrollment already in progress"
	msgAlreadyEnrolled    = "Already enrolled in the course"
	msgEnrolled           = "Enrolled successfully"
	msgLoginToEnroll      = "Please log in to enroll."
	msgUserNotAvailable   = "User information not available."
	msgRankingUnavailable = "Failed to load enrollment ranking"
)

// EnrollmentSnapshot supplies the enrollments the store already holds
type EnrollmentSnapshot interface {
	Enrollments() []domain.Enrollment
}

// CourseService is the read-through cache over the course endpoints.
// Reads are coalesced per key; successful mutations invalidate.
type CourseService struct {
	repo     domain.CourseRepository
	session  domain.Session
	notifier domain.Notifier
	logger   *slog.Logger

	// snapshot is attached after construction; the store needs this
	// service for its effects first
	snapMu   sync.RWMutex
	snapshot EnrollmentSnapshot

	courses     *cache.Cache[string, []domain.Course]
	enrollments *cache.Cache[string, []domain.Enrollment]
	ranking     *cache.Cache[string, []domain.HighestEnrollment]

	enrollMu  sync.Mutex
	enrolling map[int64]struct{}
}

// NewCourseService creates a new course service
func NewCourseService(repo domain.CourseRepository, session domain.Session, notifier domain.Notifier, logger *slog.Logger) *CourseService {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &CourseService{
		repo:        repo,
		session:     session,
		notifier:    notifier,
		logger:      logger,
		courses:     cache.New[string, []domain.Course](),
		enrollments: cache.New[string, []domain.Enrollment](),
		ranking:     cache.New[string, []domain.HighestEnrollment](),
		enrolling:   make(map[int64]struct{}),
	}
}

// SetSnapshot attaches the store's enrollment snapshot used for membership checks
func (s *CourseService) SetSnapshot(snap EnrollmentSnapshot) {
	s.snapMu.Lock()
	s.snapshot = snap
	s.snapMu.Unlock()
}

func (s *CourseService) snapshotEnrollments() []domain.Enrollment {
	s.snapMu.RLock()
	snap := s.snapshot
	s.snapMu.RUnlock()
	if snap == nil {
		return nil
	}
	return snap.Enrollments()
}

// GetCourses returns the catalog, fetching once per invalidation
func (s *CourseService) GetCourses(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.catalog(ctx)
	if err != nil {
		s.logger.Error("failed to fetch courses", "error", err)
		return nil, s.fail(err, "Failed to load courses")
	}
	return courses, nil
}

// catalog reads the course cache without notifying on failure
func (s *CourseService) catalog(ctx context.Context) ([]domain.Course, error) {
	return s.courses.GetOrCompute(ctx, KeyCourses, func(ctx context.Context) ([]domain.Course, error) {
		courses, err := s.repo.GetCourses(ctx)
		if err != nil {
			return nil, err
		}
		if courses == nil {
			courses = []domain.Course{}
		}
		s.logger.Debug("fetched courses", "count", len(courses))
		return courses, nil
	})
}

// GetHighestEnrolledCourses returns the enrollment ranking, or an empty
// ranking when it cannot be loaded
func (s *CourseService) GetHighestEnrolledCourses(ctx context.Context) []domain.HighestEnrollment {
	ranking, err := s.ranking.GetOrCompute(ctx, KeyHighestEnrolled, s.repo.GetHighestEnrolledCourses)
	if err != nil {
		s.logger.Error("failed to fetch enrollment ranking", "error", err)
		domain.NotifyError(s.notifier, msgRankingUnavailable)
		return []domain.HighestEnrollment{}
	}
	return ranking
}

// GetEnrolledCourses returns the signed-in user's enrollments joined with
// catalog details. Signed-out users get an empty list without a request,
// and so does a failed fetch.
func (s *CourseService) GetEnrolledCourses(ctx context.Context) ([]domain.Enrollment, error) {
	if !s.session.IsAuthenticated() {
		return []domain.Enrollment{}, nil
	}
	username := s.session.Username()

	enrollments, err := s.enrollments.GetOrCompute(ctx, EnrollmentsKey(username), func(ctx context.Context) ([]domain.Enrollment, error) {
		raw, err := s.repo.GetEnrolledCourses(ctx)
		if err != nil {
			return nil, err
		}
		courses, err := s.catalog(ctx)
		if err != nil {
			s.logger.Warn("joining enrollments without catalog", "error", err)
		}
		return joinEnrollments(raw, courses), nil
	})
	if err != nil {
		s.logger.Error("failed to fetch enrolled courses", "username", username, "error", err)
		if errors.Is(err, domain.ErrAccessDenied) {
			domain.NotifyError(s.notifier, msgAccessDenied)
		}
		return []domain.Enrollment{}, nil
	}
	return enrollments, nil
}

// joinEnrollments fills course details from the catalog
func joinEnrollments(raw []domain.Enrollment, courses []domain.Course) []domain.Enrollment {
	byID := make(map[int64]domain.Course, len(courses))
	for _, c := range courses {
		byID[c.CourseID()] = c
	}

	out := make([]domain.Enrollment, 0, len(raw))
	for _, e := range raw {
		c, ok := byID[e.CourseID]
		if !ok {
			e.Instructor = domain.DefaultInstructor
			out = append(out, e)
			continue
		}
		e.Body = c.Body
		e.Price = c.Price
		e.ImageURL = c.ImageURL
		instructorID := c.InstructorID
		e.InstructorID = &instructorID
		e.Instructor = c.Instructor
		if e.Instructor == "" {
			e.Instructor = domain.DefaultInstructor
		}
		out = append(out, e)
	}
	return out
}

// AddCourse creates a course
func (s *CourseService) AddCourse(ctx context.Context, course domain.Course) (domain.Course, error) {
	if err := s.requireAuth("Please log in to add a course."); err != nil {
		return domain.Course{}, err
	}
	if err := validate.Course(course); err != nil {
		return domain.Course{}, err
	}

	created, err := s.repo.AddCourse(context.WithoutCancel(ctx), course)
	if err != nil {
		s.logger.Error("failed to add course", "title", course.Title, "error", err)
		return domain.Course{}, s.fail(err, "Failed to add course")
	}

	s.InvalidateCourses()
	return created, nil
}

// UpdateCourse saves changes to a persisted course
func (s *CourseService) UpdateCourse(ctx context.Context, course domain.Course) (domain.Course, error) {
	if err := s.requireAuth("Please log in to update a course."); err != nil {
		return domain.Course{}, err
	}
	if err := validate.Course(course); err != nil {
		return domain.Course{}, err
	}

	updated, err := s.repo.UpdateCourse(context.WithoutCancel(ctx), course)
	if err != nil {
		s.logger.Error("failed to update course", "courseID", course.CourseID(), "error", err)
		return domain.Course{}, s.fail(err, "Failed to update course")
	}

	s.InvalidateCourses()
	return updated, nil
}

// DeleteCourse removes a course
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.requireAuth("Please log in to delete a course."); err != nil {
		return err
	}

	if err := s.repo.DeleteCourse(context.WithoutCancel(ctx), id); err != nil {
		s.logger.Error("failed to delete course", "courseID", id, "error", err)
		return s.fail(err, "Failed to delete course")
	}

	s.InvalidateCourses()
	return nil
}

// EnrollUser enrolls the signed-in user in a course. A second call for the
// same course while one is running returns EnrollInProgress without a
// request. Existing membership, whether known locally or reported by the
// server as a duplicate, returns EnrollAlreadyEnrolled.
func (s *CourseService) EnrollUser(ctx context.Context, courseID int64, courseName string) (domain.EnrollResult, error) {
	if !s.beginEnroll(courseID) {
		s.logger.Debug("enrollment already in progress", "courseID", courseID)
		return domain.EnrollResult{Outcome: domain.EnrollInProgress, Message: msgEnrollInProgress}, nil
	}
	defer s.endEnroll(courseID)

	if !s.session.IsAuthenticated() {
		domain.NotifyError(s.notifier, msgLoginToEnroll)
		return domain.EnrollResult{}, domain.ErrNotAuthenticated
	}
	username := s.session.Username()
	if username == "" {
		domain.NotifyError(s.notifier, msgUserNotAvailable)
		return domain.EnrollResult{}, domain.ErrUserNotIdentified
	}

	if domain.HasEnrollment(s.snapshotEnrollments(), courseID, username) {
		return domain.EnrollResult{Outcome: domain.EnrollAlreadyEnrolled, Message: msgAlreadyEnrolled}, nil
	}

	msg, err := s.repo.ApplyCourse(context.WithoutCancel(ctx), courseID)
	if err != nil {
		if domain.IsDuplicate(err) {
			s.logger.Info("server reports existing enrollment", "courseID", courseID, "username", username)
			s.enrollments.Invalidate(EnrollmentsKey(username))
			return domain.EnrollResult{Outcome: domain.EnrollAlreadyEnrolled, Message: msgAlreadyEnrolled}, nil
		}
		s.logger.Error("failed to enroll", "courseID", courseID, "courseName", courseName, "error", err)
		if errors.Is(err, domain.ErrAccessDenied) {
			domain.NotifyError(s.notifier, msgEnrollDenied)
			return domain.EnrollResult{}, err
		}
		return domain.EnrollResult{}, domain.Fail(err, "Failed to enroll")
	}

	s.enrollments.Invalidate(EnrollmentsKey(username))
	s.ranking.Invalidate(KeyHighestEnrolled)
	if msg == "" {
		msg = msgEnrolled
	}
	s.logger.Info("enrolled", "courseID", courseID, "username", username)
	return domain.EnrollResult{Outcome: domain.EnrollCreated, Message: msg}, nil
}

func (s *CourseService) beginEnroll(courseID int64) bool {
	s.enrollMu.Lock()
	defer s.enrollMu.Unlock()
	if _, busy := s.enrolling[courseID]; busy {
		return false
	}
	s.enrolling[courseID] = struct{}{}
	return true
}

func (s *CourseService) endEnroll(courseID int64) {
	s.enrollMu.Lock()
	delete(s.enrolling, courseID)
	s.enrollMu.Unlock()
}

// InvalidateCourses drops the catalog and everything joined against it
func (s *CourseService) InvalidateCourses() {
	s.courses.InvalidateAll()
	s.enrollments.InvalidateAll()
}

// InvalidateEnrollments drops every cached enrollment list
func (s *CourseService) InvalidateEnrollments() {
	s.enrollments.InvalidateAll()
}

// InvalidateAll drops every cache the service holds
func (s *CourseService) InvalidateAll() {
	s.courses.InvalidateAll()
	s.enrollments.InvalidateAll()
	s.ranking.InvalidateAll()
}

// WatchSession drops enrollment caches whenever the signed-in state changes.
// It returns when events closes or ctx is done.
func (s *CourseService) WatchSession(ctx context.Context, events <-chan bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			s.logger.Debug("session changed, dropping enrollment cache")
			s.InvalidateEnrollments()
		}
	}
}

func (s *CourseService) requireAuth(msg string) error {
	if s.session.IsAuthenticated() {
		return nil
	}
	domain.NotifyError(s.notifier, msg)
	return domain.ErrNotAuthenticated
}

// fail notifies the user and returns err carrying a display message.
// Access errors keep their identity so callers can match them.
func (s *CourseService) fail(err error, fallback string) error {
	if errors.Is(err, domain.ErrAccessDenied) {
		domain.NotifyError(s.notifier, msgAccessDenied)
		return err
	}
	failure := domain.Fail(err, fallback)
	domain.NotifyError(s.notifier, failure.Error())
	return failure
}
