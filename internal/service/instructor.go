package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/campus/internal/domain"
)

const driveHost = "drive.google.com"

// InstructorService loads instructor profiles
type InstructorService struct {
	repo      domain.InstructorRepository
	proxyBase string
	logger    *slog.Logger
}

// NewInstructorService creates a new instructor service. apiURL is the
// backend root used to build image proxy links.
func NewInstructorService(repo domain.InstructorRepository, apiURL string, logger *slog.Logger) *InstructorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InstructorService{
		repo:      repo,
		proxyBase: strings.TrimRight(apiURL, "/") + "/instructor/proxy-image",
		logger:    logger,
	}
}

// proxied routes Google Drive images through the backend proxy
func (s *InstructorService) proxied(imageURL string) string {
	if !strings.Contains(imageURL, driveHost) {
		return imageURL
	}
	return s.proxyBase + "?url=" + url.QueryEscape(imageURL)
}

// Details returns an instructor profile
func (s *InstructorService) Details(ctx context.Context, id int64) (domain.InstructorDetails, error) {
	details, err := s.repo.InstructorDetails(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch instructor", "instructorID", id, "error", err)
		return domain.InstructorDetails{}, domain.Fail(err, "Failed to load instructor")
	}
	details.PhotoURL = s.proxied(details.PhotoURL)
	return details, nil
}

// Courses returns the courses an instructor teaches
func (s *InstructorService) Courses(ctx context.Context, id int64) ([]domain.InstructorCourse, error) {
	courses, err := s.repo.InstructorCourses(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch instructor courses", "instructorID", id, "error", err)
		return nil, domain.Fail(err, "Failed to load instructor courses")
	}
	for i := range courses {
		courses[i].ImageURL = s.proxied(courses[i].ImageURL)
	}
	return courses, nil
}

// AverageRating returns nil when the instructor has no ratings or is not
// an instructor
func (s *InstructorService) AverageRating(ctx context.Context, id int64) (*float64, error) {
	rating, err := s.repo.InstructorAverageRating(ctx, id)
	if err != nil {
		if isBadRequest(err, "No ratings found", "User is not an instructor") {
			return nil, nil
		}
		s.logger.Error("failed to fetch instructor rating", "instructorID", id, "error", err)
		return nil, domain.Fail(err, "Failed to load instructor rating")
	}
	return rating, nil
}

// EnrollmentCount returns 0 for users who are not instructors
func (s *InstructorService) EnrollmentCount(ctx context.Context, id int64) (int64, error) {
	n, err := s.repo.InstructorEnrollmentCount(ctx, id)
	if err != nil {
		if isBadRequest(err, "User is not an instructor") {
			return 0, nil
		}
		s.logger.Error("failed to fetch instructor enrollment count", "instructorID", id, "error", err)
		return 0, domain.Fail(err, "Failed to load enrollment count")
	}
	return n, nil
}

// isBadRequest reports whether err is a 400 whose message contains one of texts
func isBadRequest(err error, texts ...string) bool {
	if domain.StatusOf(err) != http.StatusBadRequest {
		return false
	}
	msg := domain.Message(err, "")
	for _, t := range texts {
		if strings.Contains(msg, t) {
			return true
		}
	}
	return false
}
