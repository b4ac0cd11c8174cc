package view

import (
	"context"
	"log/slog"

	"github.com/mmcdole/campus/internal/domain"
)

// EnrollmentFetcher loads the signed-in user's enrollments from the server
type EnrollmentFetcher interface {
	GetEnrolledCourses(ctx context.Context) ([]domain.Enrollment, error)
}

// MembershipChecker answers "is this user enrolled?" for course screens
type MembershipChecker struct {
	fetcher EnrollmentFetcher
	logger  *slog.Logger
}

// NewMembershipChecker creates a checker that falls back to fetcher
func NewMembershipChecker(fetcher EnrollmentFetcher, logger *slog.Logger) *MembershipChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &MembershipChecker{fetcher: fetcher, logger: logger}
}

// IsEnrolled checks snapshot first and asks the server only when snapshot
// is empty. Admins and signed-out users are never enrolled.
func (m *MembershipChecker) IsEnrolled(ctx context.Context, snapshot []domain.Enrollment, courseID int64, username string, isAdmin bool) bool {
	if username == "" || isAdmin {
		return false
	}
	if len(snapshot) > 0 {
		return domain.HasEnrollment(snapshot, courseID, username)
	}
	fresh, err := m.fetcher.GetEnrolledCourses(ctx)
	if err != nil {
		m.logger.Error("failed to check enrollment", "courseID", courseID, "error", err)
		return false
	}
	return domain.HasEnrollment(fresh, courseID, username)
}
