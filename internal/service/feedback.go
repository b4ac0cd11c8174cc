package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/validate"
)

// FeedbackService reads and writes course reviews
type FeedbackService struct {
	repo   domain.FeedbackRepository
	logger *slog.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(repo domain.FeedbackRepository, logger *slog.Logger) *FeedbackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedbackService{repo: repo, logger: logger}
}

// All returns every review, for administrators
func (s *FeedbackService) All(ctx context.Context) ([]domain.Feedback, error) {
	out, err := s.repo.AllFeedback(ctx)
	if err != nil {
		s.logger.Error("failed to fetch feedback", "error", err)
		return nil, domain.Fail(err, "Failed to load feedback")
	}
	return out, nil
}

// ByCourse returns the reviews of one course
func (s *FeedbackService) ByCourse(ctx context.Context, courseID int64) ([]domain.Feedback, error) {
	out, err := s.repo.FeedbackByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("failed to fetch course feedback", "courseID", courseID, "error", err)
		return nil, domain.Fail(err, "Failed to load feedback")
	}
	return out, nil
}

// Submit validates and posts a review
func (s *FeedbackService) Submit(ctx context.Context, f domain.Feedback) (string, error) {
	if err := validate.Feedback(f); err != nil {
		return "", err
	}
	msg, err := s.repo.SubmitFeedback(ctx, f)
	if err != nil {
		s.logger.Error("failed to submit feedback", "courseID", f.CourseID, "error", err)
		return "", domain.Fail(err, "Failed to submit feedback")
	}
	return msg, nil
}

// Update validates and replaces a review
func (s *FeedbackService) Update(ctx context.Context, id int64, f domain.Feedback) (domain.Feedback, error) {
	if err := validate.Feedback(f); err != nil {
		return domain.Feedback{}, err
	}
	out, err := s.repo.UpdateFeedback(ctx, id, f)
	if err != nil {
		s.logger.Error("failed to update feedback", "feedbackID", id, "error", err)
		return domain.Feedback{}, domain.Fail(err, "Failed to update feedback")
	}
	return out, nil
}

func (s *FeedbackService) Delete(ctx context.Context, id int64) (string, error) {
	msg, err := s.repo.DeleteFeedback(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete feedback", "feedbackID", id, "error", err)
		return "", domain.Fail(err, "Failed to delete feedback")
	}
	return msg, nil
}

func (s *FeedbackService) InstructorFeedbackCount(ctx context.Context, instructorID int64) (int64, error) {
	n, err := s.repo.InstructorFeedbackCount(ctx, instructorID)
	if err != nil {
		s.logger.Error("failed to fetch feedback count", "instructorID", instructorID, "error", err)
		return 0, domain.Fail(err, "Failed to load feedback count")
	}
	return n, nil
}
