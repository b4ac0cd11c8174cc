package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/campus/internal/domain"
)

type fakeFeedbackRepo struct {
	byCourse    map[int64][]domain.Feedback
	submitCalls int
}

func (f *fakeFeedbackRepo) AllFeedback(ctx context.Context) ([]domain.Feedback, error) {
	var out []domain.Feedback
	for _, fb := range f.byCourse {
		out = append(out, fb...)
	}
	return out, nil
}

func (f *fakeFeedbackRepo) SubmitFeedback(ctx context.Context, fb domain.Feedback) (string, error) {
	f.submitCalls++
	return "Feedback submitted", nil
}

func (f *fakeFeedbackRepo) UpdateFeedback(ctx context.Context, id int64, fb domain.Feedback) (domain.Feedback, error) {
	fb.ID = &id
	return fb, nil
}

func (f *fakeFeedbackRepo) DeleteFeedback(ctx context.Context, id int64) (string, error) {
	return "Feedback deleted", nil
}

func (f *fakeFeedbackRepo) FeedbackByCourse(ctx context.Context, courseID int64) ([]domain.Feedback, error) {
	return f.byCourse[courseID], nil
}

func (f *fakeFeedbackRepo) InstructorFeedbackCount(ctx context.Context, instructorID int64) (int64, error) {
	return 3, nil
}

func TestFeedbackService_SubmitValidatesFirst(t *testing.T) {
	repo := &fakeFeedbackRepo{}
	svc := NewFeedbackService(repo, nil)

	_, err := svc.Submit(context.Background(), domain.Feedback{CourseID: 1, Rating: 4, Comments: "too short"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, repo.submitCalls)

	msg, err := svc.Submit(context.Background(), domain.Feedback{CourseID: 1, Rating: 4, Comments: "Great examples throughout."})
	require.NoError(t, err)
	assert.Equal(t, "Feedback submitted", msg)
	assert.Equal(t, 1, repo.submitCalls)
}

func TestFeedbackService_Update(t *testing.T) {
	svc := NewFeedbackService(&fakeFeedbackRepo{}, nil)

	got, err := svc.Update(context.Background(), 8, domain.Feedback{CourseID: 1, Rating: 3.5, Comments: "Better than expected."})

	require.NoError(t, err)
	require.NotNil(t, got.ID)
	assert.Equal(t, int64(8), *got.ID)
}

func TestFeedbackService_All(t *testing.T) {
	repo := &fakeFeedbackRepo{byCourse: map[int64][]domain.Feedback{
		1: {{CourseID: 1, Rating: 4}},
		2: {{CourseID: 2, Rating: 5}, {CourseID: 2, Rating: 3}},
	}}
	svc := NewFeedbackService(repo, nil)

	all, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
