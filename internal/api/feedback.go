package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/campus/internal/domain"
)

func (c *Client) AllFeedback(ctx context.Context) ([]domain.Feedback, error) {
	var out []domain.Feedback
	if err := c.getJSON(ctx, "/feedback/all", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitFeedback(ctx context.Context, f domain.Feedback) (string, error) {
	data, err := c.do(ctx, request{method: http.MethodPost, path: "/feedback/submit", body: f})
	if err != nil {
		return "", err
	}
	return text(data), nil
}

func (c *Client) UpdateFeedback(ctx context.Context, id int64, f domain.Feedback) (domain.Feedback, error) {
	data, err := c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/feedback/%d", id), body: f})
	if err != nil {
		return domain.Feedback{}, err
	}
	updated := f
	updated.ID = &id
	// The backend may answer with text only; keep the submitted values then.
	_ = decode(data, &updated)
	return updated, nil
}

func (c *Client) DeleteFeedback(ctx context.Context, id int64) (string, error) {
	data, err := c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/feedback/%d", id)})
	if err != nil {
		return "", err
	}
	return text(data), nil
}

func (c *Client) FeedbackByCourse(ctx context.Context, courseID int64) ([]domain.Feedback, error) {
	var out []domain.Feedback
	if err := c.getJSON(ctx, fmt.Sprintf("/feedback/course/%d", courseID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) InstructorFeedbackCount(ctx context.Context, instructorID int64) (int64, error) {
	var n int64
	if err := c.getJSON(ctx, fmt.Sprintf("/feedback/instructor/%d/feedback-count", instructorID), nil, &n); err != nil {
		return 0, err
	}
	return n, nil
}
