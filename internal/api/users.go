package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mmcdole/campus/internal/domain"
)

// ListUsers returns every account; roles are returned as the server sends them
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.getJSON(ctx, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListEnrollments(ctx context.Context) ([]domain.RawEnrollment, error) {
	var out []domain.RawEnrollment
	if err := c.getJSON(ctx, "/users/enrolled", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteUser(ctx context.Context, email string) (string, error) {
	data, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/users/delete",
		query:  url.Values{"userEmail": {email}},
	})
	if err != nil {
		return "", err
	}
	var resp messageResponse
	if err := decode(data, &resp); err != nil {
		return text(data), nil
	}
	return resp.Message, nil
}

var (
	_ domain.AuthRepository       = (*Client)(nil)
	_ domain.CourseRepository     = (*Client)(nil)
	_ domain.FeedbackRepository   = (*Client)(nil)
	_ domain.InstructorRepository = (*Client)(nil)
	_ domain.UserRepository       = (*Client)(nil)
)
