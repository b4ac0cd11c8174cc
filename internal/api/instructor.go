package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mmcdole/campus/internal/domain"
)

func (c *Client) InstructorDetails(ctx context.Context, id int64) (domain.InstructorDetails, error) {
	var out domain.InstructorDetails
	err := c.getJSON(ctx, fmt.Sprintf("/instructor/%d", id), nil, &out)
	return out, err
}

func (c *Client) InstructorCourses(ctx context.Context, id int64) ([]domain.InstructorCourse, error) {
	var out []domain.InstructorCourse
	if err := c.getJSON(ctx, fmt.Sprintf("/instructor/%d/courses", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InstructorAverageRating returns nil when the instructor has no ratings yet
func (c *Client) InstructorAverageRating(ctx context.Context, id int64) (*float64, error) {
	var out averageRatingResponse
	query := url.Values{"instructorId": {strconv.FormatInt(id, 10)}}
	if err := c.getJSON(ctx, "/instructor/average-rating", query, &out); err != nil {
		return nil, err
	}
	return out.AverageRating, nil
}

func (c *Client) InstructorEnrollmentCount(ctx context.Context, id int64) (int64, error) {
	var n int64
	if err := c.getJSON(ctx, fmt.Sprintf("/instructor/%d/enrollment-count", id), nil, &n); err != nil {
		return 0, err
	}
	return n, nil
}
