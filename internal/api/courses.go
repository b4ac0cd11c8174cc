package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/campus/internal/domain"
)

// GetCourses fetches the public catalog
func (c *Client) GetCourses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if err := c.getJSON(ctx, "/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetEnrolledCourses fetches the signed-in user's enrollments, unjoined
func (c *Client) GetEnrolledCourses(ctx context.Context) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	if err := c.getJSON(ctx, "/courses/enrolled-courses", nil, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// GetHighestEnrolledCourses fetches the enrollment ranking
func (c *Client) GetHighestEnrolledCourses(ctx context.Context) ([]domain.HighestEnrollment, error) {
	var ranking []domain.HighestEnrollment
	if err := c.getJSON(ctx, "/courses/highest-enrolled-users-count", nil, &ranking); err != nil {
		return nil, err
	}
	return ranking, nil
}

// AddCourse creates a course and returns the persisted copy
func (c *Client) AddCourse(ctx context.Context, course domain.Course) (domain.Course, error) {
	data, err := c.do(ctx, request{method: http.MethodPost, path: "/courses", body: course, auth: true})
	if err != nil {
		return domain.Course{}, err
	}
	var env courseEnvelope
	if err := decode(data, &env); err != nil {
		return domain.Course{}, err
	}
	return env.Data, nil
}

// UpdateCourse replaces the editable fields of a persisted course
func (c *Client) UpdateCourse(ctx context.Context, course domain.Course) (domain.Course, error) {
	if course.ID == nil {
		return domain.Course{}, fmt.Errorf("update course %q: %w", course.Title, domain.ErrNotFound)
	}
	data, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/courses/%d", *course.ID),
		body: courseUpdate{
			Title:      course.Title,
			Price:      course.Price,
			Body:       course.Body,
			ImageURL:   course.ImageURL,
			Instructor: course.Instructor,
		},
	})
	if err != nil {
		return domain.Course{}, err
	}
	var env courseEnvelope
	if err := decode(data, &env); err != nil {
		return domain.Course{}, err
	}
	if env.Data.ID == nil {
		env.Data.ID = course.ID
	}
	return env.Data, nil
}

// DeleteCourse removes a course
func (c *Client) DeleteCourse(ctx context.Context, id int64) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/courses/%d", id)})
	return err
}

// ApplyCourse enrolls the signed-in user and returns the server message
func (c *Client) ApplyCourse(ctx context.Context, courseID int64) (string, error) {
	data, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/users/apply-course",
		body:   applyCourseRequest{CourseID: courseID},
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
