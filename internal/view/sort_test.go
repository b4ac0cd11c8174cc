package view

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/campus/internal/domain"
)

func titles(cs []domain.Course) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Title
	}
	return out
}

func TestSortCourses(t *testing.T) {
	courses := []domain.Course{
		{Title: "rust", Price: 30},
		{Title: "Go", Price: 10},
		{Title: "elixir", Price: 20},
	}

	tests := []struct {
		by   CourseSort
		want []string
	}{
		{SortTitleAsc, []string{"elixir", "Go", "rust"}},
		{SortTitleDesc, []string{"rust", "Go", "elixir"}},
		{SortPriceAsc, []string{"Go", "elixir", "rust"}},
		{SortPriceDesc, []string{"rust", "elixir", "Go"}},
		{"unknown", []string{"rust", "Go", "elixir"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.by), func(t *testing.T) {
			assert.Equal(t, tt.want, titles(SortCourses(courses, tt.by)))
		})
	}
	assert.Equal(t, "rust", courses[0].Title, "input is not reordered")
}

func TestCourseSort_Next(t *testing.T) {
	assert.Equal(t, SortTitleDesc, SortTitleAsc.Next())
	assert.Equal(t, SortTitleAsc, SortPriceDesc.Next())
}

func TestFilterCourses(t *testing.T) {
	courses := []domain.Course{{Title: "Intro to Go"}, {Title: "Advanced GO"}, {Title: "Rust"}}

	assert.Equal(t, []string{"Intro to Go", "Advanced GO"}, titles(FilterCourses(courses, "go")))
	assert.Len(t, FilterCourses(courses, "  "), 3)
	assert.Empty(t, FilterCourses(courses, "python"))
}

func TestSortAndFilterUsers(t *testing.T) {
	users := []domain.User{
		{Name: "", Username: "zed", Email: "z@example.com"},
		{Name: "Ann Lee", Username: "ann", Email: "ann@example.com"},
		{Name: "bob", Username: "bobby", Email: "b@example.com"},
	}

	names := func(us []domain.User) []string {
		out := make([]string, len(us))
		for i, u := range us {
			out[i] = u.Username
		}
		return out
	}

	assert.Equal(t, []string{"ann", "bobby", "zed"}, names(SortUsers(users, UserSortName, true)))
	assert.Equal(t, []string{"zed", "bobby", "ann"}, names(SortUsers(users, UserSortName, false)))
	assert.Equal(t, []string{"zed", "bobby", "ann"}, names(SortUsers(users, UserSortEmail, false)))

	assert.Equal(t, []string{"ann"}, names(FilterUsers(users, "annlee")))
	assert.Equal(t, []string{"bobby"}, names(FilterUsers(users, "BBY")))
	assert.Len(t, FilterUsers(users, ""), 3)
}

type fetcherFunc func(ctx context.Context) ([]domain.Enrollment, error)

func (f fetcherFunc) GetEnrolledCourses(ctx context.Context) ([]domain.Enrollment, error) {
	return f(ctx)
}

func TestMembershipChecker(t *testing.T) {
	calls := 0
	checker := NewMembershipChecker(fetcherFunc(func(ctx context.Context) ([]domain.Enrollment, error) {
		calls++
		return []domain.Enrollment{{Username: "ann", CourseID: 2}}, nil
	}), nil)
	ctx := context.Background()
	snapshot := []domain.Enrollment{{Username: "ann", CourseID: 1}}

	assert.True(t, checker.IsEnrolled(ctx, snapshot, 1, "ann", false))
	assert.False(t, checker.IsEnrolled(ctx, snapshot, 2, "ann", false), "non-empty snapshot is trusted")
	assert.Zero(t, calls)

	assert.True(t, checker.IsEnrolled(ctx, nil, 2, "ann", false))
	assert.Equal(t, 1, calls)

	assert.False(t, checker.IsEnrolled(ctx, snapshot, 1, "ann", true), "admins are never enrolled")
	assert.False(t, checker.IsEnrolled(ctx, snapshot, 1, "", false))

	failing := NewMembershipChecker(fetcherFunc(func(ctx context.Context) ([]domain.Enrollment, error) {
		return nil, errors.New("offline")
	}), nil)
	assert.False(t, failing.IsEnrolled(ctx, nil, 1, "ann", false))
}
