package view

import (
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmcdole/campus/internal/domain"
)

// CourseSort names a course ordering
type CourseSort string

const (
	SortTitleAsc  CourseSort = "title-asc"
	SortTitleDesc CourseSort = "title-desc"
	SortPriceAsc  CourseSort = "price-asc"
	SortPriceDesc CourseSort = "price-desc"
)

// CourseSorts lists the orderings in cycle order
var CourseSorts = []CourseSort{SortTitleAsc, SortTitleDesc, SortPriceAsc, SortPriceDesc}

// Next returns the ordering after s
func (s CourseSort) Next() CourseSort {
	i := slices.Index(CourseSorts, s)
	return CourseSorts[(i+1)%len(CourseSorts)]
}

// newCollator orders strings the way a reader expects, ignoring case.
// A collator is not safe for concurrent use; make one per sort.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// FilterCourses keeps courses whose title contains query, ignoring case
func FilterCourses(courses []domain.Course, query string) []domain.Course {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(courses)
	}
	var out []domain.Course
	for _, c := range courses {
		if strings.Contains(strings.ToLower(c.Title), q) {
			out = append(out, c)
		}
	}
	return out
}

// SortCourses returns a sorted copy. Unknown orderings keep the input order.
func SortCourses(courses []domain.Course, by CourseSort) []domain.Course {
	out := slices.Clone(courses)
	col := newCollator()
	var cmp func(a, b domain.Course) int
	switch by {
	case SortTitleAsc:
		cmp = func(a, b domain.Course) int { return col.CompareString(a.Title, b.Title) }
	case SortTitleDesc:
		cmp = func(a, b domain.Course) int { return col.CompareString(b.Title, a.Title) }
	case SortPriceAsc:
		cmp = func(a, b domain.Course) int { return compareFloat(a.Price, b.Price) }
	case SortPriceDesc:
		cmp = func(a, b domain.Course) int { return compareFloat(b.Price, a.Price) }
	default:
		return out
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// UserSortField names the column users are ordered by
type UserSortField string

const (
	UserSortName     UserSortField = "name"
	UserSortUsername UserSortField = "username"
	UserSortEmail    UserSortField = "email"
)

// FilterUsers keeps users whose name, username or email fuzzily matches query
func FilterUsers(users []domain.User, query string) []domain.User {
	q := strings.TrimSpace(query)
	if q == "" {
		return slices.Clone(users)
	}
	var out []domain.User
	for _, u := range users {
		if fuzzy.MatchNormalizedFold(q, u.Name) ||
			fuzzy.MatchNormalizedFold(q, u.Username) ||
			fuzzy.MatchNormalizedFold(q, u.Email) {
			out = append(out, u)
		}
	}
	return out
}

// SortUsers returns a sorted copy. Sorting by name falls back to the
// username for accounts without one.
func SortUsers(users []domain.User, field UserSortField, ascending bool) []domain.User {
	key := func(u domain.User) string {
		switch field {
		case UserSortUsername:
			return u.Username
		case UserSortEmail:
			return u.Email
		default:
			if u.Name != "" {
				return u.Name
			}
			return u.Username
		}
	}
	out := slices.Clone(users)
	col := newCollator()
	slices.SortStableFunc(out, func(a, b domain.User) int {
		c := col.CompareString(key(a), key(b))
		if !ascending {
			return -c
		}
		return c
	})
	return out
}
