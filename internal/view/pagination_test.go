package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		name string
		page int
		want []int
	}{
		{"first page", 0, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}},
		{"second page", 1, []int{9, 10, 11, 12, 13, 14, 15, 16, 17}},
		{"last partial page", 2, []int{18, 19}},
		{"past the end", 3, []int{}},
		{"negative page", -1, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(items, tt.page, CoursePageSize))
		})
	}

	assert.Equal(t, 3, TotalPages(len(items), CoursePageSize))
	assert.Equal(t, 2, TotalPages(20, UserPageSize))
	assert.Equal(t, 1, TotalPages(0, CoursePageSize))
}

func TestPaginate_TwentyItemsNinePerPage(t *testing.T) {
	items := make([]string, 20)

	assert.Len(t, Paginate(items, 0, CoursePageSize), 9)
	assert.Len(t, Paginate(items, 1, CoursePageSize), 9)
	assert.Len(t, Paginate(items, 2, CoursePageSize), 2)
	assert.Empty(t, Paginate(items, 3, CoursePageSize))
	assert.Empty(t, Paginate(items, 0, 0))
}
