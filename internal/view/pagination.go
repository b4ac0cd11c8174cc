package view

// Page sizes used by the listing screens
const (
	CoursePageSize = 9
	UserPageSize   = 10
)

// TotalPages is the number of pages n items fill, at least 1
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns items [page*size, page*size+size). Page 0 is the first
// page; pages outside the range are empty.
func Paginate[T any](items []T, page, size int) []T {
	if page < 0 || size <= 0 {
		return []T{}
	}
	start := page * size
	if start >= len(items) {
		return []T{}
	}
	end := min(start+size, len(items))
	return items[start:end]
}
