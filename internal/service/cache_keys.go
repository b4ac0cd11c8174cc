package service

// Cache keys for the course service
const (
	// KeyCourses is the cache key for the course catalog
	KeyCourses = "courses"

	// KeyHighestEnrolled is the cache key for the enrollment ranking
	KeyHighestEnrolled = "highest-enrolled"

	// PrefixEnrollments is the prefix for per-user enrollment caches (enrollments:{username})
	PrefixEnrollments = "enrollments:"
)

// EnrollmentsKey returns the enrollment cache key for username
func EnrollmentsKey(username string) string {
	return PrefixEnrollments + username
}
