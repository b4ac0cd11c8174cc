// Package view holds the pure helpers screens use to present store state.
package view

import (
	"context"
	"log/slog"
	"math"

	"github.com/mmcdole/campus/internal/cache"
	"github.com/mmcdole/campus/internal/domain"
)

// AverageRating is the mean rounded to the nearest half star, 0 when empty
func AverageRating(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return math.Round(sum/float64(len(ratings))*2) / 2
}

// StarType is one of the five rating stars
type StarType string

const (
	StarFull  StarType = "full"
	StarHalf  StarType = "half"
	StarEmpty StarType = "empty"
)

// StarTypes lays out rating as five stars
func StarTypes(rating float64) [5]StarType {
	var stars [5]StarType
	full := int(math.Floor(rating))
	half := rating-float64(full) >= 0.5
	for i := range stars {
		switch {
		case i < full:
			stars[i] = StarFull
		case i == full && half:
			stars[i] = StarHalf
		default:
			stars[i] = StarEmpty
		}
	}
	return stars
}

// FeedbackSource loads a course's reviews
type FeedbackSource interface {
	ByCourse(ctx context.Context, courseID int64) ([]domain.Feedback, error)
}

// RatingMemo remembers each course's average rating for the lifetime of
// the view that owns it. A failed fetch is remembered as 0.
type RatingMemo struct {
	source   FeedbackSource
	notifier domain.Notifier
	logger   *slog.Logger
	ratings  *cache.Cache[int64, float64]
}

// NewRatingMemo creates an empty memo over source
func NewRatingMemo(source FeedbackSource, notifier domain.Notifier, logger *slog.Logger) *RatingMemo {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &RatingMemo{
		source:   source,
		notifier: notifier,
		logger:   logger,
		ratings:  cache.New[int64, float64](),
	}
}

// Average returns the course's average rating, fetching it once
func (m *RatingMemo) Average(ctx context.Context, courseID int64) float64 {
	avg, _ := m.ratings.GetOrCompute(ctx, courseID, func(ctx context.Context) (float64, error) {
		feedback, err := m.source.ByCourse(ctx, courseID)
		if err != nil {
			m.logger.Error("failed to load course rating", "courseID", courseID, "error", err)
			domain.NotifyError(m.notifier, "Failed to load average rating")
			return 0, nil
		}
		ratings := make([]float64, len(feedback))
		for i, f := range feedback {
			ratings[i] = f.Rating
		}
		return AverageRating(ratings), nil
	})
	return avg
}

// Peek returns a remembered rating without fetching
func (m *RatingMemo) Peek(courseID int64) (float64, bool) {
	return m.ratings.Get(courseID)
}

// Reset forgets every rating
func (m *RatingMemo) Reset() {
	m.ratings.InvalidateAll()
}
