package view

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/campus/internal/domain"
)

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []float64
		want    float64
	}{
		{"empty is zero", nil, 0},
		{"exact half", []float64{4, 5}, 4.5},
		{"rounds to nearest half", []float64{3, 3, 4}, 3.5},
		{"rounds down", []float64{4, 4, 4.5}, 4},
		{"single", []float64{2.5}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AverageRating(tt.ratings))
		})
	}
}

func TestStarTypes(t *testing.T) {
	assert.Equal(t, [5]StarType{StarFull, StarFull, StarFull, StarHalf, StarEmpty}, StarTypes(3.5))
	assert.Equal(t, [5]StarType{StarEmpty, StarEmpty, StarEmpty, StarEmpty, StarEmpty}, StarTypes(0))
	assert.Equal(t, [5]StarType{StarFull, StarFull, StarFull, StarFull, StarFull}, StarTypes(5))
}

type countingSource struct {
	calls    atomic.Int32
	feedback map[int64][]domain.Feedback
	err      error
}

func (s *countingSource) ByCourse(ctx context.Context, courseID int64) ([]domain.Feedback, error) {
	s.calls.Add(1)
	return s.feedback[courseID], s.err
}

type notes struct{ got []string }

func (n *notes) Notify(note domain.Notification) { n.got = append(n.got, note.Message) }

func TestRatingMemo(t *testing.T) {
	src := &countingSource{feedback: map[int64][]domain.Feedback{
		1: {{Rating: 4}, {Rating: 5}},
	}}
	memo := NewRatingMemo(src, nil, nil)
	ctx := context.Background()

	assert.Equal(t, 4.5, memo.Average(ctx, 1))
	assert.Equal(t, 4.5, memo.Average(ctx, 1))
	assert.Equal(t, int32(1), src.calls.Load())

	assert.Equal(t, 0.0, memo.Average(ctx, 2), "course without feedback")

	memo.Reset()
	_, ok := memo.Peek(1)
	assert.False(t, ok)
	memo.Average(ctx, 1)
	assert.Equal(t, int32(3), src.calls.Load())
}

func TestRatingMemo_FailureIsZero(t *testing.T) {
	src := &countingSource{err: errors.New("boom")}
	n := &notes{}
	memo := NewRatingMemo(src, n, nil)

	assert.Equal(t, 0.0, memo.Average(context.Background(), 1))
	assert.Equal(t, 0.0, memo.Average(context.Background(), 1))
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, []string{"Failed to load average rating"}, n.got)
}
