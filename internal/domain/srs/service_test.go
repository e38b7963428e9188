package srs

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceSchedule(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	t.Run("fresh item walks the SM-2 ladder", func(t *testing.T) {
		t.Parallel()

		item := newTestItem(t, domain.InitialIntervalDays, 0, domain.DefaultEaseFactor)

		item = svc.Schedule(item, 4, now)
		assert.Equal(t, 1, item.IntervalDays)
		assert.Equal(t, 1, item.RepetitionCount)

		item = svc.Schedule(item, 4, now)
		assert.Equal(t, 6, item.IntervalDays)
		assert.Equal(t, 2, item.RepetitionCount)

		item = svc.Schedule(item, 4, now)
		assert.Equal(t, 15, item.IntervalDays)
		assert.Equal(t, 3, item.RepetitionCount)
		assert.Equal(t, now.AddDate(0, 0, 15), item.NextReviewAt)
	})

	t.Run("out of range qualities are clamped", func(t *testing.T) {
		t.Parallel()

		item := newTestItem(t, 6, 2, 2.5)
		high := svc.Schedule(item, 11, now)
		assert.Equal(t, svc.Schedule(item, 5, now), high)

		low := svc.Schedule(item, -1, now)
		assert.Equal(t, svc.Schedule(item, 0, now), low)
	})

	t.Run("invariants hold for every quality", func(t *testing.T) {
		t.Parallel()

		for q := Quality(-2); q <= 7; q++ {
			item := newTestItem(t, 10, 4, 1.35)
			next := svc.Schedule(item, q, now)
			assert.GreaterOrEqual(t, next.EaseFactor, domain.MinEaseFactor)
			assert.GreaterOrEqual(t, next.IntervalDays, 1)
			if q < 3 {
				assert.Equal(t, 0, next.RepetitionCount)
				assert.Equal(t, 1, next.IntervalDays)
			} else {
				assert.Equal(t, 5, next.RepetitionCount)
			}
			assert.Equal(t, now.AddDate(0, 0, next.IntervalDays), next.NextReviewAt)
		}
	})
}

func TestServiceIsDue(t *testing.T) {
	t.Parallel()

	svc := NewServiceWithParams(nil)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	item := newTestItem(t, 1, 0, 2.5)

	item.NextReviewAt = now
	assert.True(t, svc.IsDue(item, now))

	item.NextReviewAt = now.Add(time.Minute)
	assert.False(t, svc.IsDue(item, now))

	due := DueItems(svc, []domain.QuizItem{item}, now.Add(time.Hour))
	assert.Len(t, due, 1)
}

func TestRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  Rating
		q     Quality
	}{
		{"hard", RatingHard, 2},
		{"Good", RatingGood, 3},
		{" EASY ", RatingEasy, 4},
	}
	for _, tt := range tests {
		r, err := ParseRating(tt.label)
		require.NoError(t, err)
		assert.Equal(t, tt.want, r)

		q, err := r.Quality()
		require.NoError(t, err)
		assert.Equal(t, tt.q, q)
	}

	_, err := ParseRating("again")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = Rating(7).Quality()
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestRatingJSON(t *testing.T) {
	t.Parallel()

	var payload struct {
		Rating Rating `json:"rating"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"rating":"good"}`), &payload))
	assert.Equal(t, RatingGood, payload.Rating)

	err := json.Unmarshal([]byte(`{"rating":3}`), &payload)
	assert.ErrorIs(t, err, ErrInvalidRating)

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rating":"good"}`, string(data))
}

func TestChoiceQuality(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Quality(4), ChoiceQuality(true))
	assert.Equal(t, Quality(2), ChoiceQuality(false))
}
