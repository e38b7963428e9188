package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

// clampQuality pins q to the quality scale configured in params.
//
// Qualities outside the scale are not errors; they are treated as the nearest
// boundary so that a review always produces a schedule.
func clampQuality(q Quality, params *Params) Quality {
	if q < params.MinQuality {
		return params.MinQuality
	}
	if q > params.MaxQuality {
		return params.MaxQuality
	}
	return q
}

// calculateNewEaseFactor applies the SM-2 ease update.
//
// Parameters:
//   - currentEF: the ease factor before this review
//   - q: the clamped recall quality
//   - params: configuration parameters for the SRS algorithm
//
// Returns:
//   - currentEF + (0.1 - (5-q)*(0.08 + (5-q)*0.02)), never below params.MinEaseFactor
//
// The same formula applies to passing and failing reviews, and always uses the
// ease factor the item had before the review.
func calculateNewEaseFactor(currentEF float64, q Quality, params *Params) float64 {
	d := float64(params.MaxQuality - q)
	newEF := currentEF + (0.1 - d*(0.08+d*0.02))
	return math.Max(params.MinEaseFactor, newEF)
}

// calculateNewInterval determines the interval in days and the repetition count
// after a review.
//
// Algorithm behavior:
//   - failing review (q below params.PassThreshold): repetitions reset to 0 and
//     the interval becomes params.FailInterval
//   - first successful repetition: params.FirstInterval
//   - second successful repetition: params.SecondInterval
//   - afterwards: round(interval * easeFactor), using the pre-review ease factor
func calculateNewInterval(
	currentInterval int,
	repetitions int,
	easeFactor float64,
	q Quality,
	params *Params,
) (int, int) {
	if q < params.PassThreshold {
		return params.FailInterval, 0
	}

	var interval int
	switch repetitions {
	case 0:
		interval = params.FirstInterval
	case 1:
		interval = params.SecondInterval
	default:
		interval = int(math.Round(float64(currentInterval) * easeFactor))
	}
	if interval < 1 {
		interval = 1
	}

	return interval, repetitions + 1
}

// calculateNextReviewDate adds interval calendar days to now.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return now.AddDate(0, 0, interval)
}

// calculateNextItem is the pure scheduling step: it returns an updated copy of
// item and leaves the argument untouched.
func calculateNextItem(item domain.QuizItem, q Quality, now time.Time, params *Params) domain.QuizItem {
	q = clampQuality(q, params)

	next := item.Clone()
	next.IntervalDays, next.RepetitionCount = calculateNewInterval(
		item.IntervalDays,
		item.RepetitionCount,
		item.EaseFactor,
		q,
		params,
	)
	next.EaseFactor = calculateNewEaseFactor(item.EaseFactor, q, params)
	next.NextReviewAt = calculateNextReviewDate(next.IntervalDays, now)

	return next
}
