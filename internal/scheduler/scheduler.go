// Package scheduler implements the spaced-repetition state transition for
// the two-outcome rating scale. It is deliberately a simplified SM-2
// variant: no quality grades, no response-time weighting, a fixed 1/3/7 day
// ladder for the first three successful reviews and a multiplicative
// interval afterwards.
package scheduler

import (
	"math"
	"time"

	"github.com/eslsoft/wordcard/internal/entity"
)

const (
	minEaseFactor = 1.3
	maxEaseFactor = 2.5

	forgotEasePenalty = 0.2
	recallEaseBonus   = 0.15

	// A word counts as mastered once it has survived enough reviews to be
	// scheduled a month out.
	masteryMinIntervalDays = 30
	masteryMinReviews      = 5
)

// Result is the post-rating scheduling state. It carries plain values so the
// transition can be inspected and tested without touching storage.
type Result struct {
	ReviewCount  int32
	EaseFactor   float64
	IntervalDays int32
	Mastered     bool
	NextReview   time.Time
	LastReview   time.Time
}

// Review computes the next scheduling state for a word given a recall
// outcome. The function is pure: it never reads the clock or performs I/O.
//
// A forgot rating fully resets the trajectory: the interval drops back to
// one day, the ease factor is penalised, the mastered flag clears and the
// word becomes due immediately (next review set to yesterday). A mastered
// rating walks the 1/3/7 ladder for the first three reviews, then grows the
// interval multiplicatively from the interval the word had *before* this
// rating.
func Review(w entity.Word, rating entity.Rating, now time.Time) Result {
	r := Result{
		ReviewCount: w.ReviewCount + 1,
		EaseFactor:  w.EaseFactor,
		LastReview:  now,
	}

	if rating == entity.RatingForgot {
		r.IntervalDays = 1
		r.EaseFactor = math.Max(minEaseFactor, w.EaseFactor-forgotEasePenalty)
		r.Mastered = false
		r.NextReview = now.AddDate(0, 0, -1)
		return r
	}

	switch r.ReviewCount {
	case 1:
		r.IntervalDays = 1
	case 2:
		r.IntervalDays = 3
	case 3:
		r.IntervalDays = 7
	default:
		r.IntervalDays = int32(float64(w.IntervalDays) * w.EaseFactor)
	}

	r.EaseFactor = math.Min(maxEaseFactor, w.EaseFactor+recallEaseBonus)
	r.Mastered = r.IntervalDays >= masteryMinIntervalDays && r.ReviewCount >= masteryMinReviews
	r.NextReview = now.AddDate(0, 0, int(r.IntervalDays))
	return r
}

// Patch converts the result into a typed partial update for the store.
func (r Result) Patch() entity.WordPatch {
	next := r.NextReview
	last := r.LastReview
	return entity.WordPatch{
		ReviewCount:  &r.ReviewCount,
		EaseFactor:   &r.EaseFactor,
		IntervalDays: &r.IntervalDays,
		NextReview:   &next,
		Mastered:     &r.Mastered,
		LastReview:   &last,
	}
}
