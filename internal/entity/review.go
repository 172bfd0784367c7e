package entity

import "time"

// Rating is the closed two-outcome recall judgment. The integer values are
// part of the persisted review history and must not change.
type Rating int32

const (
	RatingForgot   Rating = 1
	RatingMastered Rating = 2
)

// Valid reports whether the rating is one of the two known outcomes.
func (r Rating) Valid() bool {
	return r == RatingForgot || r == RatingMastered
}

func (r Rating) String() string {
	switch r {
	case RatingForgot:
		return "forgot"
	case RatingMastered:
		return "mastered"
	default:
		return "unknown"
	}
}

// ParseRating converts user-facing outcome names back into a Rating.
func ParseRating(s string) (Rating, bool) {
	switch s {
	case "forgot", "f", "1":
		return RatingForgot, true
	case "mastered", "m", "2":
		return RatingMastered, true
	default:
		return 0, false
	}
}

// ReviewEvent is one immutable entry of the review log. Events are append
// only and removed solely when the owning word is deleted.
type ReviewEvent struct {
	ID         int64     `json:"id"`
	WordID     int64     `json:"word_id"`
	Rating     Rating    `json:"rating"`
	ReviewTime time.Time `json:"review_time"`
}

// ReviewLogEntry is a review event joined with its word for display.
type ReviewLogEntry struct {
	ReviewEvent

	Term       string `json:"term"`
	Definition string `json:"definition"`
}
