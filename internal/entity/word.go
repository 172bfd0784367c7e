package entity

import (
	"strings"
	"time"
)

// Scheduling defaults for a freshly added word.
const (
	DefaultEaseFactor   = 2.5
	DefaultIntervalDays = 1
)

// Word represents a vocabulary entry together with its scheduling state.
type Word struct {
	ID         int64  `json:"id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`

	ReviewCount  int32      `json:"review_count"`
	EaseFactor   float64    `json:"ease_factor"`
	IntervalDays int32      `json:"interval_days"`
	NextReview   *time.Time `json:"next_review,omitempty"` // nil means due now
	Mastered     bool       `json:"mastered"`
	LastReview   *time.Time `json:"last_review,omitempty"` // nil until first rating

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWord builds a word with default scheduling state. next_review is set to
// yesterday so the entry shows up as due immediately instead of looking learned.
func NewWord(term, definition string, now time.Time) *Word {
	due := now.AddDate(0, 0, -1)
	return &Word{
		Term:         term,
		Definition:   definition,
		ReviewCount:  0,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: DefaultIntervalDays,
		NextReview:   &due,
		Mastered:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeTerm trims surrounding whitespace and lowercases a term for
// duplicate checks. The store compares exact text; import paths fold case
// through this helper before insert.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// WordPatch is a typed partial update for a word. Nil fields are left
// untouched; updated_at is refreshed on every applied patch.
type WordPatch struct {
	Term         *string
	Definition   *string
	ReviewCount  *int32
	EaseFactor   *float64
	IntervalDays *int32
	NextReview   *time.Time
	Mastered     *bool
	LastReview   *time.Time
}

// IsZero reports whether the patch carries no field at all.
func (p WordPatch) IsZero() bool {
	return p.Term == nil && p.Definition == nil && p.ReviewCount == nil &&
		p.EaseFactor == nil && p.IntervalDays == nil && p.NextReview == nil &&
		p.Mastered == nil && p.LastReview == nil
}

// WordPair is a raw (term, definition) tuple handed over by import parsers.
type WordPair struct {
	Term       string
	Definition string
}

// Statistics aggregates library-wide counters for the progress display.
type Statistics struct {
	Total         int64 `json:"total"`
	NewCount      int64 `json:"new_count"`       // never rated
	DueCount      int64 `json:"due_count"`       // next_review null or on/before today
	MasteredCount int64 `json:"mastered_count"`  // mastered flag set
	TotalMastered int64 `json:"total_mastered"`  // mastered or scheduled past today
}
