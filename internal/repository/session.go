package repository

import "context"

// SessionRepository persists the single "current position" scalar so the
// trainer resumes where it left off. Writes take effect immediately; the
// stored value is not clamped here, consumers clamp it against the live
// word count.
type SessionRepository interface {
	CurrentIndex(ctx context.Context) (int, error)
	SetCurrentIndex(ctx context.Context, index int) error
}
