package repository

import (
	"context"

	"github.com/eslsoft/wordcard/internal/entity"
)

// ReviewRepository persists the append-only review log.
type ReviewRepository interface {
	// Append records one rating for a word at the given review time.
	Append(ctx context.Context, event *entity.ReviewEvent) error

	// Recent returns at most limit events joined with word term and
	// definition, most recent first.
	Recent(ctx context.Context, limit int) ([]*entity.ReviewLogEntry, error)
}
