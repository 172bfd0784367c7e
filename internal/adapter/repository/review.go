package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eslsoft/wordcard/internal/entity"
	"github.com/eslsoft/wordcard/internal/repository"
)

type reviewRepository struct {
	*Store
}

// NewReviewRepository returns the SQL-backed review log.
func NewReviewRepository(store *Store) repository.ReviewRepository {
	return &reviewRepository{Store: store}
}

func (r *reviewRepository) Append(ctx context.Context, event *entity.ReviewEvent) error {
	if event.ReviewTime.IsZero() {
		event.ReviewTime = r.clock()
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.rebind(`
			INSERT INTO review_history (word_id, rating, review_time)
			VALUES (?, ?, ?)`),
			event.WordID, int32(event.Rating), formatTime(event.ReviewTime))
		if err != nil {
			return fmt.Errorf("append review event: %w", err)
		}
		return nil
	})
}

func (r *reviewRepository) Recent(ctx context.Context, limit int) ([]*entity.ReviewLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT rh.id, rh.word_id, rh.rating, rh.review_time, w.term, w.definition
		FROM review_history rh
		JOIN words w ON rh.word_id = w.id
		ORDER BY rh.review_time DESC, rh.id DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("review history: %w", err)
	}
	defer rows.Close()

	var entries []*entity.ReviewLogEntry
	for rows.Next() {
		var (
			entry      entity.ReviewLogEntry
			rating     int32
			reviewTime string
		)
		if err := rows.Scan(&entry.ID, &entry.WordID, &rating, &reviewTime,
			&entry.Term, &entry.Definition); err != nil {
			return nil, fmt.Errorf("scan review event: %w", err)
		}
		entry.Rating = entity.Rating(rating)
		if entry.ReviewTime, err = parseTime(reviewTime); err != nil {
			return nil, fmt.Errorf("parse review_time: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("review history: %w", err)
	}
	return entries, nil
}
