package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/eslsoft/wordcard/internal/repository"
)

const setIndexQuery = `
	INSERT INTO app_state (key, value) VALUES ('current_index', ?)
	ON CONFLICT (key) DO UPDATE SET value = excluded.value`

type sessionRepository struct {
	*Store
}

// NewSessionRepository returns the SQL-backed session position store.
func NewSessionRepository(store *Store) repository.SessionRepository {
	return &sessionRepository{Store: store}
}

func (r *sessionRepository) CurrentIndex(ctx context.Context) (int, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM app_state WHERE key = 'current_index'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read current index: %w", err)
	}
	index, err := strconv.Atoi(value)
	if err != nil {
		// A mangled value must not brick the trainer; start from the top.
		r.logger.WithField("value", value).Warn("invalid current index, resetting to 0")
		return 0, nil
	}
	return index, nil
}

func (r *sessionRepository) SetCurrentIndex(ctx context.Context, index int) error {
	// Written through immediately so the position survives a crash between
	// navigation clicks.
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.rebind(setIndexQuery), strconv.Itoa(index)); err != nil {
			return fmt.Errorf("set current index: %w", err)
		}
		return nil
	})
}
