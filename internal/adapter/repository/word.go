package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/eslsoft/wordcard/internal/entity"
	"github.com/eslsoft/wordcard/internal/repository"
)

const wordColumns = `id, term, definition, review_count, ease_factor, interval_days,
	next_review, mastered, last_review, created_at, updated_at`

type wordRepository struct {
	*Store
}

// NewWordRepository returns the SQL-backed word repository.
func NewWordRepository(store *Store) repository.WordRepository {
	return &wordRepository{Store: store}
}

func (r *wordRepository) Create(ctx context.Context, term, definition string) (*entity.Word, error) {
	word := entity.NewWord(term, definition, r.clock())

	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, r.rebind(`
			INSERT INTO words (term, definition, next_review, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (term) DO NOTHING
			RETURNING id`),
			word.Term, word.Definition, formatTimePtr(word.NextReview),
			formatTime(word.CreatedAt), formatTime(word.UpdatedAt))
		if err := row.Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Duplicate term: nothing inserted, not an error.
				id = 0
				return nil
			}
			return fmt.Errorf("insert word: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}
	word.ID = id
	return word, nil
}

func (r *wordRepository) BatchCreate(ctx context.Context, pairs []entity.WordPair, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}
	now := r.clock()
	due := formatTime(now.AddDate(0, 0, -1))
	ts := formatTime(now)

	added := 0
	insert := r.rebind(`
		INSERT INTO words (term, definition, next_review, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (term) DO NOTHING`)

	for start := 0; start < len(pairs); start += batchSize {
		end := start + batchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		err := r.withTx(ctx, func(tx *sql.Tx) error {
			for _, pair := range pairs[start:end] {
				res, err := tx.ExecContext(ctx, insert, pair.Term, pair.Definition, due, ts, ts)
				if err != nil {
					// One bad row must not sink the whole batch.
					r.logger.WithError(err).WithField("term", pair.Term).Warn("skipping word")
					continue
				}
				if n, err := res.RowsAffected(); err == nil && n > 0 {
					added++
				}
			}
			return nil
		})
		if err != nil {
			return added, err
		}
		if end%5000 == 0 {
			r.logger.Infof("imported %d/%d words", end, len(pairs))
		}
	}
	r.logger.Infof("batch insert finished: %d/%d added", added, len(pairs))
	return added, nil
}

func (r *wordRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return count, nil
}

func (r *wordRepository) List(ctx context.Context) ([]*entity.Word, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+wordColumns+` FROM words ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()

	var words []*entity.Word
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	return words, nil
}

func (r *wordRepository) GetByID(ctx context.Context, id int64) (*entity.Word, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+wordColumns+` FROM words WHERE id = ?`), id)
	word, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return word, err
}

func (r *wordRepository) FindByTerm(ctx context.Context, term string) (*entity.Word, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+wordColumns+` FROM words WHERE term = ?`), term)
	word, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return word, err
}

func (r *wordRepository) Update(ctx context.Context, id int64, patch entity.WordPatch) error {
	if patch.IsZero() {
		return nil
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.Term != nil {
		set("term", *patch.Term)
	}
	if patch.Definition != nil {
		set("definition", *patch.Definition)
	}
	if patch.ReviewCount != nil {
		set("review_count", *patch.ReviewCount)
	}
	if patch.EaseFactor != nil {
		set("ease_factor", *patch.EaseFactor)
	}
	if patch.IntervalDays != nil {
		set("interval_days", *patch.IntervalDays)
	}
	if patch.NextReview != nil {
		set("next_review", formatTime(*patch.NextReview))
	}
	if patch.Mastered != nil {
		set("mastered", boolToInt(*patch.Mastered))
	}
	if patch.LastReview != nil {
		set("last_review", formatTime(*patch.LastReview))
	}
	set("updated_at", formatTime(r.clock()))
	args = append(args, id)

	return r.withTx(ctx, func(tx *sql.Tx) error {
		query := r.rebind(`UPDATE words SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update word %d: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return entity.ErrWordNotFound
		}
		return nil
	})
}

func (r *wordRepository) Delete(ctx context.Context, id int64) error {
	// Events go first so an interrupted cascade cannot orphan history rows;
	// both statements commit together.
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM review_history WHERE word_id = ?`), id); err != nil {
			return fmt.Errorf("delete review history: %w", err)
		}
		res, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM words WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete word %d: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return entity.ErrWordNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.logger.WithField("word_id", id).Info("word deleted")
	return nil
}

func (r *wordRepository) UpsertLegacy(ctx context.Context, word *entity.Word) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.rebind(`
			INSERT INTO words (term, definition, review_count, ease_factor, interval_days,
				next_review, mastered, last_review, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (term) DO UPDATE SET
				definition = excluded.definition,
				review_count = excluded.review_count,
				ease_factor = excluded.ease_factor,
				interval_days = excluded.interval_days,
				next_review = excluded.next_review,
				mastered = excluded.mastered,
				last_review = excluded.last_review,
				updated_at = excluded.updated_at`),
			word.Term, word.Definition, word.ReviewCount, word.EaseFactor, word.IntervalDays,
			formatTimePtr(word.NextReview), boolToInt(word.Mastered), formatTimePtr(word.LastReview),
			formatTime(word.CreatedAt), formatTime(word.UpdatedAt))
		if err != nil {
			return fmt.Errorf("upsert word %q: %w", word.Term, err)
		}
		return nil
	})
}

func (r *wordRepository) ClearAll(ctx context.Context) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM review_history`); err != nil {
			return fmt.Errorf("clear review history: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM words`); err != nil {
			return fmt.Errorf("clear words: %w", err)
		}
		if _, err := tx.ExecContext(ctx, r.rebind(setIndexQuery), "0"); err != nil {
			return fmt.Errorf("reset current index: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.logger.Info("word library cleared")
	return nil
}

func (r *wordRepository) Statistics(ctx context.Context) (*entity.Statistics, error) {
	today := dateOnly(r.clock())
	stats := &entity.Statistics{}

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.Total, `SELECT COUNT(*) FROM words`, nil},
		{&stats.NewCount, `SELECT COUNT(*) FROM words WHERE review_count = 0`, nil},
		{&stats.DueCount, `SELECT COUNT(*) FROM words
			WHERE next_review IS NULL OR substr(next_review, 1, 10) <= ?`, []any{today}},
		{&stats.MasteredCount, `SELECT COUNT(*) FROM words WHERE mastered = 1`, nil},
		{&stats.TotalMastered, `SELECT COUNT(*) FROM words
			WHERE mastered = 1 OR (next_review IS NOT NULL AND substr(next_review, 1, 10) > ?)`, []any{today}},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, r.rebind(c.query), c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("statistics: %w", err)
		}
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (*entity.Word, error) {
	var (
		word       entity.Word
		nextReview sql.NullString
		lastReview sql.NullString
		mastered   int64
		createdAt  string
		updatedAt  string
	)
	err := row.Scan(&word.ID, &word.Term, &word.Definition, &word.ReviewCount,
		&word.EaseFactor, &word.IntervalDays, &nextReview, &mastered, &lastReview,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	word.Mastered = mastered != 0
	if word.NextReview, err = parseTimePtr(nextReview); err != nil {
		return nil, fmt.Errorf("parse next_review: %w", err)
	}
	if word.LastReview, err = parseTimePtr(lastReview); err != nil {
		return nil, fmt.Errorf("parse last_review: %w", err)
	}
	if word.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if word.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &word, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
