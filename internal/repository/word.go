package repository

import (
	"context"

	"github.com/eslsoft/wordcard/internal/entity"
)

// WordRepository defines durable access to the word library. Implementations
// wrap every mutating call in a transaction that commits or rolls back as a
// whole; read misses are reported as (nil, nil), never as errors.
type WordRepository interface {
	// Create inserts a new word with default scheduling state. When a word
	// with identical term already exists nothing is inserted and (nil, nil)
	// is returned.
	Create(ctx context.Context, term, definition string) (*entity.Word, error)

	// BatchCreate inserts many pairs, skipping duplicates by the term
	// uniqueness constraint and committing every batchSize rows. It returns
	// the number of rows actually inserted. Individual row failures are
	// logged and skipped.
	BatchCreate(ctx context.Context, pairs []entity.WordPair, batchSize int) (int, error)

	// Count returns the number of words without materialising them.
	Count(ctx context.Context) (int64, error)

	// List returns every word ordered by id ascending. Callers must treat
	// this as expensive and cache the result.
	List(ctx context.Context) ([]*entity.Word, error)

	GetByID(ctx context.Context, id int64) (*entity.Word, error)

	// FindByTerm looks a word up by exact term text.
	FindByTerm(ctx context.Context, term string) (*entity.Word, error)

	// Update applies a partial patch and refreshes updated_at.
	Update(ctx context.Context, id int64, patch entity.WordPatch) error

	// Delete removes the word and its review events in one transaction,
	// events first.
	Delete(ctx context.Context, id int64) error

	// UpsertLegacy inserts or replaces a fully populated word by term. Used
	// only by the one-time legacy migration path.
	UpsertLegacy(ctx context.Context, word *entity.Word) error

	// ClearAll deletes all review events and words and resets the session
	// position to zero.
	ClearAll(ctx context.Context) error

	Statistics(ctx context.Context) (*entity.Statistics, error)
}
