package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/wordcard/internal/entity"
	"github.com/eslsoft/wordcard/internal/repository"
)

// Invalidator is notified after every mutation of word data so derived
// caches can be dropped. The session manager is the one implementation.
type Invalidator interface {
	Invalidate()
}

// WordUsecase encapsulates business logic for managing the word library.
type WordUsecase interface {
	Add(ctx context.Context, term, definition string) (*entity.Word, error)
	Get(ctx context.Context, id int64) (*entity.Word, error)
	List(ctx context.Context) ([]*entity.Word, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id int64, patch entity.WordPatch) error
	Delete(ctx context.Context, id int64) error

	// Import batch-inserts pairs after case-insensitive de-duplication
	// against the store and within the batch itself. Returns how many rows
	// were added and how many were skipped as duplicates or blanks.
	Import(ctx context.Context, pairs []entity.WordPair, batchSize int) (added, skipped int, err error)

	ClearAll(ctx context.Context) error
	Statistics(ctx context.Context) (*entity.Statistics, error)
	History(ctx context.Context, limit int) ([]*entity.ReviewLogEntry, error)

	// DueWords lists unmastered words whose next review time has passed.
	DueWords(ctx context.Context) ([]*entity.Word, error)
	// NewWords lists words that were never rated.
	NewWords(ctx context.Context) ([]*entity.Word, error)
}

// NewWordUsecase wires the repositories with default behaviour. invalidator
// may be nil when no session cache exists (pure CLI batch paths).
func NewWordUsecase(words repository.WordRepository, reviews repository.ReviewRepository,
	logger *logrus.Logger, invalidator Invalidator) WordUsecase {
	return &wordUsecase{
		words:       words,
		reviews:     reviews,
		logger:      logger,
		invalidator: invalidator,
		clock:       time.Now,
	}
}

type wordUsecase struct {
	words       repository.WordRepository
	reviews     repository.ReviewRepository
	logger      *logrus.Logger
	invalidator Invalidator
	clock       func() time.Time
}

func (u *wordUsecase) invalidate() {
	if u.invalidator != nil {
		u.invalidator.Invalidate()
	}
}

func (u *wordUsecase) Add(ctx context.Context, term, definition string) (*entity.Word, error) {
	term = strings.TrimSpace(term)
	definition = strings.TrimSpace(definition)
	if term == "" || definition == "" {
		return nil, entity.ErrInvalidWordText
	}

	word, err := u.words.Create(ctx, term, definition)
	if err != nil {
		return nil, err
	}
	if word == nil {
		return nil, entity.ErrDuplicateWord
	}
	u.invalidate()
	return word, nil
}

func (u *wordUsecase) Get(ctx context.Context, id int64) (*entity.Word, error) {
	if id <= 0 {
		return nil, entity.ErrInvalidWordID
	}
	return u.words.GetByID(ctx, id)
}

func (u *wordUsecase) List(ctx context.Context) ([]*entity.Word, error) {
	return u.words.List(ctx)
}

func (u *wordUsecase) Count(ctx context.Context) (int64, error) {
	return u.words.Count(ctx)
}

func (u *wordUsecase) Update(ctx context.Context, id int64, patch entity.WordPatch) error {
	if id <= 0 {
		return entity.ErrInvalidWordID
	}
	if patch.IsZero() {
		return entity.ErrEmptyPatch
	}
	if patch.Term != nil && strings.TrimSpace(*patch.Term) == "" {
		return entity.ErrInvalidWordText
	}
	if err := u.words.Update(ctx, id, patch); err != nil {
		return err
	}
	u.invalidate()
	return nil
}

func (u *wordUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return entity.ErrInvalidWordID
	}
	if err := u.words.Delete(ctx, id); err != nil {
		return err
	}
	u.invalidate()
	return nil
}

func (u *wordUsecase) Import(ctx context.Context, pairs []entity.WordPair, batchSize int) (int, int, error) {
	existing, err := u.words.List(ctx)
	if err != nil {
		return 0, 0, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, w := range existing {
		seen[entity.NormalizeTerm(w.Term)] = struct{}{}
	}

	fresh := make([]entity.WordPair, 0, len(pairs))
	for _, pair := range pairs {
		term := strings.TrimSpace(pair.Term)
		definition := strings.TrimSpace(pair.Definition)
		if term == "" || definition == "" {
			continue
		}
		key := entity.NormalizeTerm(term)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, entity.WordPair{Term: term, Definition: definition})
	}

	added, err := u.words.BatchCreate(ctx, fresh, batchSize)
	if err != nil {
		return added, len(pairs) - added, err
	}
	u.invalidate()
	return added, len(pairs) - added, nil
}

func (u *wordUsecase) ClearAll(ctx context.Context) error {
	if err := u.words.ClearAll(ctx); err != nil {
		return err
	}
	u.invalidate()
	return nil
}

func (u *wordUsecase) Statistics(ctx context.Context) (*entity.Statistics, error) {
	return u.words.Statistics(ctx)
}

func (u *wordUsecase) History(ctx context.Context, limit int) ([]*entity.ReviewLogEntry, error) {
	return u.reviews.Recent(ctx, limit)
}

func (u *wordUsecase) DueWords(ctx context.Context) ([]*entity.Word, error) {
	words, err := u.words.List(ctx)
	if err != nil {
		return nil, err
	}
	now := u.clock()
	return lo.Filter(words, func(w *entity.Word, _ int) bool {
		return w.NextReview != nil && !w.NextReview.After(now) && !w.Mastered
	}), nil
}

func (u *wordUsecase) NewWords(ctx context.Context) ([]*entity.Word, error) {
	words, err := u.words.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(words, func(w *entity.Word, _ int) bool {
		return w.ReviewCount == 0
	}), nil
}
