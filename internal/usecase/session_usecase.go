package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/eslsoft/wordcard/internal/entity"
	"github.com/eslsoft/wordcard/internal/repository"
	"github.com/eslsoft/wordcard/internal/scheduler"
)

// SessionUsecase drives navigation over the ordered word list and
// orchestrates rating. It keeps an invalidatable read-through cache of the
// word list and the current position; the store stays the single source of
// truth and the cache is rebuilt from it on the next read after Invalidate.
type SessionUsecase interface {
	// Words returns the cached ordered word list.
	Words(ctx context.Context) ([]*entity.Word, error)

	// Current returns the word under the cursor, clamping a stale
	// out-of-range position back to the start first. (nil, nil) when the
	// library is empty.
	Current(ctx context.Context) (*entity.Word, error)

	// Next and Prev move the cursor circularly. No-ops on an empty library.
	Next(ctx context.Context) error
	Prev(ctx context.Context) error

	// Rate applies the scheduling transition for the current word, persists
	// the new state, appends one review event and drops the cache. The
	// cursor does not advance; callers re-navigate explicitly.
	Rate(ctx context.Context, rating entity.Rating) (*entity.Word, error)

	// DeleteCurrent removes the word under the cursor and clamps the cursor
	// to the shrunken list.
	DeleteCurrent(ctx context.Context) error

	Invalidate()
}

// NewSessionUsecase wires the session over the given repositories.
func NewSessionUsecase(words repository.WordRepository, reviews repository.ReviewRepository,
	session repository.SessionRepository) SessionUsecase {
	return &sessionUsecase{
		words:   words,
		reviews: reviews,
		session: session,
		clock:   time.Now,
	}
}

type sessionUsecase struct {
	words   repository.WordRepository
	reviews repository.ReviewRepository
	session repository.SessionRepository
	clock   func() time.Time

	mu          sync.Mutex
	cached      []*entity.Word // nil means stale
	index       int
	indexLoaded bool
}

func (s *sessionUsecase) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.indexLoaded = false
}

// cachedWords returns the word list, rehydrating from the store when stale.
// Callers must hold s.mu.
func (s *sessionUsecase) cachedWords(ctx context.Context) ([]*entity.Word, error) {
	if s.cached != nil {
		return s.cached, nil
	}
	words, err := s.words.List(ctx)
	if err != nil {
		return nil, err
	}
	if words == nil {
		words = []*entity.Word{}
	}
	s.cached = words
	return words, nil
}

// currentIndex lazily loads the persisted position. Callers must hold s.mu.
func (s *sessionUsecase) currentIndex(ctx context.Context) (int, error) {
	if s.indexLoaded {
		return s.index, nil
	}
	index, err := s.session.CurrentIndex(ctx)
	if err != nil {
		return 0, err
	}
	s.index = index
	s.indexLoaded = true
	return index, nil
}

// setIndex writes the position through to the store immediately. Callers
// must hold s.mu.
func (s *sessionUsecase) setIndex(ctx context.Context, index int) error {
	if err := s.session.SetCurrentIndex(ctx, index); err != nil {
		return err
	}
	s.index = index
	s.indexLoaded = true
	return nil
}

// current resolves the word under the cursor, clamping first. Callers must
// hold s.mu.
func (s *sessionUsecase) current(ctx context.Context) (*entity.Word, error) {
	words, err := s.cachedWords(ctx)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, nil
	}
	index, err := s.currentIndex(ctx)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(words) {
		index = 0
		if err := s.setIndex(ctx, index); err != nil {
			return nil, err
		}
	}
	return words[index], nil
}

func (s *sessionUsecase) Words(ctx context.Context) ([]*entity.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cachedWords(ctx)
}

func (s *sessionUsecase) Current(ctx context.Context) (*entity.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx)
}

func (s *sessionUsecase) Next(ctx context.Context) error {
	return s.step(ctx, 1)
}

func (s *sessionUsecase) Prev(ctx context.Context) error {
	return s.step(ctx, -1)
}

func (s *sessionUsecase) step(ctx context.Context, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	words, err := s.cachedWords(ctx)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return nil
	}
	index, err := s.currentIndex(ctx)
	if err != nil {
		return err
	}
	index = (index + delta + len(words)) % len(words)
	return s.setIndex(ctx, index)
}

func (s *sessionUsecase) Rate(ctx context.Context, rating entity.Rating) (*entity.Word, error) {
	if !rating.Valid() {
		return nil, entity.ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	word, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	if word == nil || word.ID <= 0 {
		return nil, entity.ErrNoCurrentWord
	}

	now := s.clock()
	result := scheduler.Review(*word, rating, now)
	if err := s.words.Update(ctx, word.ID, result.Patch()); err != nil {
		return nil, err
	}
	// The raw outcome is always logged, whatever the transition did.
	event := &entity.ReviewEvent{WordID: word.ID, Rating: rating, ReviewTime: now}
	if err := s.reviews.Append(ctx, event); err != nil {
		return nil, err
	}

	s.cached = nil
	s.indexLoaded = false

	updated := *word
	updated.ReviewCount = result.ReviewCount
	updated.EaseFactor = result.EaseFactor
	updated.IntervalDays = result.IntervalDays
	updated.Mastered = result.Mastered
	updated.NextReview = &result.NextReview
	updated.LastReview = &result.LastReview
	updated.UpdatedAt = now
	return &updated, nil
}

func (s *sessionUsecase) DeleteCurrent(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	word, err := s.current(ctx)
	if err != nil {
		return err
	}
	if word == nil {
		return nil
	}
	if err := s.words.Delete(ctx, word.ID); err != nil {
		return err
	}
	s.cached = nil
	s.indexLoaded = false

	// Clamp the cursor against the shrunken list.
	words, err := s.cachedWords(ctx)
	if err != nil {
		return err
	}
	index, err := s.currentIndex(ctx)
	if err != nil {
		return err
	}
	if index >= len(words) {
		clamped := len(words) - 1
		if clamped < 0 {
			clamped = 0
		}
		return s.setIndex(ctx, clamped)
	}
	return nil
}
