package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eslsoft/wordcard/internal/entity"
)

// In-memory repository fakes mirroring the store contracts, for exercising
// the usecases without a database.

type fakeWordRepo struct {
	mu    sync.RWMutex
	seq   int64
	items map[int64]*entity.Word

	listCalls int
	now       func() time.Time
}

func newFakeWordRepo() *fakeWordRepo {
	return &fakeWordRepo{
		items: make(map[int64]*entity.Word),
		now:   time.Now,
	}
}

func cloneWord(w *entity.Word) *entity.Word {
	copy := *w
	if w.NextReview != nil {
		t := *w.NextReview
		copy.NextReview = &t
	}
	if w.LastReview != nil {
		t := *w.LastReview
		copy.LastReview = &t
	}
	return &copy
}

func (r *fakeWordRepo) findByTermLocked(term string) *entity.Word {
	for _, item := range r.items {
		if item.Term == term {
			return item
		}
	}
	return nil
}

func (r *fakeWordRepo) Create(ctx context.Context, term, definition string) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findByTermLocked(term) != nil {
		return nil, nil
	}
	r.seq++
	word := entity.NewWord(term, definition, r.now())
	word.ID = r.seq
	r.items[word.ID] = word
	return cloneWord(word), nil
}

func (r *fakeWordRepo) BatchCreate(ctx context.Context, pairs []entity.WordPair, batchSize int) (int, error) {
	added := 0
	for _, pair := range pairs {
		word, err := r.Create(ctx, pair.Term, pair.Definition)
		if err != nil {
			return added, err
		}
		if word != nil {
			added++
		}
	}
	return added, nil
}

func (r *fakeWordRepo) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

func (r *fakeWordRepo) List(ctx context.Context) ([]*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.listCalls++
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()
	words := make([]*entity.Word, 0, len(r.items))
	for _, item := range r.items {
		words = append(words, cloneWord(item))
	}
	sort.Slice(words, func(i, j int) bool { return words[i].ID < words[j].ID })
	return words, nil
}

func (r *fakeWordRepo) GetByID(ctx context.Context, id int64) (*entity.Word, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if item, ok := r.items[id]; ok {
		return cloneWord(item), nil
	}
	return nil, nil
}

func (r *fakeWordRepo) FindByTerm(ctx context.Context, term string) (*entity.Word, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if item := r.findByTermLocked(term); item != nil {
		return cloneWord(item), nil
	}
	return nil, nil
}

func (r *fakeWordRepo) Update(ctx context.Context, id int64, patch entity.WordPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return entity.ErrWordNotFound
	}
	if patch.Term != nil {
		item.Term = *patch.Term
	}
	if patch.Definition != nil {
		item.Definition = *patch.Definition
	}
	if patch.ReviewCount != nil {
		item.ReviewCount = *patch.ReviewCount
	}
	if patch.EaseFactor != nil {
		item.EaseFactor = *patch.EaseFactor
	}
	if patch.IntervalDays != nil {
		item.IntervalDays = *patch.IntervalDays
	}
	if patch.NextReview != nil {
		t := *patch.NextReview
		item.NextReview = &t
	}
	if patch.Mastered != nil {
		item.Mastered = *patch.Mastered
	}
	if patch.LastReview != nil {
		t := *patch.LastReview
		item.LastReview = &t
	}
	item.UpdatedAt = r.now()
	return nil
}

func (r *fakeWordRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return entity.ErrWordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeWordRepo) UpsertLegacy(ctx context.Context, word *entity.Word) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing := r.findByTermLocked(word.Term); existing != nil {
		copy := cloneWord(word)
		copy.ID = existing.ID
		r.items[existing.ID] = copy
		return nil
	}
	r.seq++
	copy := cloneWord(word)
	copy.ID = r.seq
	r.items[copy.ID] = copy
	return nil
}

func (r *fakeWordRepo) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[int64]*entity.Word)
	return nil
}

func (r *fakeWordRepo) Statistics(ctx context.Context) (*entity.Statistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	today := r.now().Format("2006-01-02")
	stats := &entity.Statistics{}
	for _, w := range r.items {
		stats.Total++
		if w.ReviewCount == 0 {
			stats.NewCount++
		}
		if w.NextReview == nil || w.NextReview.Format("2006-01-02") <= today {
			stats.DueCount++
		}
		if w.Mastered {
			stats.MasteredCount++
		}
		if w.Mastered || (w.NextReview != nil && w.NextReview.Format("2006-01-02") > today) {
			stats.TotalMastered++
		}
	}
	return stats, nil
}

type fakeReviewRepo struct {
	mu     sync.Mutex
	seq    int64
	events []entity.ReviewEvent
	words  *fakeWordRepo
}

func newFakeReviewRepo(words *fakeWordRepo) *fakeReviewRepo {
	return &fakeReviewRepo{words: words}
}

func (r *fakeReviewRepo) Append(ctx context.Context, event *entity.ReviewEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	stored := *event
	stored.ID = r.seq
	r.events = append(r.events, stored)
	return nil
}

func (r *fakeReviewRepo) Recent(ctx context.Context, limit int) ([]*entity.ReviewLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []*entity.ReviewLogEntry
	for i := len(r.events) - 1; i >= 0 && len(entries) < limit; i-- {
		event := r.events[i]
		entry := &entity.ReviewLogEntry{ReviewEvent: event}
		if word, _ := r.words.GetByID(ctx, event.WordID); word != nil {
			entry.Term = word.Term
			entry.Definition = word.Definition
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	index    int
	setCalls int
}

func (r *fakeSessionRepo) CurrentIndex(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index, nil
}

func (r *fakeSessionRepo) SetCurrentIndex(ctx context.Context, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.index = index
	r.setCalls++
	return nil
}
