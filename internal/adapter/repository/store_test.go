package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/wordcard/internal/entity"
	"github.com/eslsoft/wordcard/internal/infrastructure/database"
	"github.com/eslsoft/wordcard/internal/repository"
)

var storeNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	words   repository.WordRepository
	reviews repository.ReviewRepository
	session repository.SessionRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(context.Background(), db, "sqlite3"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	store := NewStore(db, "sqlite3", logger).WithClock(func() time.Time { return storeNow })
	return &fixture{
		words:   NewWordRepository(store),
		reviews: NewReviewRepository(store),
		session: NewSessionRepository(store),
	}
}

func TestCreateWordIsDueImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	word, err := f.words.Create(ctx, "run", "to move fast")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if word == nil || word.ID == 0 {
		t.Fatalf("create returned %+v", word)
	}
	if word.NextReview == nil || !word.NextReview.Before(storeNow) {
		t.Fatalf("next_review = %v, want before now", word.NextReview)
	}

	stored, err := f.words.GetByID(ctx, word.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Term != "run" || stored.Definition != "to move fast" {
		t.Fatalf("stored = %+v", stored)
	}
	if stored.ReviewCount != 0 || stored.EaseFactor != 2.5 || stored.IntervalDays != 1 || stored.Mastered {
		t.Fatalf("defaults not persisted: %+v", stored)
	}
	if stored.LastReview != nil {
		t.Fatalf("last_review = %v, want nil before first rating", stored.LastReview)
	}

	stats, err := f.words.Statistics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.DueCount != 1 {
		t.Fatalf("new word not counted as due: %+v", stats)
	}
}

func TestCreateDuplicateReturnsNil(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.words.Create(ctx, "run", "to move fast"); err != nil {
		t.Fatal(err)
	}
	dup, err := f.words.Create(ctx, "run", "other meaning")
	if err != nil {
		t.Fatalf("duplicate create must not error, got %v", err)
	}
	if dup != nil {
		t.Fatalf("duplicate create = %+v, want nil", dup)
	}

	count, _ := f.words.Count(ctx)
	if count != 1 {
		t.Fatalf("count = %d", count)
	}
}

func TestBatchCreateSkipsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pairs := []entity.WordPair{
		{Term: "run", Definition: "to move fast"},
		{Term: "walk", Definition: "to move slowly"},
		{Term: "jump", Definition: "to leap"},
	}
	added, err := f.words.BatchCreate(ctx, pairs, 2)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if added != 3 {
		t.Fatalf("added = %d, want 3", added)
	}

	// Second run inserts nothing.
	added, err = f.words.BatchCreate(ctx, pairs, 2)
	if err != nil {
		t.Fatal(err)
	}
	if added != 0 {
		t.Fatalf("second run added = %d, want 0", added)
	}

	words, err := f.words.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 3 {
		t.Fatalf("list = %d words", len(words))
	}
	for i := 1; i < len(words); i++ {
		if words[i].ID <= words[i-1].ID {
			t.Fatal("list not ordered by id")
		}
	}
}

func TestUpdateAppliesPatchAndRefreshesUpdatedAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	word, err := f.words.Create(ctx, "run", "to move fast")
	if err != nil {
		t.Fatal(err)
	}

	count := int32(3)
	ease := 2.35
	interval := int32(7)
	next := storeNow.AddDate(0, 0, 7)
	mastered := false
	last := storeNow
	patch := entity.WordPatch{
		ReviewCount:  &count,
		EaseFactor:   &ease,
		IntervalDays: &interval,
		NextReview:   &next,
		Mastered:     &mastered,
		LastReview:   &last,
	}
	if err := f.words.Update(ctx, word.ID, patch); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, _ := f.words.GetByID(ctx, word.ID)
	if stored.ReviewCount != 3 || stored.EaseFactor != 2.35 || stored.IntervalDays != 7 {
		t.Fatalf("patch not applied: %+v", stored)
	}
	if stored.NextReview == nil || !stored.NextReview.Equal(next) {
		t.Fatalf("next_review = %v, want %v", stored.NextReview, next)
	}
	if stored.LastReview == nil || !stored.LastReview.Equal(last) {
		t.Fatalf("last_review = %v", stored.LastReview)
	}
	if !stored.UpdatedAt.Equal(storeNow) {
		t.Fatalf("updated_at = %v, want refreshed", stored.UpdatedAt)
	}

	// Term and definition untouched by a scheduling patch.
	if stored.Term != "run" || stored.Definition != "to move fast" {
		t.Fatalf("text fields changed: %+v", stored)
	}

	if err := f.words.Update(ctx, 999, patch); err != entity.ErrWordNotFound {
		t.Fatalf("update missing word: err = %v", err)
	}
}

func TestDeleteCascadesToReviewHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	word, err := f.words.Create(ctx, "run", "to move fast")
	if err != nil {
		t.Fatal(err)
	}
	keep, err := f.words.Create(ctx, "walk", "to move slowly")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []int64{word.ID, keep.ID} {
		err := f.reviews.Append(ctx, &entity.ReviewEvent{WordID: id, Rating: entity.RatingMastered, ReviewTime: storeNow})
		if err != nil {
			t.Fatal(err)
		}
	}

	if err := f.words.Delete(ctx, word.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	gone, err := f.words.GetByID(ctx, word.ID)
	if err != nil || gone != nil {
		t.Fatalf("deleted word still present: (%+v, %v)", gone, err)
	}
	entries, err := f.reviews.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].WordID != keep.ID {
		t.Fatalf("history after cascade = %+v", entries)
	}

	if err := f.words.Delete(ctx, word.ID); err != entity.ErrWordNotFound {
		t.Fatalf("double delete: err = %v", err)
	}
}

func TestReviewHistoryMostRecentFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	word, err := f.words.Create(ctx, "run", "to move fast")
	if err != nil {
		t.Fatal(err)
	}
	ratings := []entity.Rating{entity.RatingForgot, entity.RatingMastered, entity.RatingForgot}
	for i, rating := range ratings {
		err := f.reviews.Append(ctx, &entity.ReviewEvent{
			WordID:     word.ID,
			Rating:     rating,
			ReviewTime: storeNow.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	entries, err := f.reviews.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("limit ignored: %d entries", len(entries))
	}
	if entries[0].Rating != entity.RatingForgot || entries[1].Rating != entity.RatingMastered {
		t.Fatalf("order wrong: %+v", entries)
	}
	if entries[0].Term != "run" || entries[0].Definition != "to move fast" {
		t.Fatalf("join missing: %+v", entries[0])
	}
}

func TestStatisticsBuckets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// new: default due-yesterday state.
	if _, err := f.words.Create(ctx, "new", "definition"); err != nil {
		t.Fatal(err)
	}

	seed := func(term string, reviewCount int32, next time.Time, mastered bool) {
		t.Helper()
		word, err := f.words.Create(ctx, term, "definition")
		if err != nil {
			t.Fatal(err)
		}
		patch := entity.WordPatch{ReviewCount: &reviewCount, NextReview: &next, Mastered: &mastered}
		if err := f.words.Update(ctx, word.ID, patch); err != nil {
			t.Fatal(err)
		}
	}
	seed("due", 2, storeNow.AddDate(0, 0, -3), false)
	seed("today", 1, storeNow, false) // due: date-only comparison includes today
	seed("future", 3, storeNow.AddDate(0, 0, 10), false)
	seed("done", 6, storeNow.AddDate(0, 0, 60), true)

	stats, err := f.words.Statistics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 5 {
		t.Fatalf("total = %d", stats.Total)
	}
	if stats.NewCount != 1 {
		t.Fatalf("new = %d", stats.NewCount)
	}
	if stats.DueCount != 3 { // new, due, today
		t.Fatalf("due = %d, want 3", stats.DueCount)
	}
	if stats.MasteredCount != 1 {
		t.Fatalf("mastered = %d", stats.MasteredCount)
	}
	if stats.TotalMastered != 2 { // future, done
		t.Fatalf("totalMastered = %d, want 2", stats.TotalMastered)
	}
	if stats.MasteredCount > stats.TotalMastered {
		t.Fatal("mastered must be a subset of totalMastered")
	}
}

func TestCurrentIndexPersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	index, err := f.session.CurrentIndex(ctx)
	if err != nil || index != 0 {
		t.Fatalf("initial index = (%d, %v)", index, err)
	}
	if err := f.session.SetCurrentIndex(ctx, 42); err != nil {
		t.Fatal(err)
	}
	index, err = f.session.CurrentIndex(ctx)
	if err != nil || index != 42 {
		t.Fatalf("index = (%d, %v), want 42", index, err)
	}
}

func TestClearAllResetsEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	word, err := f.words.Create(ctx, "run", "to move fast")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.reviews.Append(ctx, &entity.ReviewEvent{WordID: word.ID, Rating: entity.RatingForgot, ReviewTime: storeNow}); err != nil {
		t.Fatal(err)
	}
	if err := f.session.SetCurrentIndex(ctx, 5); err != nil {
		t.Fatal(err)
	}

	if err := f.words.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	count, _ := f.words.Count(ctx)
	if count != 0 {
		t.Fatalf("count = %d", count)
	}
	entries, _ := f.reviews.Recent(ctx, 10)
	if len(entries) != 0 {
		t.Fatalf("history survived clear: %+v", entries)
	}
	index, _ := f.session.CurrentIndex(ctx)
	if index != 0 {
		t.Fatalf("index = %d, want reset to 0", index)
	}
}

func TestUpsertLegacyReplacesByTerm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.words.Create(ctx, "run", "old meaning"); err != nil {
		t.Fatal(err)
	}

	next := storeNow.AddDate(0, 0, 17)
	last := storeNow.AddDate(0, 0, -17)
	legacy := &entity.Word{
		Term:         "run",
		Definition:   "new meaning",
		ReviewCount:  4,
		EaseFactor:   2.2,
		IntervalDays: 17,
		NextReview:   &next,
		Mastered:     false,
		LastReview:   &last,
		CreatedAt:    storeNow,
		UpdatedAt:    storeNow,
	}
	if err := f.words.UpsertLegacy(ctx, legacy); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	count, _ := f.words.Count(ctx)
	if count != 1 {
		t.Fatalf("count = %d, want replaced not duplicated", count)
	}
	stored, _ := f.words.FindByTerm(ctx, "run")
	if stored.Definition != "new meaning" || stored.ReviewCount != 4 || stored.IntervalDays != 17 {
		t.Fatalf("upsert state = %+v", stored)
	}
	if stored.NextReview == nil || !stored.NextReview.Equal(next) {
		t.Fatalf("next_review = %v", stored.NextReview)
	}
}
