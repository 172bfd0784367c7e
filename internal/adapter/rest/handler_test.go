package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/wordcard/internal/entity"
)

type stubReader struct {
	words   []*entity.Word
	stats   *entity.Statistics
	history []*entity.ReviewLogEntry
	current *entity.Word
	err     error

	historyLimit int
}

func (s *stubReader) List(ctx context.Context) ([]*entity.Word, error) {
	return s.words, s.err
}

func (s *stubReader) Statistics(ctx context.Context) (*entity.Statistics, error) {
	return s.stats, s.err
}

func (s *stubReader) History(ctx context.Context, limit int) ([]*entity.ReviewLogEntry, error) {
	s.historyLimit = limit
	if limit < len(s.history) {
		return s.history[:limit], s.err
	}
	return s.history, s.err
}

func (s *stubReader) Current(ctx context.Context) (*entity.Word, error) {
	return s.current, s.err
}

func newTestHandler(stub *stubReader) http.Handler {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewHandler(stub, stub, logger, 20).Routes()
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGetStatistics(t *testing.T) {
	stub := &stubReader{stats: &entity.Statistics{Total: 10, NewCount: 2, DueCount: 3, MasteredCount: 1, TotalMastered: 4}}
	rec := get(t, newTestHandler(stub), "/api/v1/statistics")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["total"] != 10 || body["due_count"] != 3 || body["total_mastered"] != 4 {
		t.Fatalf("body = %v", body)
	}
}

func TestListWords(t *testing.T) {
	next := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	stub := &stubReader{words: []*entity.Word{
		{ID: 1, Term: "run", Definition: "to move fast", EaseFactor: 2.5, IntervalDays: 1, NextReview: &next},
		{ID: 2, Term: "walk", Definition: "to move slowly", EaseFactor: 2.5, IntervalDays: 1},
	}}
	rec := get(t, newTestHandler(stub), "/api/v1/words")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 2 || body[0]["term"] != "run" || body[1]["term"] != "walk" {
		t.Fatalf("body = %v", body)
	}
	if _, ok := body[1]["next_review"]; ok {
		t.Fatal("nil next_review must be omitted")
	}
}

func TestGetCurrentWord(t *testing.T) {
	stub := &stubReader{current: &entity.Word{ID: 7, Term: "run", Definition: "to move fast"}}
	rec := get(t, newTestHandler(stub), "/api/v1/words/current")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["term"] != "run" {
		t.Fatalf("body = %v", body)
	}
}

func TestGetCurrentWordEmptyLibrary(t *testing.T) {
	rec := get(t, newTestHandler(&stubReader{}), "/api/v1/words/current")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListHistoryLimit(t *testing.T) {
	stub := &stubReader{history: []*entity.ReviewLogEntry{
		{ReviewEvent: entity.ReviewEvent{ID: 3, WordID: 1, Rating: entity.RatingMastered}, Term: "run"},
		{ReviewEvent: entity.ReviewEvent{ID: 2, WordID: 1, Rating: entity.RatingForgot}, Term: "run"},
		{ReviewEvent: entity.ReviewEvent{ID: 1, WordID: 2, Rating: entity.RatingMastered}, Term: "walk"},
	}}
	handler := newTestHandler(stub)

	rec := get(t, handler, "/api/v1/history?limit=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if stub.historyLimit != 2 {
		t.Fatalf("limit passed through = %d", stub.historyLimit)
	}
	var body []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body) != 2 || body[0]["rating"] != "mastered" {
		t.Fatalf("body = %v", body)
	}

	rec = get(t, handler, "/api/v1/history?limit=zero")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: status = %d", rec.Code)
	}

	rec = get(t, handler, "/api/v1/history")
	if stub.historyLimit != 20 {
		t.Fatalf("default limit = %d, want 20", stub.historyLimit)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStoreErrorMapsTo500(t *testing.T) {
	stub := &stubReader{err: errors.New("disk gone")}
	rec := get(t, newTestHandler(stub), "/api/v1/words")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
