package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/wordcard/internal/entity"
)

// WordReader is the slice of the word usecase the read surface needs.
type WordReader interface {
	List(ctx context.Context) ([]*entity.Word, error)
	Statistics(ctx context.Context) (*entity.Statistics, error)
	History(ctx context.Context, limit int) ([]*entity.ReviewLogEntry, error)
}

// SessionReader exposes the current card position.
type SessionReader interface {
	Current(ctx context.Context) (*entity.Word, error)
}

// Handler serves the read-only JSON API over the word library.
type Handler struct {
	words        WordReader
	session      SessionReader
	logger       *logrus.Logger
	historyLimit int
}

func NewHandler(words WordReader, session SessionReader, logger *logrus.Logger, historyLimit int) *Handler {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	return &Handler{
		words:        words,
		session:      session,
		logger:       logger,
		historyLimit: historyLimit,
	}
}

// Routes registers all endpoints on a fresh mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/statistics", h.getStatistics)
	mux.HandleFunc("GET /api/v1/words", h.listWords)
	mux.HandleFunc("GET /api/v1/words/current", h.getCurrentWord)
	mux.HandleFunc("GET /api/v1/history", h.listHistory)
	return mux
}

type wordDTO struct {
	ID           int64      `json:"id"`
	Term         string     `json:"term"`
	Definition   string     `json:"definition"`
	ReviewCount  int32      `json:"review_count"`
	EaseFactor   float64    `json:"ease_factor"`
	IntervalDays int32      `json:"interval_days"`
	NextReview   *time.Time `json:"next_review,omitempty"`
	Mastered     bool       `json:"mastered"`
	LastReview   *time.Time `json:"last_review,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type statisticsDTO struct {
	Total         int64 `json:"total"`
	NewCount      int64 `json:"new_count"`
	DueCount      int64 `json:"due_count"`
	MasteredCount int64 `json:"mastered_count"`
	TotalMastered int64 `json:"total_mastered"`
}

type historyEntryDTO struct {
	ID         int64     `json:"id"`
	WordID     int64     `json:"word_id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	Rating     string    `json:"rating"`
	ReviewTime time.Time `json:"review_time"`
}

type errorDTO struct {
	Error string `json:"error"`
}

func toWordDTO(w *entity.Word) wordDTO {
	return wordDTO{
		ID:           w.ID,
		Term:         w.Term,
		Definition:   w.Definition,
		ReviewCount:  w.ReviewCount,
		EaseFactor:   w.EaseFactor,
		IntervalDays: w.IntervalDays,
		NextReview:   w.NextReview,
		Mastered:     w.Mastered,
		LastReview:   w.LastReview,
		CreatedAt:    w.CreatedAt,
	}
}

func (h *Handler) getStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.words.Statistics(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, statisticsDTO{
		Total:         stats.Total,
		NewCount:      stats.NewCount,
		DueCount:      stats.DueCount,
		MasteredCount: stats.MasteredCount,
		TotalMastered: stats.TotalMastered,
	})
}

func (h *Handler) listWords(w http.ResponseWriter, r *http.Request) {
	words, err := h.words.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := lo.Map(words, func(word *entity.Word, _ int) wordDTO {
		return toWordDTO(word)
	})
	h.writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) getCurrentWord(w http.ResponseWriter, r *http.Request) {
	word, err := h.session.Current(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if word == nil {
		h.writeJSON(w, http.StatusNotFound, errorDTO{Error: "no current word"})
		return
	}
	h.writeJSON(w, http.StatusOK, toWordDTO(word))
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	limit := h.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeJSON(w, http.StatusBadRequest, errorDTO{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	entries, err := h.words.History(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := lo.Map(entries, func(entry *entity.ReviewLogEntry, _ int) historyEntryDTO {
		return historyEntryDTO{
			ID:         entry.ID,
			WordID:     entry.WordID,
			Term:       entry.Term,
			Definition: entry.Definition,
			Rating:     entry.Rating.String(),
			ReviewTime: entry.ReviewTime,
		}
	})
	h.writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Warn("failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	h.logger.WithError(err).Error("request failed")
	h.writeJSON(w, http.StatusInternalServerError, errorDTO{Error: "internal error"})
}
