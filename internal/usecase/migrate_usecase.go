package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/wordcard/internal/entity"
	"github.com/eslsoft/wordcard/internal/repository"
)

// MigrateUsecase moves data between the store and the legacy JSON layout:
// a one-time upsert import of the pre-database word file, and the matching
// export so backups keep round-tripping.
type MigrateUsecase interface {
	// Migrate upserts every legacy entry by term, defaulting missing
	// scheduling fields and recovering malformed dates locally. Returns the
	// number of entries written.
	Migrate(ctx context.Context, backup *entity.LegacyBackup) (int, error)

	// Export snapshots the whole library in the legacy layout.
	Export(ctx context.Context) (*entity.LegacyBackup, error)
}

// NewMigrateUsecase wires the migration path. invalidator may be nil.
func NewMigrateUsecase(words repository.WordRepository, session repository.SessionRepository,
	logger *logrus.Logger, invalidator Invalidator) MigrateUsecase {
	return &migrateUsecase{
		words:       words,
		session:     session,
		logger:      logger,
		invalidator: invalidator,
		clock:       time.Now,
	}
}

type migrateUsecase struct {
	words       repository.WordRepository
	session     repository.SessionRepository
	logger      *logrus.Logger
	invalidator Invalidator
	clock       func() time.Time
}

func (u *migrateUsecase) Migrate(ctx context.Context, backup *entity.LegacyBackup) (int, error) {
	if backup == nil || len(backup.Words) == 0 {
		return 0, nil
	}

	now := u.clock()
	migrated := 0
	for _, legacy := range backup.Words {
		word := u.legacyToWord(legacy, now)
		if word == nil {
			continue
		}
		if err := u.words.UpsertLegacy(ctx, word); err != nil {
			return migrated, err
		}
		migrated++
	}

	if err := u.session.SetCurrentIndex(ctx, backup.CurrentIndex); err != nil {
		return migrated, err
	}
	if u.invalidator != nil {
		u.invalidator.Invalidate()
	}
	u.logger.Infof("migrated %d words from legacy backup", migrated)
	return migrated, nil
}

// legacyToWord fills in defaults for missing scheduling fields. Unparsable
// next_review strings become "now" (due immediately) and unparsable
// last_review strings are dropped; legacy data availability beats strict
// fidelity here.
func (u *migrateUsecase) legacyToWord(legacy entity.LegacyWord, now time.Time) *entity.Word {
	term := strings.TrimSpace(legacy.Word)
	if term == "" {
		return nil
	}

	word := entity.NewWord(term, strings.TrimSpace(legacy.Meaning), now)
	if legacy.ReviewCount != nil {
		word.ReviewCount = *legacy.ReviewCount
	}
	if legacy.EaseFactor != nil {
		word.EaseFactor = *legacy.EaseFactor
	}
	if legacy.Interval != nil {
		word.IntervalDays = *legacy.Interval
	}
	if legacy.Mastered != nil {
		word.Mastered = *legacy.Mastered
	}

	next := now
	if legacy.NextReview != "" {
		if parsed, err := dateparse.ParseAny(legacy.NextReview); err == nil {
			next = parsed
		} else {
			u.logger.WithField("term", term).Warnf("unparsable next_review %q, using now", legacy.NextReview)
		}
	}
	word.NextReview = &next

	word.LastReview = nil
	if legacy.LastReview != "" {
		if parsed, err := dateparse.ParseAny(legacy.LastReview); err == nil {
			word.LastReview = &parsed
		} else {
			u.logger.WithField("term", term).Warnf("unparsable last_review %q, dropping", legacy.LastReview)
		}
	}
	return word
}

func (u *migrateUsecase) Export(ctx context.Context) (*entity.LegacyBackup, error) {
	words, err := u.words.List(ctx)
	if err != nil {
		return nil, err
	}
	index, err := u.session.CurrentIndex(ctx)
	if err != nil {
		return nil, err
	}

	backup := &entity.LegacyBackup{
		CurrentIndex: index,
		Words: lo.Map(words, func(w *entity.Word, _ int) entity.LegacyWord {
			legacy := entity.LegacyWord{
				Word:        w.Term,
				Meaning:     w.Definition,
				ReviewCount: &w.ReviewCount,
				EaseFactor:  &w.EaseFactor,
				Interval:    &w.IntervalDays,
				Mastered:    &w.Mastered,
			}
			if w.NextReview != nil {
				legacy.NextReview = w.NextReview.Format(time.RFC3339Nano)
			}
			if w.LastReview != nil {
				legacy.LastReview = w.LastReview.Format(time.RFC3339Nano)
			}
			return legacy
		}),
	}
	return backup, nil
}
