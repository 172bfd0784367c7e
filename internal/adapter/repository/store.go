// Package repository implements the persistence interfaces on top of
// database/sql. Queries are written once with ? placeholders and rebound for
// postgres; timestamps are stored as RFC 3339 text so date-only comparisons
// behave identically on sqlite3 and postgres.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const timeLayout = time.RFC3339Nano

// Store bundles the shared database handle, driver name and logger for the
// concrete repositories.
type Store struct {
	db     *sql.DB
	driver string
	logger *logrus.Logger
	clock  func() time.Time
}

// NewStore wraps an opened database handle. driver must match the name the
// handle was opened with ("sqlite3" or "postgres").
func NewStore(db *sql.DB, driver string, logger *logrus.Logger) *Store {
	return &Store{db: db, driver: driver, logger: logger, clock: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

// rebind converts ? placeholders into $n for postgres. sqlite3 takes the
// query as written.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// withTx runs fn inside a transaction, guaranteeing rollback on error and on
// panic. Write failures are never swallowed: the original error is returned
// to the caller after rollback.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.WithError(rbErr).Error("rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func formatTimePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func parseTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dateOnly renders the date part used for due comparisons (time of day is
// ignored there).
func dateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}
