package database

import (
	"context"
	"database/sql"
	"fmt"
)

// id columns differ per driver, the rest of the DDL is shared. Timestamps
// are stored as RFC 3339 text on both drivers so the date comparisons in the
// statistics queries stay portable.
var schemaStatements = map[string][]string{
	"sqlite3": {
		`CREATE TABLE IF NOT EXISTS words (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			term TEXT NOT NULL UNIQUE,
			definition TEXT NOT NULL,
			review_count INTEGER NOT NULL DEFAULT 0,
			ease_factor REAL NOT NULL DEFAULT 2.5,
			interval_days INTEGER NOT NULL DEFAULT 1,
			next_review TEXT,
			mastered INTEGER NOT NULL DEFAULT 0,
			last_review TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS review_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			word_id INTEGER NOT NULL REFERENCES words(id),
			rating INTEGER NOT NULL,
			review_time TEXT NOT NULL
		)`,
	},
	"postgres": {
		`CREATE TABLE IF NOT EXISTS words (
			id BIGSERIAL PRIMARY KEY,
			term TEXT NOT NULL UNIQUE,
			definition TEXT NOT NULL,
			review_count INTEGER NOT NULL DEFAULT 0,
			ease_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
			interval_days INTEGER NOT NULL DEFAULT 1,
			next_review TEXT,
			mastered INTEGER NOT NULL DEFAULT 0,
			last_review TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS review_history (
			id BIGSERIAL PRIMARY KEY,
			word_id BIGINT NOT NULL REFERENCES words(id),
			rating INTEGER NOT NULL,
			review_time TEXT NOT NULL
		)`,
	},
}

var sharedStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_words_term ON words(term)`,
	`CREATE INDEX IF NOT EXISTS idx_words_next_review ON words(next_review)`,
	`CREATE INDEX IF NOT EXISTS idx_words_mastered ON words(mastered)`,
	`CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`INSERT INTO app_state (key, value) VALUES ('current_index', '0')
		ON CONFLICT (key) DO NOTHING`,
}

// Migrate creates the schema when missing and seeds the session position.
// Safe to run on every startup.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts, ok := schemaStatements[driver]
	if !ok {
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	for _, stmt := range append(append([]string{}, stmts...), sharedStatements...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}
