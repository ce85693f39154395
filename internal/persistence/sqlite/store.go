// Package sqlite implements the persistence repositories on top of a
// CGO-free SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/forum-matchmaker/internal/persistence"
	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

// Store provides all repository implementations backed by a single SQLite
// database handle. One Store satisfies every interface declared in the
// persistence package.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database identified by dsn and enables foreign
// key enforcement. Use Migrate to create the schema before first use.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "file:matchmaker.db"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", dsn, err)
	}

	// modernc's driver serializes statements per connection; a single
	// connection avoids SQLITE_BUSY on concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS participants (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	company       TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('requester', 'target', 'admin')),
	avatar_url    TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS slots (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	start_time TEXT NOT NULL,
	position   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rooms (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	capacity   INTEGER NOT NULL DEFAULT 1,
	position   INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS availability (
	participant_id TEXT NOT NULL,
	slot_id        TEXT NOT NULL,
	PRIMARY KEY (participant_id, slot_id)
);

CREATE TABLE IF NOT EXISTS preferences (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	requester_id TEXT NOT NULL,
	target_id    TEXT NOT NULL,
	priority     INTEGER NOT NULL,
	UNIQUE (requester_id, target_id)
);

CREATE TABLE IF NOT EXISTS meetings (
	id           TEXT PRIMARY KEY,
	requester_id TEXT NOT NULL,
	target_id    TEXT NOT NULL,
	slot_id      TEXT NOT NULL,
	room_id      TEXT NOT NULL,
	locked       INTEGER NOT NULL DEFAULT 0,
	status       TEXT NOT NULL DEFAULT 'confirmed',
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meeting_requests (
	id           TEXT PRIMARY KEY,
	requester_id TEXT NOT NULL,
	target_id    TEXT NOT NULL,
	start_time   TEXT NOT NULL,
	end_time     TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	room_id      TEXT,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	id             TEXT PRIMARY KEY,
	participant_id TEXT NOT NULL,
	token          TEXT NOT NULL UNIQUE,
	expires_at     TEXT NOT NULL,
	created_at     TEXT NOT NULL,
	revoked_at     TEXT
);
`

// Migrate creates the schema when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back on error or panic.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit transaction: %w", err)
	}

	return nil
}

// mapError translates driver errors into persistence sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return persistence.ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return persistence.ErrDuplicate
	}
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse timestamp %q: %w", value, err)
	}
	return t, nil
}

func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
