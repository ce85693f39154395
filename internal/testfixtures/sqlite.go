package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/forum-matchmaker/internal/persistence"
	"github.com/example/forum-matchmaker/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Participants persistence.ParticipantRepository
	Slots        persistence.SlotRepository
	Rooms        persistence.RoomRepository
	Availability persistence.AvailabilityRepository
	Preferences  persistence.PreferenceRepository
	Meetings     persistence.MeetingRepository
	Requests     persistence.RequestRepository
	Sessions     persistence.SessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness over a temporary file that is
// migrated automatically. A cleanup callback is registered with the provided
// testing.TB, so calling Close is optional.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "matchmaker.db")

	store, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open store: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		tb.Fatalf("failed to migrate store: %v", err)
	}

	harness := &SQLiteHarness{
		Participants: store,
		Slots:        store,
		Rooms:        store,
		Availability: store,
		Preferences:  store,
		Meetings:     store,
		Requests:     store,
		Sessions:     store,
		cleanup: func() {
			_ = store.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
