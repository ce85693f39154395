package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/forum-matchmaker/internal/persistence"
)

// ToggleAvailability flips the busy marker for the (participant, slot) pair.
func (s *Store) ToggleAvailability(ctx context.Context, participantID, slotID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			"DELETE FROM availability WHERE participant_id = ? AND slot_id = ?",
			participantID, slotID,
		)
		if err != nil {
			return mapError(err)
		}

		deleted, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if deleted > 0 {
			return nil
		}

		_, err = tx.Exec(
			"INSERT INTO availability (participant_id, slot_id) VALUES (?, ?)",
			participantID, slotID,
		)
		return mapError(err)
	})
}

// IsBusy reports whether the participant marked the slot busy.
func (s *Store) IsBusy(ctx context.Context, participantID, slotID string) (bool, error) {
	const query = `
		SELECT COUNT(1)
		FROM availability
		WHERE participant_id = ? AND slot_id = ?
	`
	var count int
	if err := s.db.QueryRowContext(ctx, query, participantID, slotID).Scan(&count); err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

// ListBusySlots returns the slot ids the participant marked busy.
func (s *Store) ListBusySlots(ctx context.Context, participantID string) ([]string, error) {
	const query = `
		SELECT slot_id
		FROM availability
		WHERE participant_id = ?
		ORDER BY slot_id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, participantID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var slotIDs []string
	for rows.Next() {
		var slotID string
		if err := rows.Scan(&slotID); err != nil {
			return nil, mapError(err)
		}
		slotIDs = append(slotIDs, slotID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return slotIDs, nil
}

// ListAvailability returns the full busy ledger.
func (s *Store) ListAvailability(ctx context.Context) ([]persistence.AvailabilityEntry, error) {
	const query = `
		SELECT participant_id, slot_id
		FROM availability
		ORDER BY participant_id ASC, slot_id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []persistence.AvailabilityEntry
	for rows.Next() {
		var entry persistence.AvailabilityEntry
		if err := rows.Scan(&entry.ParticipantID, &entry.SlotID); err != nil {
			return nil, mapError(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return entries, nil
}
