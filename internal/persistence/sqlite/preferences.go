package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/forum-matchmaker/internal/persistence"
)

// CreatePreference stores a ranked preference and assigns its creation
// sequence. A duplicate (requester, target) pair yields ErrDuplicate.
func (s *Store) CreatePreference(ctx context.Context, preference persistence.Preference) (persistence.Preference, error) {
	const query = `
		INSERT INTO preferences (requester_id, target_id, priority)
		VALUES (?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		preference.RequesterID,
		preference.TargetID,
		preference.Priority,
	)
	if err != nil {
		return persistence.Preference{}, mapError(err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return persistence.Preference{}, err
	}
	preference.Seq = seq
	return preference, nil
}

// DeletePreference removes the preference for the (requester, target) pair.
// Remaining priorities are left untouched; only reordering renumbers them.
func (s *Store) DeletePreference(ctx context.Context, requesterID, targetID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM preferences WHERE requester_id = ? AND target_id = ?",
		requesterID, targetID,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListPreferencesForRequester returns one requester's preferences ordered by
// priority, then creation sequence.
func (s *Store) ListPreferencesForRequester(ctx context.Context, requesterID string) ([]persistence.Preference, error) {
	const query = `
		SELECT requester_id, target_id, priority, seq
		FROM preferences
		WHERE requester_id = ?
		ORDER BY priority ASC, seq ASC
	`
	return s.queryPreferences(ctx, query, requesterID)
}

// ListPreferences returns every preference ordered by priority, then creation
// sequence, the exact order the matching engine consumes.
func (s *Store) ListPreferences(ctx context.Context) ([]persistence.Preference, error) {
	const query = `
		SELECT requester_id, target_id, priority, seq
		FROM preferences
		ORDER BY priority ASC, seq ASC
	`
	return s.queryPreferences(ctx, query)
}

// ReorderPreferences renumbers the requester's preferences densely: the
// target at index i receives priority i+1. Targets absent from the list keep
// their stored priority.
func (s *Store) ReorderPreferences(ctx context.Context, requesterID string, orderedTargets []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for index, targetID := range orderedTargets {
			_, err := tx.Exec(
				"UPDATE preferences SET priority = ? WHERE requester_id = ? AND target_id = ?",
				index+1, requesterID, targetID,
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

func (s *Store) queryPreferences(ctx context.Context, query string, args ...any) ([]persistence.Preference, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var preferences []persistence.Preference
	for rows.Next() {
		var preference persistence.Preference
		if err := rows.Scan(
			&preference.RequesterID,
			&preference.TargetID,
			&preference.Priority,
			&preference.Seq,
		); err != nil {
			return nil, mapError(err)
		}
		preferences = append(preferences, preference)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return preferences, nil
}
