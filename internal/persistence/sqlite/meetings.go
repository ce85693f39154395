package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/forum-matchmaker/internal/persistence"
)

// ReplaceMeetings swaps the entire meeting ledger for the supplied set in a
// single transaction.
func (s *Store) ReplaceMeetings(ctx context.Context, meetings []persistence.Meeting) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM meetings"); err != nil {
			return mapError(err)
		}

		const query = `
			INSERT INTO meetings (id, requester_id, target_id, slot_id, room_id, locked, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		for _, meeting := range meetings {
			_, err := tx.Exec(query,
				meeting.ID,
				meeting.RequesterID,
				meeting.TargetID,
				meeting.SlotID,
				meeting.RoomID,
				boolToInt(meeting.Locked),
				string(meeting.Status),
				formatTime(meeting.CreatedAt),
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// GetMeeting retrieves a meeting by id.
func (s *Store) GetMeeting(ctx context.Context, id string) (persistence.Meeting, error) {
	const query = `
		SELECT id, requester_id, target_id, slot_id, room_id, locked, status, created_at
		FROM meetings
		WHERE id = ?
	`
	return scanMeeting(s.db.QueryRowContext(ctx, query, id))
}

// ListMeetings returns the full meeting ledger ordered by creation time.
func (s *Store) ListMeetings(ctx context.Context) ([]persistence.Meeting, error) {
	const query = `
		SELECT id, requester_id, target_id, slot_id, room_id, locked, status, created_at
		FROM meetings
		ORDER BY created_at ASC, id ASC
	`
	return s.queryMeetings(ctx, query)
}

// ListLockedMeetings returns only the locked subset of the ledger, the seed
// for each matching run.
func (s *Store) ListLockedMeetings(ctx context.Context) ([]persistence.Meeting, error) {
	const query = `
		SELECT id, requester_id, target_id, slot_id, room_id, locked, status, created_at
		FROM meetings
		WHERE locked = 1
		ORDER BY created_at ASC, id ASC
	`
	return s.queryMeetings(ctx, query)
}

// LockMeeting pins the meeting to the given room and marks it locked.
func (s *Store) LockMeeting(ctx context.Context, id, roomID string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE meetings SET room_id = ?, locked = 1 WHERE id = ?",
		roomID, id,
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

// SetMeetingStatus overwrites the meeting status.
func (s *Store) SetMeetingStatus(ctx context.Context, id string, status persistence.MeetingStatus) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE meetings SET status = ? WHERE id = ?",
		string(status), id,
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

// CountConfirmedLocked counts the participant's meetings that are locked,
// have a room assigned, and are not cancelled.
func (s *Store) CountConfirmedLocked(ctx context.Context, participantID string) (int, error) {
	const query = `
		SELECT COUNT(1)
		FROM meetings
		WHERE (requester_id = ? OR target_id = ?)
		  AND locked = 1
		  AND room_id != ''
		  AND status != 'cancelled'
	`
	var count int
	if err := s.db.QueryRowContext(ctx, query, participantID, participantID).Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// DeleteAllMeetings clears the meeting ledger.
func (s *Store) DeleteAllMeetings(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM meetings")
	return mapError(err)
}

func (s *Store) queryMeetings(ctx context.Context, query string, args ...any) ([]persistence.Meeting, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var meetings []persistence.Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return meetings, nil
}

func scanMeeting(row rowScanner) (persistence.Meeting, error) {
	var meeting persistence.Meeting
	var locked int
	var status, createdAt string

	err := row.Scan(
		&meeting.ID,
		&meeting.RequesterID,
		&meeting.TargetID,
		&meeting.SlotID,
		&meeting.RoomID,
		&locked,
		&status,
		&createdAt,
	)
	if err != nil {
		return persistence.Meeting{}, mapError(err)
	}

	meeting.Locked = locked != 0
	meeting.Status = persistence.MeetingStatus(status)
	if meeting.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Meeting{}, err
	}
	return meeting, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
