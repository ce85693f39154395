package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/forum-matchmaker/internal/persistence"
)

// CreateRequests stores a batch of meeting requests atomically. A fan-out
// creation writes one record per target in a single transaction.
func (s *Store) CreateRequests(ctx context.Context, requests []persistence.MeetingRequest) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		const query = `
			INSERT INTO meeting_requests (id, requester_id, target_id, start_time, end_time, status, room_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		for _, request := range requests {
			_, err := tx.Exec(query,
				request.ID,
				request.RequesterID,
				request.TargetID,
				formatTime(request.Start),
				formatTime(request.End),
				string(request.Status),
				nullableString(request.RoomID),
				formatTime(request.CreatedAt),
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// GetRequest retrieves a meeting request by id.
func (s *Store) GetRequest(ctx context.Context, id string) (persistence.MeetingRequest, error) {
	const query = `
		SELECT id, requester_id, target_id, start_time, end_time, status, room_id, created_at
		FROM meeting_requests
		WHERE id = ?
	`
	return scanRequest(s.db.QueryRowContext(ctx, query, id))
}

// ListRequests returns the full request ledger ordered by creation time.
func (s *Store) ListRequests(ctx context.Context) ([]persistence.MeetingRequest, error) {
	const query = `
		SELECT id, requester_id, target_id, start_time, end_time, status, room_id, created_at
		FROM meeting_requests
		ORDER BY created_at ASC, id ASC
	`
	return s.queryRequests(ctx, query)
}

// ListRequestsForParticipant returns requests where the participant is either
// side of the pairing.
func (s *Store) ListRequestsForParticipant(ctx context.Context, participantID string) ([]persistence.MeetingRequest, error) {
	const query = `
		SELECT id, requester_id, target_id, start_time, end_time, status, room_id, created_at
		FROM meeting_requests
		WHERE requester_id = ? OR target_id = ?
		ORDER BY created_at ASC, id ASC
	`
	return s.queryRequests(ctx, query, participantID, participantID)
}

// SetRequestStatus overwrites the request status unconditionally.
func (s *Store) SetRequestStatus(ctx context.Context, id string, status persistence.RequestStatus) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE meeting_requests SET status = ? WHERE id = ?",
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

// SetRequestRoom assigns a room to the request, independent of its status.
func (s *Store) SetRequestRoom(ctx context.Context, id, roomID string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE meeting_requests SET room_id = ? WHERE id = ?",
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

// CountPendingForTarget counts pending requests addressed to the participant.
func (s *Store) CountPendingForTarget(ctx context.Context, participantID string) (int, error) {
	const query = `
		SELECT COUNT(1)
		FROM meeting_requests
		WHERE target_id = ? AND status = 'pending'
	`
	var count int
	if err := s.db.QueryRowContext(ctx, query, participantID).Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// CountConfirmedWithRoom counts the participant's confirmed requests that
// have a room assigned. A confirmed request without a room does not count.
func (s *Store) CountConfirmedWithRoom(ctx context.Context, participantID string) (int, error) {
	const query = `
		SELECT COUNT(1)
		FROM meeting_requests
		WHERE (requester_id = ? OR target_id = ?)
		  AND status = 'confirmed'
		  AND room_id IS NOT NULL
		  AND room_id != ''
	`
	var count int
	if err := s.db.QueryRowContext(ctx, query, participantID, participantID).Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// DeleteAllRequests clears the request ledger.
func (s *Store) DeleteAllRequests(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM meeting_requests")
	return mapError(err)
}

func (s *Store) queryRequests(ctx context.Context, query string, args ...any) ([]persistence.MeetingRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var requests []persistence.MeetingRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return requests, nil
}

func scanRequest(row rowScanner) (persistence.MeetingRequest, error) {
	var request persistence.MeetingRequest
	var start, end, status, createdAt string
	var roomID sql.NullString

	err := row.Scan(
		&request.ID,
		&request.RequesterID,
		&request.TargetID,
		&start,
		&end,
		&status,
		&roomID,
		&createdAt,
	)
	if err != nil {
		return persistence.MeetingRequest{}, mapError(err)
	}

	request.Status = persistence.RequestStatus(status)
	if roomID.Valid {
		request.RoomID = &roomID.String
	}
	if request.Start, err = parseTime(start); err != nil {
		return persistence.MeetingRequest{}, err
	}
	if request.End, err = parseTime(end); err != nil {
		return persistence.MeetingRequest{}, err
	}
	if request.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.MeetingRequest{}, err
	}
	return request, nil
}
