package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/forum-matchmaker/internal/persistence"
)

// CreateParticipant stores a new participant.
func (s *Store) CreateParticipant(ctx context.Context, participant persistence.Participant) error {
	const query = `
		INSERT INTO participants (id, name, company, role, avatar_url, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		participant.ID,
		participant.Name,
		participant.Company,
		string(participant.Role),
		participant.AvatarURL,
		participant.PasswordHash,
		formatTime(participant.CreatedAt),
		formatTime(participant.UpdatedAt),
	)
	return mapError(err)
}

// GetParticipant retrieves a participant by id.
func (s *Store) GetParticipant(ctx context.Context, id string) (persistence.Participant, error) {
	const query = `
		SELECT id, name, company, role, avatar_url, password_hash, created_at, updated_at
		FROM participants
		WHERE id = ?
	`
	return scanParticipant(s.db.QueryRowContext(ctx, query, id))
}

// ListParticipants returns all participants ordered by creation time.
func (s *Store) ListParticipants(ctx context.Context) ([]persistence.Participant, error) {
	const query = `
		SELECT id, name, company, role, avatar_url, password_hash, created_at, updated_at
		FROM participants
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var participants []persistence.Participant
	for rows.Next() {
		participant, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, participant)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return participants, nil
}

// DeleteParticipant removes a participant along with their availability
// entries and preferences. Meetings and requests referencing the participant
// are retained as history.
func (s *Store) DeleteParticipant(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM participants WHERE id = ?", id)
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

		if _, err := tx.Exec("DELETE FROM availability WHERE participant_id = ?", id); err != nil {
			return mapError(err)
		}
		if _, err := tx.Exec("DELETE FROM preferences WHERE requester_id = ? OR target_id = ?", id, id); err != nil {
			return mapError(err)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row rowScanner) (persistence.Participant, error) {
	var participant persistence.Participant
	var role, createdAt, updatedAt string

	err := row.Scan(
		&participant.ID,
		&participant.Name,
		&participant.Company,
		&role,
		&participant.AvatarURL,
		&participant.PasswordHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Participant{}, mapError(err)
	}

	participant.Role = persistence.Role(role)
	if participant.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Participant{}, err
	}
	if participant.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Participant{}, err
	}
	return participant, nil
}
