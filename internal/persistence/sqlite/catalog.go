package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/forum-matchmaker/internal/persistence"
)

// CreateSlot stores a slot catalog entry.
func (s *Store) CreateSlot(ctx context.Context, slot persistence.Slot) error {
	const query = `
		INSERT INTO slots (id, label, start_time, position)
		VALUES (?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, slot.ID, slot.Label, slot.StartTime, slot.Position)
	return mapError(err)
}

// ListSlots returns the slot catalog in catalog order.
func (s *Store) ListSlots(ctx context.Context) ([]persistence.Slot, error) {
	const query = `
		SELECT id, label, start_time, position
		FROM slots
		ORDER BY position ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var slots []persistence.Slot
	for rows.Next() {
		var slot persistence.Slot
		if err := rows.Scan(&slot.ID, &slot.Label, &slot.StartTime, &slot.Position); err != nil {
			return nil, mapError(err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return slots, nil
}

// CreateRoom stores a room. When the position is zero the room is appended to
// the end of the catalog order.
func (s *Store) CreateRoom(ctx context.Context, room persistence.Room) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		position := room.Position
		if position == 0 {
			if err := tx.QueryRow("SELECT COALESCE(MAX(position), 0) + 1 FROM rooms").Scan(&position); err != nil {
				return mapError(err)
			}
		}

		const query = `
			INSERT INTO rooms (id, name, capacity, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		_, err := tx.Exec(query,
			room.ID,
			room.Name,
			room.Capacity,
			position,
			formatTime(room.CreatedAt),
			formatTime(room.UpdatedAt),
		)
		return mapError(err)
	})
}

// GetRoom retrieves a room by id.
func (s *Store) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	const query = `
		SELECT id, name, capacity, position, created_at, updated_at
		FROM rooms
		WHERE id = ?
	`
	return scanRoom(s.db.QueryRowContext(ctx, query, id))
}

// ListRooms returns all rooms in catalog order.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	const query = `
		SELECT id, name, capacity, position, created_at, updated_at
		FROM rooms
		ORDER BY position ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return rooms, nil
}

// DeleteRoom removes a room from the catalog. Meetings already assigned to
// the room are untouched; the next matching run reflects the removal.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
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

func scanRoom(row rowScanner) (persistence.Room, error) {
	var room persistence.Room
	var createdAt, updatedAt string

	err := row.Scan(&room.ID, &room.Name, &room.Capacity, &room.Position, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Room{}, mapError(err)
	}

	if room.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Room{}, err
	}
	if room.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Room{}, err
	}
	return room, nil
}
