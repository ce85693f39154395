package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/forum-matchmaker/internal/persistence"
)

// CatalogService manages the shared slot and room catalogs. Catalog order is
// significant: the matching engine scans slots and rooms in the order listed
// here.
type CatalogService struct {
	slots       persistence.SlotRepository
	rooms       persistence.RoomRepository
	idGenerator func() string
	now         func() time.Time
}

// NewCatalogService wires dependencies for the catalog service.
func NewCatalogService(slots persistence.SlotRepository, rooms persistence.RoomRepository, idGenerator func() string, now func() time.Time) *CatalogService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CatalogService{slots: slots, rooms: rooms, idGenerator: idGenerator, now: now}
}

// CreateSlot appends a slot to the catalog. Administrators only.
func (s *CatalogService) CreateSlot(ctx context.Context, principal Principal, input CreateSlotInput) (persistence.Slot, error) {
	if s == nil {
		return persistence.Slot{}, fmt.Errorf("CatalogService is nil")
	}
	if principal.Role != persistence.RoleAdmin {
		return persistence.Slot{}, ErrUnauthorized
	}
	if s.slots == nil {
		return persistence.Slot{}, fmt.Errorf("slot repository not configured")
	}

	label := strings.TrimSpace(input.Label)
	vErr := &ValidationError{}
	if label == "" {
		vErr.add("label", "le libellé est obligatoire")
	}
	if vErr.HasErrors() {
		return persistence.Slot{}, vErr
	}

	existing, err := s.slots.ListSlots(ctx)
	if err != nil {
		return persistence.Slot{}, err
	}

	slot := persistence.Slot{
		ID:        s.idGenerator(),
		Label:     label,
		StartTime: input.StartTime.Format(time.RFC3339),
		Position:  len(existing) + 1,
	}
	if err := s.slots.CreateSlot(ctx, slot); err != nil {
		return persistence.Slot{}, err
	}
	return slot, nil
}

// ListSlots returns the slot catalog in scan order.
func (s *CatalogService) ListSlots(ctx context.Context) ([]persistence.Slot, error) {
	if s == nil || s.slots == nil {
		return nil, fmt.Errorf("slot repository not configured")
	}
	return s.slots.ListSlots(ctx)
}

// CreateRoom appends a room to the catalog. Administrators only.
func (s *CatalogService) CreateRoom(ctx context.Context, principal Principal, input CreateRoomInput) (persistence.Room, error) {
	if s == nil {
		return persistence.Room{}, fmt.Errorf("CatalogService is nil")
	}
	if principal.Role != persistence.RoleAdmin {
		return persistence.Room{}, ErrUnauthorized
	}
	if s.rooms == nil {
		return persistence.Room{}, fmt.Errorf("room repository not configured")
	}

	name := strings.TrimSpace(input.Name)
	vErr := &ValidationError{}
	if name == "" {
		vErr.add("name", "le nom est obligatoire")
	}
	if input.Capacity < 0 {
		vErr.add("capacity", "la capacité doit être positive")
	}
	if vErr.HasErrors() {
		return persistence.Room{}, vErr
	}

	now := s.now()
	room := persistence.Room{
		ID:        s.idGenerator(),
		Name:      name,
		Capacity:  input.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.rooms.CreateRoom(ctx, room); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return persistence.Room{}, ErrAlreadyExists
		}
		return persistence.Room{}, err
	}

	// The store assigns the tail position; re-read so callers see it.
	persisted, err := s.rooms.GetRoom(ctx, room.ID)
	if err != nil {
		return room, nil
	}
	return persisted, nil
}

// ListRooms returns the room catalog in scan order.
func (s *CatalogService) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("room repository not configured")
	}
	return s.rooms.ListRooms(ctx)
}

// DeleteRoom removes a room from the catalog. Unknown ids are ignored.
func (s *CatalogService) DeleteRoom(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("CatalogService is nil")
	}
	if principal.Role != persistence.RoleAdmin {
		return ErrUnauthorized
	}
	if s.rooms == nil {
		return fmt.Errorf("room repository not configured")
	}

	if err := s.rooms.DeleteRoom(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}
