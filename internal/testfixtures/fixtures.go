package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/forum-matchmaker/internal/persistence"
)

var (
	participantCounter uint64
	slotCounter        uint64
	roomCounter        uint64
	meetingCounter     uint64
	requestCounter     uint64
)

var referenceTime = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ------------------------- Participant fixtures -------------------------

// ParticipantOption configures a generated participant fixture.
type ParticipantOption func(*persistence.Participant)

// NewParticipantFixture returns a deterministic participant with optional
// overrides. Fixtures default to the requester role.
func NewParticipantFixture(opts ...ParticipantOption) persistence.Participant {
	idx := atomic.AddUint64(&participantCounter, 1)
	id := fmt.Sprintf("participant-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.Participant{
		ID:           id,
		Name:         fmt.Sprintf("Participant %03d", idx),
		Company:      fmt.Sprintf("Company %03d", idx),
		Role:         persistence.RoleRequester,
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithParticipantID overrides the generated participant id.
func WithParticipantID(id string) ParticipantOption {
	return func(p *persistence.Participant) { p.ID = id }
}

// WithParticipantRole overrides the generated role.
func WithParticipantRole(role persistence.Role) ParticipantOption {
	return func(p *persistence.Participant) { p.Role = role }
}

// WithParticipantName overrides the generated name.
func WithParticipantName(name string) ParticipantOption {
	return func(p *persistence.Participant) { p.Name = name }
}

// WithPasswordHash overrides the generated password hash.
func WithPasswordHash(hash string) ParticipantOption {
	return func(p *persistence.Participant) { p.PasswordHash = hash }
}

// --------------------------- Catalog fixtures ---------------------------

// SlotOption configures a generated slot fixture.
type SlotOption func(*persistence.Slot)

// NewSlotFixture returns a deterministic slot appended at the catalog tail.
func NewSlotFixture(opts ...SlotOption) persistence.Slot {
	idx := atomic.AddUint64(&slotCounter, 1)
	fixture := persistence.Slot{
		ID:        fmt.Sprintf("slot-%03d", idx),
		Label:     fmt.Sprintf("Créneau %03d", idx),
		StartTime: referenceTime.Add(time.Duration(idx) * 30 * time.Minute).Format(time.RFC3339),
		Position:  int(idx),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSlotID overrides the generated slot id.
func WithSlotID(id string) SlotOption {
	return func(s *persistence.Slot) { s.ID = id }
}

// WithSlotPosition overrides the generated catalog position.
func WithSlotPosition(position int) SlotOption {
	return func(s *persistence.Slot) { s.Position = position }
}

// RoomOption configures a generated room fixture.
type RoomOption func(*persistence.Room)

// NewRoomFixture returns a deterministic room appended at the catalog tail.
func NewRoomFixture(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.Room{
		ID:        fmt.Sprintf("room-%03d", idx),
		Name:      fmt.Sprintf("Salle %03d", idx),
		Capacity:  4,
		Position:  int(idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the generated room id.
func WithRoomID(id string) RoomOption {
	return func(r *persistence.Room) { r.ID = id }
}

// WithRoomPosition overrides the generated catalog position.
func WithRoomPosition(position int) RoomOption {
	return func(r *persistence.Room) { r.Position = position }
}

// --------------------------- Meeting fixtures ---------------------------

// MeetingOption configures a generated meeting fixture.
type MeetingOption func(*persistence.Meeting)

// NewMeetingFixture returns a deterministic unlocked confirmed meeting.
func NewMeetingFixture(opts ...MeetingOption) persistence.Meeting {
	idx := atomic.AddUint64(&meetingCounter, 1)
	fixture := persistence.Meeting{
		ID:          fmt.Sprintf("meeting-%03d", idx),
		RequesterID: fmt.Sprintf("participant-%03d", idx),
		TargetID:    fmt.Sprintf("target-%03d", idx),
		SlotID:      fmt.Sprintf("slot-%03d", idx),
		Status:      persistence.MeetingConfirmed,
		CreatedAt:   referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithMeetingID overrides the generated meeting id.
func WithMeetingID(id string) MeetingOption {
	return func(m *persistence.Meeting) { m.ID = id }
}

// WithMeetingPair overrides the requester and target.
func WithMeetingPair(requesterID, targetID string) MeetingOption {
	return func(m *persistence.Meeting) {
		m.RequesterID = requesterID
		m.TargetID = targetID
	}
}

// WithMeetingSlot overrides the slot assignment.
func WithMeetingSlot(slotID string) MeetingOption {
	return func(m *persistence.Meeting) { m.SlotID = slotID }
}

// WithMeetingLocked pins the meeting to a room.
func WithMeetingLocked(roomID string) MeetingOption {
	return func(m *persistence.Meeting) {
		m.RoomID = roomID
		m.Locked = true
	}
}

// WithMeetingStatus overrides the lifecycle status.
func WithMeetingStatus(status persistence.MeetingStatus) MeetingOption {
	return func(m *persistence.Meeting) { m.Status = status }
}

// --------------------------- Request fixtures ---------------------------

// RequestOption configures a generated meeting request fixture.
type RequestOption func(*persistence.MeetingRequest)

// NewRequestFixture returns a deterministic pending request over a one hour
// window.
func NewRequestFixture(opts ...RequestOption) persistence.MeetingRequest {
	idx := atomic.AddUint64(&requestCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := persistence.MeetingRequest{
		ID:          fmt.Sprintf("request-%03d", idx),
		RequesterID: fmt.Sprintf("participant-%03d", idx),
		TargetID:    fmt.Sprintf("target-%03d", idx),
		Start:       start,
		End:         start.Add(time.Hour),
		Status:      persistence.RequestPending,
		CreatedAt:   referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRequestID overrides the generated request id.
func WithRequestID(id string) RequestOption {
	return func(r *persistence.MeetingRequest) { r.ID = id }
}

// WithRequestPair overrides the requester and target.
func WithRequestPair(requesterID, targetID string) RequestOption {
	return func(r *persistence.MeetingRequest) {
		r.RequesterID = requesterID
		r.TargetID = targetID
	}
}

// WithRequestWindow overrides the proposed time window.
func WithRequestWindow(start, end time.Time) RequestOption {
	return func(r *persistence.MeetingRequest) {
		r.Start = start
		r.End = end
	}
}

// WithRequestStatus overrides the lifecycle status.
func WithRequestStatus(status persistence.RequestStatus) RequestOption {
	return func(r *persistence.MeetingRequest) { r.Status = status }
}

// WithRequestRoom assigns a room to the request.
func WithRequestRoom(roomID string) RequestOption {
	return func(r *persistence.MeetingRequest) { r.RoomID = &roomID }
}
