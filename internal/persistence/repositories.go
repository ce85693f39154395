package persistence

import (
	"context"
	"time"
)

// ParticipantRepository exposes catalog operations for participants.
type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, participant Participant) error
	GetParticipant(ctx context.Context, id string) (Participant, error)
	ListParticipants(ctx context.Context) ([]Participant, error)
	DeleteParticipant(ctx context.Context, id string) error
}

// SlotRepository exposes the shared slot catalog. Slots are seeded once and
// listed in catalog order.
type SlotRepository interface {
	CreateSlot(ctx context.Context, slot Slot) error
	ListSlots(ctx context.Context) ([]Slot, error)
}

// RoomRepository exposes catalog operations for rooms. ListRooms returns
// rooms in catalog order.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// AvailabilityRepository stores the per-participant busy-slot ledger.
type AvailabilityRepository interface {
	// ToggleAvailability flips membership of the slot in the participant's
	// busy set. Unknown slot ids are stored as opaque identifiers.
	ToggleAvailability(ctx context.Context, participantID, slotID string) error
	IsBusy(ctx context.Context, participantID, slotID string) (bool, error)
	ListBusySlots(ctx context.Context, participantID string) ([]string, error)
	ListAvailability(ctx context.Context) ([]AvailabilityEntry, error)
}

// PreferenceRepository stores ranked preferences. Listings are ordered by
// ascending priority with the creation sequence breaking ties.
type PreferenceRepository interface {
	// CreatePreference stores the preference and assigns its Seq. A duplicate
	// (requester, target) pair yields ErrDuplicate.
	CreatePreference(ctx context.Context, preference Preference) (Preference, error)
	DeletePreference(ctx context.Context, requesterID, targetID string) error
	ListPreferencesForRequester(ctx context.Context, requesterID string) ([]Preference, error)
	ListPreferences(ctx context.Context) ([]Preference, error)
	// ReorderPreferences renumbers the requester's preferences densely: the
	// target at index i receives priority i+1.
	ReorderPreferences(ctx context.Context, requesterID string, orderedTargets []string) error
}

// MeetingRepository stores the algorithmic meeting ledger.
type MeetingRepository interface {
	// ReplaceMeetings swaps the entire ledger for the supplied set in one
	// transaction. Matching runs regenerate the ledger wholesale.
	ReplaceMeetings(ctx context.Context, meetings []Meeting) error
	GetMeeting(ctx context.Context, id string) (Meeting, error)
	ListMeetings(ctx context.Context) ([]Meeting, error)
	ListLockedMeetings(ctx context.Context) ([]Meeting, error)
	// LockMeeting pins the meeting to the given room and marks it locked.
	LockMeeting(ctx context.Context, id, roomID string) error
	SetMeetingStatus(ctx context.Context, id string, status MeetingStatus) error
	CountConfirmedLocked(ctx context.Context, participantID string) (int, error)
	DeleteAllMeetings(ctx context.Context) error
}

// RequestRepository stores the direct meeting-request ledger.
type RequestRepository interface {
	CreateRequests(ctx context.Context, requests []MeetingRequest) error
	GetRequest(ctx context.Context, id string) (MeetingRequest, error)
	ListRequests(ctx context.Context) ([]MeetingRequest, error)
	ListRequestsForParticipant(ctx context.Context, participantID string) ([]MeetingRequest, error)
	SetRequestStatus(ctx context.Context, id string, status RequestStatus) error
	SetRequestRoom(ctx context.Context, id, roomID string) error
	CountPendingForTarget(ctx context.Context, participantID string) (int, error)
	CountConfirmedWithRoom(ctx context.Context, participantID string) (int, error)
	DeleteAllRequests(ctx context.Context) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSessionByToken(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
