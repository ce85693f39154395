package persistence

import "time"

// Role classifies a participant within the forum. The enumeration is closed
// and a participant's role never changes after creation.
type Role string

const (
	// RoleRequester may rank preferences and initiate direct meeting requests.
	RoleRequester Role = "requester"
	// RoleTarget is the object of preferences and direct requests.
	RoleTarget Role = "target"
	// RoleAdmin administers the catalog and confirms meetings.
	RoleAdmin Role = "admin"
)

// Participant represents a person attending the forum.
type Participant struct {
	ID           string
	Name         string
	Company      string
	Role         Role
	AvatarURL    string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Slot is a catalog-defined time window shared by all participants. Position
// preserves catalog order, which drives first-fit scanning in the matcher.
type Slot struct {
	ID        string
	Label     string
	StartTime string
	Position  int
}

// Room is a physical location holding one meeting per slot. Capacity is
// informational only.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailabilityEntry marks a participant busy during a slot. Absence of an
// entry means available.
type AvailabilityEntry struct {
	ParticipantID string
	SlotID        string
}

// Preference is a requester's ranked interest in a target. Priority 1 is the
// highest. Seq is assigned by the store in creation order and serves as the
// stable tie-break when priorities collide.
type Preference struct {
	RequesterID string
	TargetID    string
	Priority    int
	Seq         int64
}

// MeetingStatus is the lifecycle state of an algorithmic meeting.
type MeetingStatus string

const (
	MeetingConfirmed MeetingStatus = "confirmed"
	MeetingCancelled MeetingStatus = "cancelled"
)

// Meeting is a pairing produced by the matching engine. Locked meetings are
// pinned to their slot and room and survive regeneration.
type Meeting struct {
	ID          string
	RequesterID string
	TargetID    string
	SlotID      string
	RoomID      string
	Locked      bool
	Status      MeetingStatus
	CreatedAt   time.Time
}

// RequestStatus is the lifecycle state of a direct meeting request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestConfirmed RequestStatus = "confirmed"
	RequestRejected  RequestStatus = "rejected"
	RequestCancelled RequestStatus = "cancelled"
)

// KnownRequestStatus reports whether the value belongs to the closed status
// domain. Status transitions themselves are not validated; see the scheduling
// service for the documented overwrite semantics.
func KnownRequestStatus(status RequestStatus) bool {
	switch status {
	case RequestPending, RequestConfirmed, RequestRejected, RequestCancelled:
		return true
	}
	return false
}

// MeetingRequest is a manually proposed pairing with explicit wall-clock
// bounds, negotiated outside the matching engine. RoomID is nil until an
// administrator assigns one.
type MeetingRequest struct {
	ID          string
	RequesterID string
	TargetID    string
	Start       time.Time
	End         time.Time
	Status      RequestStatus
	RoomID      *string
	CreatedAt   time.Time
}

// Session represents an authentication session persisted for a participant.
type Session struct {
	ID            string
	ParticipantID string
	Token         string
	ExpiresAt     time.Time
	CreatedAt     time.Time
	RevokedAt     *time.Time
}
