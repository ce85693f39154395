package application

import (
	"time"

	"github.com/example/forum-matchmaker/internal/persistence"
)

// Principal identifies the authenticated caller of a service operation.
type Principal struct {
	ParticipantID string
	Role          persistence.Role
}

// CancelKind selects which ledger a cancellation targets.
type CancelKind string

const (
	CancelKindMeeting CancelKind = "meeting"
	CancelKindRequest CancelKind = "request"
)

// ConflictWarning is advisory: the operation that produced it has already
// been applied. Callers surface warnings to the administrator.
type ConflictWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AuthenticateInput carries login credentials.
type AuthenticateInput struct {
	ParticipantID string
	Password      string
}

// AuthResult is returned on successful login.
type AuthResult struct {
	Participant persistence.Participant
	Token       string
	ExpiresAt   time.Time
}

// CreateParticipantInput carries the fields for registering a participant.
type CreateParticipantInput struct {
	Name      string
	Company   string
	Role      persistence.Role
	AvatarURL string
	Password  string
}

// CreateSlotInput describes a time slot to append to the catalog.
type CreateSlotInput struct {
	Label     string
	StartTime time.Time
}

// CreateRoomInput describes a room to append to the catalog.
type CreateRoomInput struct {
	Name     string
	Capacity int
}

// CreateRequestInput fans out one direct meeting request per target.
type CreateRequestInput struct {
	RequesterID string
	TargetIDs   []string
	Start       time.Time
	End         time.Time
}
