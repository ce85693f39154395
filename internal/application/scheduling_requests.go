package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/forum-matchmaker/internal/persistence"
)

// CreateRequests fans a direct meeting request out to each target: one
// pending record per (requester, target) pair, all sharing the submitted time
// window. Returns the created records.
func (s *SchedulingService) CreateRequests(ctx context.Context, input CreateRequestInput) ([]persistence.MeetingRequest, error) {
	if s == nil || s.requests == nil {
		return nil, fmt.Errorf("request repository not configured")
	}

	vErr := &ValidationError{}
	if input.RequesterID == "" {
		vErr.add("requesterId", "l'identifiant du demandeur est obligatoire")
	}
	if len(input.TargetIDs) == 0 {
		vErr.add("targetIds", "au moins un destinataire est requis")
	}
	if input.Start.IsZero() || input.End.IsZero() {
		vErr.add("period", "la période est obligatoire")
	} else if !input.End.After(input.Start) {
		vErr.add("period", "la fin doit être postérieure au début")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	requests := make([]persistence.MeetingRequest, 0, len(input.TargetIDs))
	for _, targetID := range input.TargetIDs {
		if targetID == "" {
			continue
		}
		requests = append(requests, persistence.MeetingRequest{
			ID:          s.idGenerator(),
			RequesterID: input.RequesterID,
			TargetID:    targetID,
			Start:       input.Start,
			End:         input.End,
			Status:      persistence.RequestPending,
			CreatedAt:   now,
		})
	}
	if len(requests) == 0 {
		vErr.add("targetIds", "au moins un destinataire est requis")
		return nil, vErr
	}

	if err := s.requests.CreateRequests(ctx, requests); err != nil {
		return nil, err
	}

	s.loggerWith(ctx, "CreateRequests",
		"requester_id", input.RequesterID,
		"targets", len(requests),
	).InfoContext(ctx, "meeting requests created")
	return requests, nil
}

// SetRequestStatus overwrites a request's status. Any known status may
// replace any other; the history of prior transitions is not kept. Unknown
// request ids are ignored, unknown status values are rejected.
func (s *SchedulingService) SetRequestStatus(ctx context.Context, id string, status persistence.RequestStatus) error {
	if s == nil || s.requests == nil {
		return fmt.Errorf("request repository not configured")
	}
	if !persistence.KnownRequestStatus(status) {
		vErr := &ValidationError{}
		vErr.add("status", "le statut est invalide")
		return vErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requests.SetRequestStatus(ctx, id, status); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// AssignRequestRoom records a room on a request. The assignment always
// applies; when another confirmed request already holds the room over an
// overlapping window the returned warnings flag the clash for the
// administrator.
func (s *SchedulingService) AssignRequestRoom(ctx context.Context, principal Principal, requestID, roomID string) ([]ConflictWarning, error) {
	if s == nil || s.requests == nil {
		return nil, fmt.Errorf("request repository not configured")
	}
	if principal.Role != persistence.RoleAdmin {
		return nil, ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	request, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := s.requests.SetRequestRoom(ctx, requestID, roomID); err != nil {
		return nil, err
	}

	all, err := s.requests.ListRequests(ctx)
	if err != nil {
		return nil, err
	}

	var warnings []ConflictWarning
	for _, other := range all {
		if other.ID == request.ID || other.Status != persistence.RequestConfirmed {
			continue
		}
		if other.RoomID == nil || *other.RoomID != roomID {
			continue
		}
		if other.Start.Before(request.End) && request.Start.Before(other.End) {
			warnings = append(warnings, ConflictWarning{
				Code:    "room_overlap",
				Message: fmt.Sprintf("la salle est déjà occupée par la demande %s sur ce créneau", other.ID),
			})
		}
	}
	return warnings, nil
}

// ListRequests returns the whole request ledger.
func (s *SchedulingService) ListRequests(ctx context.Context) ([]persistence.MeetingRequest, error) {
	if s == nil || s.requests == nil {
		return nil, fmt.Errorf("request repository not configured")
	}
	return s.requests.ListRequests(ctx)
}

// ListRequestsForParticipant returns requests where the participant appears
// on either side.
func (s *SchedulingService) ListRequestsForParticipant(ctx context.Context, participantID string) ([]persistence.MeetingRequest, error) {
	if s == nil || s.requests == nil {
		return nil, fmt.Errorf("request repository not configured")
	}
	return s.requests.ListRequestsForParticipant(ctx, participantID)
}

// PendingCount is the number of pending requests addressed to the
// participant. The requester side is not counted.
func (s *SchedulingService) PendingCount(ctx context.Context, participantID string) (int, error) {
	if s == nil || s.requests == nil {
		return 0, fmt.Errorf("request repository not configured")
	}
	return s.requests.CountPendingForTarget(ctx, participantID)
}

// ConfirmedCount is the participant's number of settled meetings: locked,
// room-assigned, not-cancelled meetings plus confirmed requests that have a
// room. Unlocked meetings and roomless confirmations are excluded.
func (s *SchedulingService) ConfirmedCount(ctx context.Context, participantID string) (int, error) {
	if s == nil || s.meetings == nil || s.requests == nil {
		return 0, fmt.Errorf("scheduling repositories not configured")
	}

	fromMeetings, err := s.meetings.CountConfirmedLocked(ctx, participantID)
	if err != nil {
		return 0, err
	}
	fromRequests, err := s.requests.CountConfirmedWithRoom(ctx, participantID)
	if err != nil {
		return 0, err
	}
	return fromMeetings + fromRequests, nil
}
