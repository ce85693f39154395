package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/forum-matchmaker/internal/matching"
	"github.com/example/forum-matchmaker/internal/persistence"
)

// SchedulingService owns the scheduling state: availability, ranked
// preferences, the algorithmic meeting ledger, and the direct request
// ledger. All mutations are serialized through a single mutex, so a matching
// run never observes a half-applied change.
type SchedulingService struct {
	mu sync.Mutex

	participants persistence.ParticipantRepository
	slots        persistence.SlotRepository
	rooms        persistence.RoomRepository
	availability persistence.AvailabilityRepository
	preferences  persistence.PreferenceRepository
	meetings     persistence.MeetingRepository
	requests     persistence.RequestRepository

	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// SchedulingRepositories bundles the stores the scheduling service works on.
type SchedulingRepositories struct {
	Participants persistence.ParticipantRepository
	Slots        persistence.SlotRepository
	Rooms        persistence.RoomRepository
	Availability persistence.AvailabilityRepository
	Preferences  persistence.PreferenceRepository
	Meetings     persistence.MeetingRepository
	Requests     persistence.RequestRepository
}

// NewSchedulingService wires dependencies for the scheduling service.
func NewSchedulingService(repos SchedulingRepositories, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SchedulingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SchedulingService{
		participants: repos.Participants,
		slots:        repos.Slots,
		rooms:        repos.Rooms,
		availability: repos.Availability,
		preferences:  repos.Preferences,
		meetings:     repos.Meetings,
		requests:     repos.Requests,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *SchedulingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SchedulingService", operation, attrs...)
}

// ToggleAvailability flips a participant's busy marker for a slot. Slot ids
// are stored as given; they are not checked against the catalog.
func (s *SchedulingService) ToggleAvailability(ctx context.Context, participantID, slotID string) error {
	if s == nil || s.availability == nil {
		return fmt.Errorf("availability repository not configured")
	}
	if participantID == "" || slotID == "" {
		vErr := &ValidationError{}
		if participantID == "" {
			vErr.add("participantId", "l'identifiant du participant est obligatoire")
		}
		if slotID == "" {
			vErr.add("slotId", "l'identifiant du créneau est obligatoire")
		}
		return vErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availability.ToggleAvailability(ctx, participantID, slotID)
}

// BusySlots lists the slot ids a participant has marked unavailable.
func (s *SchedulingService) BusySlots(ctx context.Context, participantID string) ([]string, error) {
	if s == nil || s.availability == nil {
		return nil, fmt.Errorf("availability repository not configured")
	}
	return s.availability.ListBusySlots(ctx, participantID)
}

// AddPreference appends a target at the lowest priority of the requester's
// list. Participants who are not requesters are ignored, as are duplicate
// targets. The assigned priority is one past the current list length, so
// priorities can collide after removals; creation order breaks those ties.
func (s *SchedulingService) AddPreference(ctx context.Context, requesterID, targetID string) error {
	if s == nil || s.preferences == nil {
		return fmt.Errorf("preference repository not configured")
	}
	if requesterID == "" || targetID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.participants != nil {
		participant, err := s.participants.GetParticipant(ctx, requesterID)
		if err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				return nil
			}
			return err
		}
		if participant.Role != persistence.RoleRequester {
			return nil
		}
	}

	existing, err := s.preferences.ListPreferencesForRequester(ctx, requesterID)
	if err != nil {
		return err
	}

	_, err = s.preferences.CreatePreference(ctx, persistence.Preference{
		RequesterID: requesterID,
		TargetID:    targetID,
		Priority:    len(existing) + 1,
	})
	if errors.Is(err, persistence.ErrDuplicate) {
		return nil
	}
	return err
}

// RemovePreference deletes one preference. Remaining priorities keep their
// values, leaving a gap. Unknown pairs are ignored.
func (s *SchedulingService) RemovePreference(ctx context.Context, requesterID, targetID string) error {
	if s == nil || s.preferences == nil {
		return fmt.Errorf("preference repository not configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.preferences.DeletePreference(ctx, requesterID, targetID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// ReorderPreference moves the entry at index from to index to within the
// requester's ordered list and renumbers every priority densely from 1. Out
// of range indexes leave the list untouched.
func (s *SchedulingService) ReorderPreference(ctx context.Context, requesterID string, from, to int) error {
	if s == nil || s.preferences == nil {
		return fmt.Errorf("preference repository not configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.preferences.ListPreferencesForRequester(ctx, requesterID)
	if err != nil {
		return err
	}
	if from < 0 || from >= len(prefs) || to < 0 || to >= len(prefs) || from == to {
		return nil
	}

	ordered := make([]string, 0, len(prefs))
	for _, p := range prefs {
		ordered = append(ordered, p.TargetID)
	}
	moved := ordered[from]
	ordered = append(ordered[:from], ordered[from+1:]...)
	ordered = append(ordered[:to], append([]string{moved}, ordered[to:]...)...)

	return s.preferences.ReorderPreferences(ctx, requesterID, ordered)
}

// ListPreferences returns a requester's list in priority order.
func (s *SchedulingService) ListPreferences(ctx context.Context, requesterID string) ([]persistence.Preference, error) {
	if s == nil || s.preferences == nil {
		return nil, fmt.Errorf("preference repository not configured")
	}
	return s.preferences.ListPreferencesForRequester(ctx, requesterID)
}

// RunMatching regenerates the algorithmic meeting ledger. Locked meetings are
// carried over untouched; every other meeting is discarded and rebuilt from
// the current preferences, availability, and catalogs.
func (s *SchedulingService) RunMatching(ctx context.Context) ([]persistence.Meeting, error) {
	if s == nil || s.meetings == nil {
		return nil, fmt.Errorf("meeting repository not configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.loggerWith(ctx, "RunMatching")

	input, lockedCreatedAt, err := s.collectMatchingInput(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := matching.Run(input, s.idGenerator)

	meetings := make([]persistence.Meeting, 0, len(result))
	for _, m := range result {
		meeting := persistence.Meeting{
			ID:          m.ID,
			RequesterID: m.RequesterID,
			TargetID:    m.TargetID,
			SlotID:      m.SlotID,
			RoomID:      m.RoomID,
			Locked:      m.Locked,
			Status:      persistence.MeetingStatus(m.Status),
			CreatedAt:   now,
		}
		if meeting.Locked {
			// Locked seeds survive runs byte for byte, timestamp included.
			if created, ok := lockedCreatedAt[m.ID]; ok {
				meeting.CreatedAt = created
			}
		} else {
			meeting.Status = persistence.MeetingConfirmed
		}
		meetings = append(meetings, meeting)
	}

	if err := s.meetings.ReplaceMeetings(ctx, meetings); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "matching run completed",
		"meetings", len(meetings),
		"preferences", len(input.Preferences),
		"locked", len(input.Locked),
	)
	return meetings, nil
}

// collectMatchingInput assembles the engine input and remembers the original
// creation time of every locked seed keyed by meeting id.
func (s *SchedulingService) collectMatchingInput(ctx context.Context) (matching.Input, map[string]time.Time, error) {
	var input matching.Input

	slots, err := s.slots.ListSlots(ctx)
	if err != nil {
		return input, nil, err
	}
	for _, slot := range slots {
		input.Slots = append(input.Slots, slot.ID)
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return input, nil, err
	}
	for _, room := range rooms {
		input.Rooms = append(input.Rooms, room.ID)
	}

	participants, err := s.participants.ListParticipants(ctx)
	if err != nil {
		return input, nil, err
	}
	input.Participants = make(map[string]struct{}, len(participants))
	for _, p := range participants {
		input.Participants[p.ID] = struct{}{}
	}

	availability, err := s.availability.ListAvailability(ctx)
	if err != nil {
		return input, nil, err
	}
	input.BusySlots = make(map[string]map[string]struct{})
	for _, entry := range availability {
		busy := input.BusySlots[entry.ParticipantID]
		if busy == nil {
			busy = make(map[string]struct{})
			input.BusySlots[entry.ParticipantID] = busy
		}
		busy[entry.SlotID] = struct{}{}
	}

	preferences, err := s.preferences.ListPreferences(ctx)
	if err != nil {
		return input, nil, err
	}
	for _, p := range preferences {
		input.Preferences = append(input.Preferences, matching.Preference{
			RequesterID: p.RequesterID,
			TargetID:    p.TargetID,
			Priority:    p.Priority,
			Seq:         p.Seq,
		})
	}

	locked, err := s.meetings.ListLockedMeetings(ctx)
	if err != nil {
		return input, nil, err
	}
	lockedCreatedAt := make(map[string]time.Time, len(locked))
	for _, m := range locked {
		lockedCreatedAt[m.ID] = m.CreatedAt
		input.Locked = append(input.Locked, matching.Meeting{
			ID:          m.ID,
			RequesterID: m.RequesterID,
			TargetID:    m.TargetID,
			SlotID:      m.SlotID,
			RoomID:      m.RoomID,
			Locked:      true,
			Status:      string(m.Status),
		})
	}

	return input, lockedCreatedAt, nil
}

// ListMeetings returns the algorithmic ledger.
func (s *SchedulingService) ListMeetings(ctx context.Context) ([]persistence.Meeting, error) {
	if s == nil || s.meetings == nil {
		return nil, fmt.Errorf("meeting repository not configured")
	}
	return s.meetings.ListMeetings(ctx)
}

// LockMeeting pins a meeting to a room so subsequent matching runs keep it.
// There is no unlock. Unknown meeting ids are ignored.
func (s *SchedulingService) LockMeeting(ctx context.Context, principal Principal, meetingID, roomID string) error {
	if s == nil || s.meetings == nil {
		return fmt.Errorf("meeting repository not configured")
	}
	if principal.Role != persistence.RoleAdmin {
		return ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.meetings.LockMeeting(ctx, meetingID, roomID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil
		}
		return err
	}

	s.loggerWith(ctx, "LockMeeting", "meeting_id", meetingID, "room_id", roomID).
		InfoContext(ctx, "meeting locked")
	return nil
}

// Cancel marks a meeting or a request cancelled depending on kind. The record
// stays in its ledger. Unknown ids and unknown kinds are ignored.
func (s *SchedulingService) Cancel(ctx context.Context, id string, kind CancelKind) error {
	if s == nil {
		return fmt.Errorf("SchedulingService is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch kind {
	case CancelKindMeeting:
		if s.meetings == nil {
			return fmt.Errorf("meeting repository not configured")
		}
		err = s.meetings.SetMeetingStatus(ctx, id, persistence.MeetingCancelled)
	case CancelKindRequest:
		if s.requests == nil {
			return fmt.Errorf("request repository not configured")
		}
		err = s.requests.SetRequestStatus(ctx, id, persistence.RequestCancelled)
	default:
		return nil
	}

	if errors.Is(err, persistence.ErrNotFound) {
		return nil
	}
	return err
}

// ResetSchedule clears both ledgers, locked meetings included. Availability,
// preferences, and the catalogs survive.
func (s *SchedulingService) ResetSchedule(ctx context.Context, principal Principal) error {
	if s == nil || s.meetings == nil || s.requests == nil {
		return fmt.Errorf("scheduling repositories not configured")
	}
	if principal.Role != persistence.RoleAdmin {
		return ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.meetings.DeleteAllMeetings(ctx); err != nil {
		return err
	}
	if err := s.requests.DeleteAllRequests(ctx); err != nil {
		return err
	}

	s.loggerWith(ctx, "ResetSchedule").InfoContext(ctx, "schedule reset")
	return nil
}
