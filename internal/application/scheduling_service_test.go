package application_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/example/forum-matchmaker/internal/application"
	"github.com/example/forum-matchmaker/internal/persistence"
	"github.com/example/forum-matchmaker/internal/testfixtures"
)

var adminPrincipal = application.Principal{ParticipantID: "admin-1", Role: persistence.RoleAdmin}

func newSchedulingService(t *testing.T) (*application.SchedulingService, *testfixtures.SQLiteHarness) {
	t.Helper()
	harness := testfixtures.NewSQLiteHarness(t)
	factory := testfixtures.NewServiceFactory()
	return factory.SchedulingServiceFromHarness(harness, nil), harness
}

func createParticipant(t *testing.T, harness *testfixtures.SQLiteHarness, opts ...testfixtures.ParticipantOption) persistence.Participant {
	t.Helper()
	participant := testfixtures.NewParticipantFixture(opts...)
	if err := harness.Participants.CreateParticipant(context.Background(), participant); err != nil {
		t.Fatalf("failed to create participant: %v", err)
	}
	return participant
}

func TestAddPreferenceAppendsAtTail(t *testing.T) {
	t.Parallel()

	service, harness := newSchedulingService(t)
	ctx := context.Background()

	requester := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleRequester))
	target1 := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleTarget))
	target2 := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleTarget))

	if err := service.AddPreference(ctx, requester.ID, target1.ID); err != nil {
		t.Fatalf("AddPreference: %v", err)
	}
	if err := service.AddPreference(ctx, requester.ID, target2.ID); err != nil {
		t.Fatalf("AddPreference: %v", err)
	}

	prefs, err := service.ListPreferences(ctx, requester.ID)
	if err != nil {
		t.Fatalf("ListPreferences: %v", err)
	}
	if len(prefs) != 2 {
		t.Fatalf("expected 2 preferences, got %d", len(prefs))
	}
	if prefs[0].TargetID != target1.ID || prefs[0].Priority != 1 {
		t.Errorf("unexpected first preference: %+v", prefs[0])
	}
	if prefs[1].TargetID != target2.ID || prefs[1].Priority != 2 {
		t.Errorf("unexpected second preference: %+v", prefs[1])
	}
}

func TestAddPreferenceIgnoresDuplicatesAndNonRequesters(t *testing.T) {
	t.Parallel()

	service, harness := newSchedulingService(t)
	ctx := context.Background()

	requester := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleRequester))
	target := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleTarget))

	if err := service.AddPreference(ctx, requester.ID, target.ID); err != nil {
		t.Fatalf("AddPreference: %v", err)
	}
	if err := service.AddPreference(ctx, requester.ID, target.ID); err != nil {
		t.Fatalf("duplicate AddPreference should be a no-op, got %v", err)
	}

	// Targets cannot rank preferences; the call silently does nothing.
	if err := service.AddPreference(ctx, target.ID, requester.ID); err != nil {
		t.Fatalf("non-requester AddPreference should be a no-op, got %v", err)
	}

	prefs, err := service.ListPreferences(ctx, requester.ID)
	if err != nil {
		t.Fatalf("ListPreferences: %v", err)
	}
	if len(prefs) != 1 {
		t.Errorf("expected 1 preference, got %d", len(prefs))
	}
	targetPrefs, err := service.ListPreferences(ctx, target.ID)
	if err != nil {
		t.Fatalf("ListPreferences: %v", err)
	}
	if len(targetPrefs) != 0 {
		t.Errorf("expected no preferences for a target participant, got %d", len(targetPrefs))
	}
}

func TestRemovePreferenceLeavesPriorityGap(t *testing.T) {
	t.Parallel()

	service, harness := newSchedulingService(t)
	ctx := context.Background()

	requester := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleRequester))
	targets := []persistence.Participant{
		createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleTarget)),
		createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleTarget)),
		createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleTarget)),
	}
	for _, target := range targets {
		if err := service.AddPreference(ctx, requester.ID, target.ID); err != nil {
			t.Fatalf("AddPreference: %v", err)
		}
	}

	if err := service.RemovePreference(ctx, requester.ID, targets[1].ID); err != nil {
		t.Fatalf("RemovePreference: %v", err)
	}
	// Unknown pairs are ignored.
	if err := service.RemovePreference(ctx, requester.ID, "ghost"); err != nil {
		t.Fatalf("RemovePreference on unknown pair should be a no-op, got %v", err)
	}

	prefs, err := service.ListPreferences(ctx, requester.ID)
	if err != nil {
		t.Fatalf("ListPreferences: %v", err)
	}
	if len(prefs) != 2 {
		t.Fatalf("expected 2 preferences, got %d", len(prefs))
	}
	if prefs[0].Priority != 1 || prefs[1].Priority != 3 {
		t.Errorf("expected priorities 1 and 3 after removal, got %d and %d", prefs[0].Priority, prefs[1].Priority)
	}
}

func TestReorderPreferenceRenumbersDensely(t *testing.T) {
	t.Parallel()

	service, harness := newSchedulingService(t)
	ctx := context.Background()

	requester := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleRequester))
	targets := make([]persistence.Participant, 3)
	for i := range targets {
		targets[i] = createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleTarget))
		if err := service.AddPreference(ctx, requester.ID, targets[i].ID); err != nil {
			t.Fatalf("AddPreference: %v", err)
		}
	}

	// Move the last entry to the front.
	if err := service.ReorderPreference(ctx, requester.ID, 2, 0); err != nil {
		t.Fatalf("ReorderPreference: %v", err)
	}

	prefs, err := service.ListPreferences(ctx, requester.ID)
	if err != nil {
		t.Fatalf("ListPreferences: %v", err)
	}
	wantOrder := []string{targets[2].ID, targets[0].ID, targets[1].ID}
	for i, pref := range prefs {
		if pref.TargetID != wantOrder[i] {
			t.Errorf("position %d: expected %s, got %s", i, wantOrder[i], pref.TargetID)
		}
		if pref.Priority != i+1 {
			t.Errorf("position %d: expected dense priority %d, got %d", i, i+1, pref.Priority)
		}
	}
}

func TestReorderPreferenceOutOfRangeIsNoOp(t *testing.T) {
	t.Parallel()

	service, harness := newSchedulingService(t)
	ctx := context.Background()

	requester := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleRequester))
	target := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleTarget))
	if err := service.AddPreference(ctx, requester.ID, target.ID); err != nil {
		t.Fatalf("AddPreference: %v", err)
	}

	if err := service.ReorderPreference(ctx, requester.ID, 0, 5); err != nil {
		t.Fatalf("out of range reorder should be a no-op, got %v", err)
	}
	if err := service.ReorderPreference(ctx, requester.ID, -1, 0); err != nil {
		t.Fatalf("negative index reorder should be a no-op, got %v", err)
	}

	prefs, err := service.ListPreferences(ctx, requester.ID)
	if err != nil {
		t.Fatalf("ListPreferences: %v", err)
	}
	if len(prefs) != 1 || prefs[0].Priority != 1 {
		t.Errorf("expected the list to be untouched, got %+v", prefs)
	}
}

func TestRunMatchingRegeneratesAndPreservesLocked(t *testing.T) {
	t.Parallel()

	service, harness := newSchedulingService(t)
	ctx := context.Background()

	requester := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleRequester))
	target := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleTarget))
	other := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleTarget))

	for _, slot := range []persistence.Slot{testfixtures.NewSlotFixture(), testfixtures.NewSlotFixture()} {
		if err := harness.Slots.CreateSlot(ctx, slot); err != nil {
			t.Fatalf("CreateSlot: %v", err)
		}
	}
	if err := harness.Rooms.CreateRoom(ctx, testfixtures.NewRoomFixture()); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	if err := service.AddPreference(ctx, requester.ID, target.ID); err != nil {
		t.Fatalf("AddPreference: %v", err)
	}
	if err := service.AddPreference(ctx, requester.ID, other.ID); err != nil {
		t.Fatalf("AddPreference: %v", err)
	}

	meetings, err := service.RunMatching(ctx)
	if err != nil {
		t.Fatalf("RunMatching: %v", err)
	}
	if len(meetings) != 2 {
		t.Fatalf("expected 2 meetings, got %d", len(meetings))
	}
	for _, m := range meetings {
		if m.Status != persistence.MeetingConfirmed {
			t.Errorf("expected generated meetings to be confirmed, got %+v", m)
		}
		if m.Locked {
			t.Errorf("generated meetings must start unlocked: %+v", m)
		}
	}

	// Lock the first meeting, then rerun. The locked meeting survives with
	// the same identity; the other one is regenerated under a fresh id.
	if err := service.LockMeeting(ctx, adminPrincipal, meetings[0].ID, meetings[0].RoomID); err != nil {
		t.Fatalf("LockMeeting: %v", err)
	}

	regenerated, err := service.RunMatching(ctx)
	if err != nil {
		t.Fatalf("RunMatching: %v", err)
	}
	if len(regenerated) != 2 {
		t.Fatalf("expected 2 meetings after rerun, got %d", len(regenerated))
	}

	var foundLocked bool
	for _, m := range regenerated {
		if m.ID == meetings[0].ID {
			foundLocked = true
			if !m.Locked {
				t.Errorf("expected locked meeting to stay locked: %+v", m)
			}
		}
		if m.ID == meetings[1].ID {
			t.Errorf("unlocked meeting id should not survive regeneration: %+v", m)
		}
	}
	if !foundLocked {
		t.Error("locked meeting vanished during regeneration")
	}
}

func TestRunMatchingKeepsLockedMeetingTimestamps(t *testing.T) {
	t.Parallel()

	harness := testfixtures.NewSQLiteHarness(t)
	factory := testfixtures.NewServiceFactory()
	service := factory.SchedulingServiceFromHarness(harness, nil)
	ctx := context.Background()

	requester := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleRequester))
	target := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleTarget))

	if err := harness.Slots.CreateSlot(ctx, testfixtures.NewSlotFixture()); err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}
	if err := harness.Rooms.CreateRoom(ctx, testfixtures.NewRoomFixture()); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if err := service.AddPreference(ctx, requester.ID, target.ID); err != nil {
		t.Fatalf("AddPreference: %v", err)
	}

	meetings, err := service.RunMatching(ctx)
	if err != nil {
		t.Fatalf("RunMatching: %v", err)
	}
	if len(meetings) != 1 {
		t.Fatalf("expected 1 meeting, got %d", len(meetings))
	}
	if err := service.LockMeeting(ctx, adminPrincipal, meetings[0].ID, meetings[0].RoomID); err != nil {
		t.Fatalf("LockMeeting: %v", err)
	}

	before, err := service.ListMeetings(ctx)
	if err != nil {
		t.Fatalf("ListMeetings: %v", err)
	}
	if len(before) != 1 || !before[0].Locked {
		t.Fatalf("expected one locked meeting, got %+v", before)
	}

	// A later run must carry the locked record over unchanged, its original
	// creation time included.
	factory.Clock.Advance(time.Hour)
	if _, err := service.RunMatching(ctx); err != nil {
		t.Fatalf("RunMatching: %v", err)
	}

	after, err := service.ListMeetings(ctx)
	if err != nil {
		t.Fatalf("ListMeetings: %v", err)
	}
	if len(after) != 1 {
		t.Fatalf("expected 1 meeting after rerun, got %d", len(after))
	}
	if !after[0].CreatedAt.Equal(before[0].CreatedAt) {
		t.Errorf("locked meeting CreatedAt changed across runs: %v -> %v", before[0].CreatedAt, after[0].CreatedAt)
	}
	if !reflect.DeepEqual(before[0], after[0]) {
		t.Errorf("locked meeting changed across runs:\nbefore %+v\nafter  %+v", before[0], after[0])
	}
}

func TestLockMeetingUnknownIDIsNoOp(t *testing.T) {
	t.Parallel()

	service, _ := newSchedulingService(t)
	if err := service.LockMeeting(context.Background(), adminPrincipal, "ghost", "room-1"); err != nil {
		t.Fatalf("expected unknown meeting lock to be ignored, got %v", err)
	}
}

func TestCancelKeepsRecordsInPlace(t *testing.T) {
	t.Parallel()

	service, harness := newSchedulingService(t)
	ctx := context.Background()

	meeting := testfixtures.NewMeetingFixture(testfixtures.WithMeetingLocked("room-1"))
	if err := harness.Meetings.ReplaceMeetings(ctx, []persistence.Meeting{meeting}); err != nil {
		t.Fatalf("ReplaceMeetings: %v", err)
	}
	request := testfixtures.NewRequestFixture()
	if err := harness.Requests.CreateRequests(ctx, []persistence.MeetingRequest{request}); err != nil {
		t.Fatalf("CreateRequests: %v", err)
	}

	if err := service.Cancel(ctx, meeting.ID, application.CancelKindMeeting); err != nil {
		t.Fatalf("Cancel meeting: %v", err)
	}
	if err := service.Cancel(ctx, request.ID, application.CancelKindRequest); err != nil {
		t.Fatalf("Cancel request: %v", err)
	}

	// Unknown ids and kinds are ignored.
	if err := service.Cancel(ctx, "ghost", application.CancelKindMeeting); err != nil {
		t.Fatalf("Cancel of unknown meeting should be a no-op, got %v", err)
	}
	if err := service.Cancel(ctx, meeting.ID, application.CancelKind("other")); err != nil {
		t.Fatalf("Cancel with unknown kind should be a no-op, got %v", err)
	}

	stored, err := harness.Meetings.GetMeeting(ctx, meeting.ID)
	if err != nil {
		t.Fatalf("GetMeeting: %v", err)
	}
	if stored.Status != persistence.MeetingCancelled {
		t.Errorf("expected cancelled meeting, got %+v", stored)
	}
	if !stored.Locked || stored.RoomID != "room-1" {
		t.Errorf("cancellation must not strip the lock or room: %+v", stored)
	}

	storedReq, err := harness.Requests.GetRequest(ctx, request.ID)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if storedReq.Status != persistence.RequestCancelled {
		t.Errorf("expected cancelled request, got %+v", storedReq)
	}
}

func TestCreateRequestsFansOutPerTarget(t *testing.T) {
	t.Parallel()

	service, _ := newSchedulingService(t)
	ctx := context.Background()

	start := testfixtures.ReferenceTime()
	created, err := service.CreateRequests(ctx, application.CreateRequestInput{
		RequesterID: "inv-1",
		TargetIDs:   []string{"iss-1", "iss-2", "iss-3"},
		Start:       start,
		End:         start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateRequests: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(created))
	}
	for _, req := range created {
		if req.Status != persistence.RequestPending {
			t.Errorf("expected pending status, got %+v", req)
		}
		if req.RequesterID != "inv-1" {
			t.Errorf("unexpected requester: %+v", req)
		}
		if req.RoomID != nil {
			t.Errorf("new requests must be roomless: %+v", req)
		}
	}
}

func TestCreateRequestsValidatesInput(t *testing.T) {
	t.Parallel()

	service, _ := newSchedulingService(t)
	ctx := context.Background()

	start := testfixtures.ReferenceTime()
	_, err := service.CreateRequests(ctx, application.CreateRequestInput{
		RequesterID: "inv-1",
		TargetIDs:   nil,
		Start:       start,
		End:         start.Add(time.Hour),
	})
	var vErr *application.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for empty targets, got %v", err)
	}

	_, err = service.CreateRequests(ctx, application.CreateRequestInput{
		RequesterID: "inv-1",
		TargetIDs:   []string{"iss-1"},
		Start:       start.Add(time.Hour),
		End:         start,
	})
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for inverted window, got %v", err)
	}
}

func TestSetRequestStatusOverwritesFreely(t *testing.T) {
	t.Parallel()

	service, harness := newSchedulingService(t)
	ctx := context.Background()

	request := testfixtures.NewRequestFixture(testfixtures.WithRequestStatus(persistence.RequestCancelled))
	if err := harness.Requests.CreateRequests(ctx, []persistence.MeetingRequest{request}); err != nil {
		t.Fatalf("CreateRequests: %v", err)
	}

	// Any known status may replace any other, cancelled included.
	if err := service.SetRequestStatus(ctx, request.ID, persistence.RequestConfirmed); err != nil {
		t.Fatalf("SetRequestStatus: %v", err)
	}
	stored, err := harness.Requests.GetRequest(ctx, request.ID)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if stored.Status != persistence.RequestConfirmed {
		t.Errorf("expected confirmed, got %s", stored.Status)
	}

	if err := service.SetRequestStatus(ctx, "ghost", persistence.RequestRejected); err != nil {
		t.Fatalf("unknown request id should be ignored, got %v", err)
	}

	var vErr *application.ValidationError
	if err := service.SetRequestStatus(ctx, request.ID, persistence.RequestStatus("weird")); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestAssignRequestRoomFlagsOverlaps(t *testing.T) {
	t.Parallel()

	service, harness := newSchedulingService(t)
	ctx := context.Background()

	start := testfixtures.ReferenceTime()
	occupied := testfixtures.NewRequestFixture(
		testfixtures.WithRequestStatus(persistence.RequestConfirmed),
		testfixtures.WithRequestRoom("room-9"),
		testfixtures.WithRequestWindow(start, start.Add(time.Hour)),
	)
	incoming := testfixtures.NewRequestFixture(
		testfixtures.WithRequestStatus(persistence.RequestConfirmed),
		testfixtures.WithRequestWindow(start.Add(30*time.Minute), start.Add(90*time.Minute)),
	)
	if err := harness.Requests.CreateRequests(ctx, []persistence.MeetingRequest{occupied, incoming}); err != nil {
		t.Fatalf("CreateRequests: %v", err)
	}

	warnings, err := service.AssignRequestRoom(ctx, adminPrincipal, incoming.ID, "room-9")
	if err != nil {
		t.Fatalf("AssignRequestRoom: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one overlap warning, got %d", len(warnings))
	}
	if warnings[0].Code != "room_overlap" {
		t.Errorf("unexpected warning: %+v", warnings[0])
	}

	// The assignment applies despite the warning.
	stored, err := harness.Requests.GetRequest(ctx, incoming.ID)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if stored.RoomID == nil || *stored.RoomID != "room-9" {
		t.Errorf("expected the room to be recorded, got %+v", stored)
	}

	// Unknown request ids are ignored.
	if _, err := service.AssignRequestRoom(ctx, adminPrincipal, "ghost", "room-9"); err != nil {
		t.Fatalf("unknown request assignment should be a no-op, got %v", err)
	}
}

func TestCountersRequireRooms(t *testing.T) {
	t.Parallel()

	service, harness := newSchedulingService(t)
	ctx := context.Background()

	const target = "iss-1"
	start := testfixtures.ReferenceTime()

	requests := []persistence.MeetingRequest{
		// Pending toward the target: counted.
		testfixtures.NewRequestFixture(testfixtures.WithRequestPair("inv-1", target)),
		// Pending from the target's side: not counted.
		testfixtures.NewRequestFixture(testfixtures.WithRequestPair(target, "iss-2")),
		// Confirmed with a room: counted as confirmed.
		testfixtures.NewRequestFixture(
			testfixtures.WithRequestPair("inv-2", target),
			testfixtures.WithRequestStatus(persistence.RequestConfirmed),
			testfixtures.WithRequestRoom("room-1"),
			testfixtures.WithRequestWindow(start, start.Add(time.Hour)),
		),
		// Confirmed without a room: excluded.
		testfixtures.NewRequestFixture(
			testfixtures.WithRequestPair("inv-3", target),
			testfixtures.WithRequestStatus(persistence.RequestConfirmed),
		),
	}
	if err := harness.Requests.CreateRequests(ctx, requests); err != nil {
		t.Fatalf("CreateRequests: %v", err)
	}

	meetings := []persistence.Meeting{
		// Locked with room, confirmed: counted.
		testfixtures.NewMeetingFixture(
			testfixtures.WithMeetingPair("inv-1", target),
			testfixtures.WithMeetingLocked("room-2"),
		),
		// Unlocked: excluded even though confirmed.
		testfixtures.NewMeetingFixture(testfixtures.WithMeetingPair("inv-2", target)),
		// Locked but cancelled: excluded.
		testfixtures.NewMeetingFixture(
			testfixtures.WithMeetingPair("inv-3", target),
			testfixtures.WithMeetingLocked("room-3"),
			testfixtures.WithMeetingStatus(persistence.MeetingCancelled),
		),
	}
	if err := harness.Meetings.ReplaceMeetings(ctx, meetings); err != nil {
		t.Fatalf("ReplaceMeetings: %v", err)
	}

	pending, err := service.PendingCount(ctx, target)
	if err != nil {
		t.Fatalf("PendingCount: %v", err)
	}
	if pending != 1 {
		t.Errorf("expected 1 pending request, got %d", pending)
	}

	confirmed, err := service.ConfirmedCount(ctx, target)
	if err != nil {
		t.Fatalf("ConfirmedCount: %v", err)
	}
	if confirmed != 2 {
		t.Errorf("expected 2 confirmed meetings, got %d", confirmed)
	}
}

func TestResetScheduleClearsBothLedgers(t *testing.T) {
	t.Parallel()

	service, harness := newSchedulingService(t)
	ctx := context.Background()

	requester := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleRequester))
	target := createParticipant(t, harness, testfixtures.WithParticipantRole(persistence.RoleTarget))
	if err := service.AddPreference(ctx, requester.ID, target.ID); err != nil {
		t.Fatalf("AddPreference: %v", err)
	}

	meeting := testfixtures.NewMeetingFixture(testfixtures.WithMeetingLocked("room-1"))
	if err := harness.Meetings.ReplaceMeetings(ctx, []persistence.Meeting{meeting}); err != nil {
		t.Fatalf("ReplaceMeetings: %v", err)
	}
	if err := harness.Requests.CreateRequests(ctx, []persistence.MeetingRequest{testfixtures.NewRequestFixture()}); err != nil {
		t.Fatalf("CreateRequests: %v", err)
	}

	if err := service.ResetSchedule(ctx, adminPrincipal); err != nil {
		t.Fatalf("ResetSchedule: %v", err)
	}

	meetings, err := service.ListMeetings(ctx)
	if err != nil {
		t.Fatalf("ListMeetings: %v", err)
	}
	if len(meetings) != 0 {
		t.Errorf("expected empty meeting ledger, got %d entries", len(meetings))
	}
	requests, err := service.ListRequests(ctx)
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(requests) != 0 {
		t.Errorf("expected empty request ledger, got %d entries", len(requests))
	}

	// Preferences survive a reset.
	prefs, err := service.ListPreferences(ctx, requester.ID)
	if err != nil {
		t.Fatalf("ListPreferences: %v", err)
	}
	if len(prefs) != 1 {
		t.Errorf("expected preferences to survive the reset, got %d", len(prefs))
	}
}

func TestResetScheduleRequiresAdmin(t *testing.T) {
	t.Parallel()

	service, _ := newSchedulingService(t)
	principal := application.Principal{ParticipantID: "inv-1", Role: persistence.RoleRequester}
	if err := service.ResetSchedule(context.Background(), principal); err != application.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestToggleAvailabilityFlipsMarker(t *testing.T) {
	t.Parallel()

	service, _ := newSchedulingService(t)
	ctx := context.Background()

	if err := service.ToggleAvailability(ctx, "inv-1", "slot-1"); err != nil {
		t.Fatalf("ToggleAvailability: %v", err)
	}
	busy, err := service.BusySlots(ctx, "inv-1")
	if err != nil {
		t.Fatalf("BusySlots: %v", err)
	}
	if len(busy) != 1 || busy[0] != "slot-1" {
		t.Fatalf("expected slot-1 busy, got %v", busy)
	}

	if err := service.ToggleAvailability(ctx, "inv-1", "slot-1"); err != nil {
		t.Fatalf("ToggleAvailability: %v", err)
	}
	busy, err = service.BusySlots(ctx, "inv-1")
	if err != nil {
		t.Fatalf("BusySlots: %v", err)
	}
	if len(busy) != 0 {
		t.Fatalf("expected marker cleared, got %v", busy)
	}
}
