package matching

import (
	"fmt"
	"reflect"
	"testing"
)

func sequentialIDs(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("%s-%d", prefix, counter)
	}
}

func participantSet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestRunPlacesPreferencesFirstFit(t *testing.T) {
	t.Parallel()

	input := Input{
		Participants: participantSet("invA", "invB", "issX", "issY"),
		Slots:        []string{"s1", "s2"},
		Rooms:        []string{"r1"},
		Preferences: []Preference{
			{RequesterID: "invA", TargetID: "issX", Priority: 1, Seq: 1},
			{RequesterID: "invA", TargetID: "issY", Priority: 2, Seq: 2},
			{RequesterID: "invB", TargetID: "issX", Priority: 1, Seq: 3},
		},
	}

	meetings := Run(input, sequentialIDs("m"))

	if len(meetings) != 2 {
		t.Fatalf("expected 2 meetings, got %d: %+v", len(meetings), meetings)
	}

	first := meetings[0]
	if first.RequesterID != "invA" || first.TargetID != "issX" || first.SlotID != "s1" || first.RoomID != "r1" {
		t.Errorf("unexpected first placement: %+v", first)
	}

	second := meetings[1]
	if second.RequesterID != "invB" || second.TargetID != "issX" || second.SlotID != "s2" || second.RoomID != "r1" {
		t.Errorf("unexpected second placement: %+v", second)
	}

	// invA/issY cannot be placed: invA is busy in s1 and the only room is
	// taken in s2. The preference is skipped without error.
	for _, m := range meetings {
		if m.TargetID == "issY" {
			t.Errorf("expected invA/issY to be skipped, got %+v", m)
		}
	}
}

func TestRunPreservesLockedMeetings(t *testing.T) {
	t.Parallel()

	locked := Meeting{
		ID:          "locked-1",
		RequesterID: "invA",
		TargetID:    "issX",
		SlotID:      "s1",
		RoomID:      "r1",
		Locked:      true,
		Status:      "confirmed",
	}

	input := Input{
		Participants: participantSet("invA", "invB", "issX"),
		Slots:        []string{"s1", "s2"},
		Rooms:        []string{"r1"},
		Preferences: []Preference{
			{RequesterID: "invB", TargetID: "issX", Priority: 1, Seq: 1},
		},
		Locked: []Meeting{locked},
	}

	meetings := Run(input, sequentialIDs("m"))

	if len(meetings) != 2 {
		t.Fatalf("expected 2 meetings, got %d", len(meetings))
	}
	if !reflect.DeepEqual(meetings[0], locked) {
		t.Errorf("locked meeting was altered: %+v", meetings[0])
	}

	// The locked meeting occupies both parties and the room in s1, pushing
	// the new placement to s2.
	if meetings[1].SlotID != "s2" {
		t.Errorf("expected placement in s2, got %+v", meetings[1])
	}
}

func TestRunSkipsLockedPairs(t *testing.T) {
	t.Parallel()

	input := Input{
		Participants: participantSet("invA", "issX"),
		Slots:        []string{"s1", "s2"},
		Rooms:        []string{"r1", "r2"},
		Preferences: []Preference{
			{RequesterID: "invA", TargetID: "issX", Priority: 1, Seq: 1},
		},
		Locked: []Meeting{{
			ID: "locked-1", RequesterID: "invA", TargetID: "issX",
			SlotID: "s1", RoomID: "r1", Locked: true, Status: "confirmed",
		}},
	}

	meetings := Run(input, sequentialIDs("m"))

	if len(meetings) != 1 {
		t.Fatalf("expected the locked pair not to be rematched, got %d meetings", len(meetings))
	}
}

func TestRunHonorsBusySlots(t *testing.T) {
	t.Parallel()

	input := Input{
		Participants: participantSet("invA", "issX"),
		Slots:        []string{"s1", "s2"},
		Rooms:        []string{"r1"},
		BusySlots: map[string]map[string]struct{}{
			"invA": {"s1": {}},
			"issX": {"s2": {}},
		},
		Preferences: []Preference{
			{RequesterID: "invA", TargetID: "issX", Priority: 1, Seq: 1},
		},
	}

	meetings := Run(input, sequentialIDs("m"))

	if len(meetings) != 0 {
		t.Fatalf("expected no placement when every slot is busy for one party, got %+v", meetings)
	}
}

func TestRunSkipsUnknownParticipants(t *testing.T) {
	t.Parallel()

	input := Input{
		Participants: participantSet("invA"),
		Slots:        []string{"s1"},
		Rooms:        []string{"r1"},
		Preferences: []Preference{
			{RequesterID: "invA", TargetID: "ghost", Priority: 1, Seq: 1},
			{RequesterID: "ghost", TargetID: "invA", Priority: 1, Seq: 2},
		},
	}

	if meetings := Run(input, sequentialIDs("m")); len(meetings) != 0 {
		t.Fatalf("expected preferences naming unknown participants to be skipped, got %+v", meetings)
	}
}

func TestRunOrdersByPriorityThenSeq(t *testing.T) {
	t.Parallel()

	// Both requesters want issX at priority 1; only one slot exists. The
	// older preference (lower seq) wins it.
	input := Input{
		Participants: participantSet("invA", "invB", "issX"),
		Slots:        []string{"s1"},
		Rooms:        []string{"r1", "r2"},
		Preferences: []Preference{
			{RequesterID: "invB", TargetID: "issX", Priority: 1, Seq: 7},
			{RequesterID: "invA", TargetID: "issX", Priority: 1, Seq: 3},
		},
	}

	meetings := Run(input, sequentialIDs("m"))

	if len(meetings) != 1 {
		t.Fatalf("expected a single placement, got %d", len(meetings))
	}
	if meetings[0].RequesterID != "invA" {
		t.Errorf("expected the older preference to win the slot, got %+v", meetings[0])
	}
}

func TestRunRoomCapacityPerSlot(t *testing.T) {
	t.Parallel()

	// Two rooms allow two concurrent meetings in the same slot; a third
	// pairing must move to the next slot.
	input := Input{
		Participants: participantSet("a", "b", "c", "x", "y", "z"),
		Slots:        []string{"s1", "s2"},
		Rooms:        []string{"r1", "r2"},
		Preferences: []Preference{
			{RequesterID: "a", TargetID: "x", Priority: 1, Seq: 1},
			{RequesterID: "b", TargetID: "y", Priority: 1, Seq: 2},
			{RequesterID: "c", TargetID: "z", Priority: 1, Seq: 3},
		},
	}

	meetings := Run(input, sequentialIDs("m"))

	if len(meetings) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(meetings))
	}

	bySlot := make(map[string][]string)
	for _, m := range meetings {
		bySlot[m.SlotID] = append(bySlot[m.SlotID], m.RoomID)
	}
	if len(bySlot["s1"]) != 2 {
		t.Errorf("expected two meetings in s1, got %v", bySlot)
	}
	if len(bySlot["s2"]) != 1 || bySlot["s2"][0] != "r1" {
		t.Errorf("expected the overflow meeting in s2/r1, got %v", bySlot)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	input := Input{
		Participants: participantSet("invA", "invB", "issX", "issY"),
		Slots:        []string{"s1", "s2", "s3"},
		Rooms:        []string{"r1", "r2"},
		BusySlots: map[string]map[string]struct{}{
			"issY": {"s1": {}},
		},
		Preferences: []Preference{
			{RequesterID: "invA", TargetID: "issX", Priority: 1, Seq: 1},
			{RequesterID: "invA", TargetID: "issY", Priority: 2, Seq: 2},
			{RequesterID: "invB", TargetID: "issY", Priority: 1, Seq: 3},
		},
	}

	first := Run(input, sequentialIDs("a"))
	second := Run(input, sequentialIDs("b"))

	if len(first) != len(second) {
		t.Fatalf("runs disagree on size: %d vs %d", len(first), len(second))
	}
	for i := range first {
		got, want := second[i], first[i]
		got.ID, want.ID = "", ""
		if !reflect.DeepEqual(got, want) {
			t.Errorf("placement %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	busy := map[string]map[string]struct{}{
		"invA": {"s1": {}},
	}
	input := Input{
		Participants: participantSet("invA", "issX"),
		Slots:        []string{"s1", "s2"},
		Rooms:        []string{"r1"},
		BusySlots:    busy,
		Preferences: []Preference{
			{RequesterID: "invA", TargetID: "issX", Priority: 1, Seq: 1},
		},
	}

	Run(input, sequentialIDs("m"))

	if len(busy) != 1 || len(busy["invA"]) != 1 {
		t.Errorf("input busy index was mutated: %v", busy)
	}
}

func TestRunWithoutRooms(t *testing.T) {
	t.Parallel()

	input := Input{
		Participants: participantSet("invA", "issX"),
		Slots:        []string{"s1"},
		Preferences: []Preference{
			{RequesterID: "invA", TargetID: "issX", Priority: 1, Seq: 1},
		},
	}

	if meetings := Run(input, sequentialIDs("m")); len(meetings) != 0 {
		t.Fatalf("expected no placement without rooms, got %+v", meetings)
	}
}
