// Package matching implements the greedy first-fit engine that turns ranked
// preferences and busy-time constraints into a conflict-free meeting set.
//
// The engine is a pure function of its inputs: it performs no I/O and never
// mutates the caller's data. Re-running it with unchanged inputs yields the
// same result apart from generated identifiers; re-running it after any
// input change may freely reassign every unlocked meeting.
package matching

import "sort"

// Preference is a requester's ranked interest in a target. Priority 1 is the
// highest rank; Seq captures creation order and breaks priority ties.
type Preference struct {
	RequesterID string
	TargetID    string
	Priority    int
	Seq         int64
}

// Meeting is a pairing placed into a slot and room. Locked meetings entering
// the engine are preserved untouched in the output.
type Meeting struct {
	ID          string
	RequesterID string
	TargetID    string
	SlotID      string
	RoomID      string
	Locked      bool
	Status      string
}

// Input carries everything a matching run consumes. Slots and Rooms must be
// in catalog order; first-fit scans them front to back.
type Input struct {
	// Participants holds the ids of every known participant. Preferences
	// naming an unknown party are skipped.
	Participants map[string]struct{}
	// Slots lists slot ids in catalog order.
	Slots []string
	// Rooms lists room ids in catalog order.
	Rooms []string
	// BusySlots maps a participant id to the slot ids they marked busy.
	BusySlots map[string]map[string]struct{}
	// Preferences is the full preference list across all requesters.
	Preferences []Preference
	// Locked seeds the working set. Unlocked meetings from previous runs
	// must not be passed in; a run is not incremental with respect to them.
	Locked []Meeting
}

// Run produces a complete replacement meeting set: every locked meeting
// unchanged, plus a new unlocked meeting for each placeable preference.
// Preferences that cannot be placed are skipped silently; best-effort
// placement is the contract, not an error.
//
// nextID supplies identifiers for newly created meetings.
func Run(input Input, nextID func() string) []Meeting {
	if nextID == nil {
		nextID = func() string { return "" }
	}

	meetings := make([]Meeting, 0, len(input.Locked)+len(input.Preferences))
	meetings = append(meetings, input.Locked...)

	// Busy indexes start from the availability ledger, then absorb the
	// locked seeds for both parties and their rooms.
	busy := make(map[string]map[string]struct{}, len(input.BusySlots))
	for participantID, slots := range input.BusySlots {
		set := make(map[string]struct{}, len(slots))
		for slotID := range slots {
			set[slotID] = struct{}{}
		}
		busy[participantID] = set
	}
	roomBusy := make(map[string]map[string]struct{})

	markBusy := func(participantID, slotID string) {
		set, ok := busy[participantID]
		if !ok {
			set = make(map[string]struct{})
			busy[participantID] = set
		}
		set[slotID] = struct{}{}
	}
	markRoomBusy := func(roomID, slotID string) {
		set, ok := roomBusy[slotID]
		if !ok {
			set = make(map[string]struct{})
			roomBusy[slotID] = set
		}
		set[roomID] = struct{}{}
	}
	isBusy := func(participantID, slotID string) bool {
		_, ok := busy[participantID][slotID]
		return ok
	}

	for _, meeting := range input.Locked {
		markBusy(meeting.RequesterID, meeting.SlotID)
		markBusy(meeting.TargetID, meeting.SlotID)
		markRoomBusy(meeting.RoomID, meeting.SlotID)
	}

	paired := make(map[[2]string]struct{}, len(meetings))
	for _, meeting := range meetings {
		paired[[2]string{meeting.RequesterID, meeting.TargetID}] = struct{}{}
	}

	for _, preference := range sortPreferences(input.Preferences) {
		if _, ok := input.Participants[preference.RequesterID]; !ok {
			continue
		}
		if _, ok := input.Participants[preference.TargetID]; !ok {
			continue
		}
		pair := [2]string{preference.RequesterID, preference.TargetID}
		if _, ok := paired[pair]; ok {
			continue
		}

		for _, slotID := range input.Slots {
			if isBusy(preference.RequesterID, slotID) || isBusy(preference.TargetID, slotID) {
				continue
			}

			roomID, ok := firstFreeRoom(input.Rooms, roomBusy[slotID])
			if !ok {
				continue
			}

			meetings = append(meetings, Meeting{
				ID:          nextID(),
				RequesterID: preference.RequesterID,
				TargetID:    preference.TargetID,
				SlotID:      slotID,
				RoomID:      roomID,
			})
			paired[pair] = struct{}{}
			markBusy(preference.RequesterID, slotID)
			markBusy(preference.TargetID, slotID)
			markRoomBusy(roomID, slotID)
			break
		}
	}

	return meetings
}

// sortPreferences orders by ascending priority with the creation sequence
// breaking ties.
func sortPreferences(preferences []Preference) []Preference {
	sorted := make([]Preference, len(preferences))
	copy(sorted, preferences)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].Seq < sorted[j].Seq
	})
	return sorted
}

func firstFreeRoom(rooms []string, occupied map[string]struct{}) (string, bool) {
	for _, roomID := range rooms {
		if _, ok := occupied[roomID]; !ok {
			return roomID, true
		}
	}
	return "", false
}
