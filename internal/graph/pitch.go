package graph

import "slices"

// Pitch is a MIDI pitch number (0-127).
type Pitch uint8

// PitchSet is the set of pitches a note generator reports as currently
// active. It is level-triggered state: the engine derives edge-triggered
// note events by diffing consecutive sets.
type PitchSet map[Pitch]struct{}

// NewPitchSet builds a set from the given pitches.
func NewPitchSet(pitches ...Pitch) PitchSet {
	s := make(PitchSet, len(pitches))
	for _, p := range pitches {
		s[p] = struct{}{}
	}
	return s
}

// Add inserts p into the set.
func (s PitchSet) Add(p Pitch) {
	s[p] = struct{}{}
}

// Contains reports whether p is in the set.
func (s PitchSet) Contains(p Pitch) bool {
	_, ok := s[p]
	return ok
}

// Clone returns an independent copy of the set.
// Cloning a nil set returns an empty, non-nil set.
func (s PitchSet) Clone() PitchSet {
	out := make(PitchSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold exactly the same pitches.
func (s PitchSet) Equal(other PitchSet) bool {
	if len(s) != len(other) {
		return false
	}
	for p := range s {
		if !other.Contains(p) {
			return false
		}
	}
	return true
}

// Sorted returns the pitches in ascending order.
func (s PitchSet) Sorted() []Pitch {
	out := make([]Pitch, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// NoteEventKind distinguishes note-on from note-off transitions.
type NoteEventKind int

const (
	// NoteOn marks a pitch that became active since the previous pass.
	NoteOn NoteEventKind = iota + 1
	// NoteOff marks a pitch that stopped being active.
	NoteOff
)

// String returns the conventional MIDI name for the event kind.
func (k NoteEventKind) String() string {
	switch k {
	case NoteOn:
		return "NOTE_ON"
	case NoteOff:
		return "NOTE_OFF"
	default:
		return "UNKNOWN"
	}
}

// NoteEvent is a discrete note transition delivered to an instrument.
type NoteEvent struct {
	Kind  NoteEventKind
	Pitch Pitch
}

// DiffEvents derives the discrete events that transition prev into next:
// a NoteOff for every pitch in prev but not next, then a NoteOn for every
// pitch in next but not prev. Events are ordered by kind (offs first) and
// ascending pitch so the result is deterministic. Returns nil when the
// sets are equal.
func DiffEvents(prev, next PitchSet) []NoteEvent {
	var events []NoteEvent
	for _, p := range prev.Sorted() {
		if !next.Contains(p) {
			events = append(events, NoteEvent{Kind: NoteOff, Pitch: p})
		}
	}
	for _, p := range next.Sorted() {
		if !prev.Contains(p) {
			events = append(events, NoteEvent{Kind: NoteOn, Pitch: p})
		}
	}
	return events
}
