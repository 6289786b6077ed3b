package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// Role tags a node with exactly one of the five graph roles.
// The set is closed; engine code switches exhaustively over it.
type Role int

const (
	// RoleNotes is a note generator: a pure function of time (and up to
	// eight note inputs) producing the set of currently active pitches.
	RoleNotes Role = iota + 1
	// RoleInstrument turns discrete note events into sound and acts as a
	// signal source.
	RoleInstrument
	// RoleEffect transforms an incoming signal and acts as a signal source.
	RoleEffect
	// RoleValue is a value generator: a pure function of time producing a
	// normalized scalar in [0,1].
	RoleValue
	// RoleFinal is the unique terminal signal sink.
	RoleFinal
)

// String returns the role name used in logs.
func (r Role) String() string {
	switch r {
	case RoleNotes:
		return "notes"
	case RoleInstrument:
		return "instrument"
	case RoleEffect:
		return "effect"
	case RoleValue:
		return "value"
	case RoleFinal:
		return "final"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// MaxNoteArity is the largest declared input arity a note generator may have.
const MaxNoteArity = 8

// AudioDest is an opaque connection destination owned by the audio backend.
// The engine only ever passes it from a destination lookup to ConnectTo.
type AudioDest any

// SignalSource is the audio capability shared by instruments and effects:
// their output can be routed into exactly one destination at a time.
type SignalSource interface {
	ConnectTo(dest AudioDest)
	Disconnect()
}

// Instrument accepts discrete note events and produces a signal.
type Instrument interface {
	SignalSource
	Accept(events []NoteEvent)
}

// Effect transforms a signal and exposes per-handle connection destinations
// for its inputs.
type Effect interface {
	SignalSource
	// ConnectDestination resolves a signal-input handle to the backend
	// destination behind it. Returns false for handles the effect does
	// not expose.
	ConnectDestination(handle string) (AudioDest, bool)
}

// Final is the terminal signal sink with a single input.
type Final interface {
	Input() AudioDest
}

// NoteGenerator produces the set of active pitches at a transport time.
// Implementations must be pure functions of (t, inputs): the engine may
// call Generate any number of times per tick and relies on re-running a
// trace from scratch after transient failures.
type NoteGenerator interface {
	// Generate returns the active pitches at time t. inputs maps note
	// input handles to upstream pitch sets; it is nil for generators with
	// arity zero.
	Generate(t float64, inputs map[string]PitchSet) PitchSet

	// Arity is the number of distinct note-bearing edges the generator
	// requires before it can run: 0 (root-eligible) through MaxNoteArity.
	Arity() int
}

// ValueGenerator produces a normalized scalar in [0,1] at a transport time.
type ValueGenerator interface {
	Generate(t float64) float64
}

// ValueInput is optionally implemented by value generators that combine
// upstream values. The engine delivers each incoming value before the
// generator's fan-in is considered satisfied.
type ValueInput interface {
	SetInput(handle string, v float64)
}

// Node is one vertex of the patch graph. Exactly one capability field is
// populated, matching Role; Params is populated for instruments and
// effects. Position is presentation-only and ignored by the engine.
type Node struct {
	ID   string
	Type string // codec registry tag, e.g. "reverb"
	X, Y float64
	Role Role

	Notes      NoteGenerator  // RoleNotes
	Instrument Instrument     // RoleInstrument
	Effect     Effect         // RoleEffect
	Value      ValueGenerator // RoleValue
	Final      Final          // RoleFinal

	// Params maps param handles ("param-<name>") to automatable
	// parameters for instrument and effect nodes.
	Params map[string]*Automatable

	// Data is the codec-visible payload (decoded form).
	Data map[string]any
}

// NewID returns a fresh time-sortable node identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Param resolves a param handle on the node.
func (n *Node) Param(handle string) (*Automatable, bool) {
	a, ok := n.Params[handle]
	return a, ok
}

// Source returns the node's signal-source capability, or nil if the role
// has none.
func (n *Node) Source() SignalSource {
	switch n.Role {
	case RoleInstrument:
		return n.Instrument
	case RoleEffect:
		return n.Effect
	default:
		return nil
	}
}
