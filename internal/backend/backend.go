// Package backend provides boundary implementations of the audio
// capability set the engine calls into: a structured-logging backend for
// headless runs and diagnostics, and a MIDI-out instrument.
//
// Real signal processing is out of scope for this module; these
// implementations make the engine's connect/disconnect and note/parameter
// traffic observable without an audio device.
package backend

import (
	"log/slog"

	"github.com/roach88/patchbay/internal/graph"
)

// Dest is the AudioDest value handed out by this backend's destinations.
type Dest struct {
	Node   string
	Handle string
}

// LogInstrument logs accepted note events and connection changes.
type LogInstrument struct {
	name string
	log  *slog.Logger
	dest graph.AudioDest
}

// NewLogInstrument creates a logging instrument.
func NewLogInstrument(name string, log *slog.Logger) *LogInstrument {
	return &LogInstrument{name: name, log: log}
}

// ConnectTo implements graph.SignalSource.
func (li *LogInstrument) ConnectTo(dest graph.AudioDest) {
	li.dest = dest
	li.log.Info("instrument connected", "instrument", li.name, "dest", dest)
}

// Disconnect implements graph.SignalSource.
func (li *LogInstrument) Disconnect() {
	li.dest = nil
	li.log.Info("instrument disconnected", "instrument", li.name)
}

// Accept implements graph.Instrument.
func (li *LogInstrument) Accept(events []graph.NoteEvent) {
	for _, ev := range events {
		li.log.Info("note event",
			"instrument", li.name,
			"kind", ev.Kind.String(),
			"pitch", int(ev.Pitch),
		)
	}
}

// LogEffect logs connection changes and exposes one destination per
// declared signal input handle.
type LogEffect struct {
	name    string
	log     *slog.Logger
	inputs  map[string]Dest
	dest    graph.AudioDest
}

// NewLogEffect creates a logging effect exposing the given signal input
// handles.
func NewLogEffect(name string, log *slog.Logger, inputHandles ...string) *LogEffect {
	inputs := make(map[string]Dest, len(inputHandles))
	for _, h := range inputHandles {
		inputs[h] = Dest{Node: name, Handle: h}
	}
	return &LogEffect{name: name, log: log, inputs: inputs}
}

// ConnectTo implements graph.SignalSource.
func (le *LogEffect) ConnectTo(dest graph.AudioDest) {
	le.dest = dest
	le.log.Info("effect connected", "effect", le.name, "dest", dest)
}

// Disconnect implements graph.SignalSource.
func (le *LogEffect) Disconnect() {
	le.dest = nil
	le.log.Info("effect disconnected", "effect", le.name)
}

// ConnectDestination implements graph.Effect.
func (le *LogEffect) ConnectDestination(handle string) (graph.AudioDest, bool) {
	d, ok := le.inputs[handle]
	return d, ok
}

// LogFinal is the terminal sink.
type LogFinal struct {
	name string
}

// NewLogFinal creates the final output node capability.
func NewLogFinal(name string) *LogFinal {
	return &LogFinal{name: name}
}

// Input implements graph.Final.
func (lf *LogFinal) Input() graph.AudioDest {
	return Dest{Node: lf.name, Handle: graph.PortSignalIn}
}
