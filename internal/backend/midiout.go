package backend

import (
	"log/slog"

	"gitlab.com/gomidi/midi/v2"

	"github.com/roach88/patchbay/internal/graph"
)

// MIDIInstrument forwards note events to a MIDI send function, typically
// a port opened through a gomidi driver. MIDI has no signal routing, so
// the signal-source methods only track the destination for diagnostics.
type MIDIInstrument struct {
	send     func(midi.Message) error
	channel  uint8
	velocity uint8
	log      *slog.Logger
	dest     graph.AudioDest
}

// NewMIDIInstrument creates an instrument sending on the given channel.
// Velocity defaults to 100 and can be automated via VelocityParam.
func NewMIDIInstrument(send func(midi.Message) error, channel uint8, log *slog.Logger) *MIDIInstrument {
	return &MIDIInstrument{
		send:     send,
		channel:  channel,
		velocity: 100,
		log:      log,
	}
}

// ConnectTo implements graph.SignalSource.
func (m *MIDIInstrument) ConnectTo(dest graph.AudioDest) {
	m.dest = dest
}

// Disconnect implements graph.SignalSource.
func (m *MIDIInstrument) Disconnect() {
	m.dest = nil
}

// Accept implements graph.Instrument, converting each note event to its
// MIDI message. Send failures are logged, not returned: a dropped message
// must not abort the rest of the batch, and the next tick's diff runs
// against what the engine believes anyway.
func (m *MIDIInstrument) Accept(events []graph.NoteEvent) {
	for _, ev := range events {
		var msg midi.Message
		switch ev.Kind {
		case graph.NoteOn:
			msg = midi.NoteOn(m.channel, uint8(ev.Pitch), m.velocity)
		case graph.NoteOff:
			msg = midi.NoteOff(m.channel, uint8(ev.Pitch))
		default:
			m.log.Warn("unknown note event kind", "kind", int(ev.Kind))
			continue
		}
		if err := m.send(msg); err != nil {
			m.log.Error("midi send failed",
				"error", err,
				"kind", ev.Kind.String(),
				"pitch", int(ev.Pitch),
			)
		}
	}
}

// VelocityParam exposes note-on velocity as an automatable parameter in
// [0,1], scaled onto the MIDI 0-127 range.
func (m *MIDIInstrument) VelocityParam() *graph.Automatable {
	return graph.NewAutomatable(func(v float64) {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		m.velocity = uint8(v * 127)
	})
}
