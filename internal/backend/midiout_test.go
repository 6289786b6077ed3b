package backend

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"

	"github.com/roach88/patchbay/internal/graph"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMIDIInstrument_Accept_SendsNoteMessages(t *testing.T) {
	var sent []midi.Message
	inst := NewMIDIInstrument(func(m midi.Message) error {
		sent = append(sent, m)
		return nil
	}, 0, quietLogger())

	inst.Accept([]graph.NoteEvent{
		{Kind: graph.NoteOff, Pitch: 60},
		{Kind: graph.NoteOn, Pitch: 64},
	})

	require.Len(t, sent, 2)

	var ch, key, vel uint8
	require.True(t, sent[0].GetNoteOff(&ch, &key, &vel))
	assert.Equal(t, uint8(0), ch)
	assert.Equal(t, uint8(60), key)

	require.True(t, sent[1].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, uint8(64), key)
	assert.Equal(t, uint8(100), vel, "default velocity")
}

func TestMIDIInstrument_Accept_UsesChannel(t *testing.T) {
	var sent []midi.Message
	inst := NewMIDIInstrument(func(m midi.Message) error {
		sent = append(sent, m)
		return nil
	}, 9, quietLogger())

	inst.Accept([]graph.NoteEvent{{Kind: graph.NoteOn, Pitch: 36}})

	var ch, key, vel uint8
	require.True(t, sent[0].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, uint8(9), ch)
}

func TestMIDIInstrument_Accept_SendFailureDoesNotAbortBatch(t *testing.T) {
	calls := 0
	inst := NewMIDIInstrument(func(midi.Message) error {
		calls++
		return errors.New("port gone")
	}, 0, quietLogger())

	assert.NotPanics(t, func() {
		inst.Accept([]graph.NoteEvent{
			{Kind: graph.NoteOn, Pitch: 60},
			{Kind: graph.NoteOn, Pitch: 64},
		})
	})
	assert.Equal(t, 2, calls, "every event is still attempted")
}

func TestMIDIInstrument_VelocityParam_Scales(t *testing.T) {
	var sent []midi.Message
	inst := NewMIDIInstrument(func(m midi.Message) error {
		sent = append(sent, m)
		return nil
	}, 0, quietLogger())

	inst.VelocityParam().Change(1.0)
	inst.Accept([]graph.NoteEvent{{Kind: graph.NoteOn, Pitch: 60}})

	var ch, key, vel uint8
	require.True(t, sent[0].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, uint8(127), vel)
}

func TestMIDIInstrument_VelocityParam_Clamps(t *testing.T) {
	var sent []midi.Message
	inst := NewMIDIInstrument(func(m midi.Message) error {
		sent = append(sent, m)
		return nil
	}, 0, quietLogger())

	inst.VelocityParam().Change(-3.5)
	inst.Accept([]graph.NoteEvent{{Kind: graph.NoteOn, Pitch: 60}})

	var ch, key, vel uint8
	require.True(t, sent[0].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, uint8(0), vel)
}

func TestMIDIInstrument_SignalSource(t *testing.T) {
	inst := NewMIDIInstrument(func(midi.Message) error { return nil }, 0, quietLogger())

	inst.ConnectTo("dest:final")
	inst.Disconnect()
	// MIDI has no audio routing; connect/disconnect must simply be safe.
}
