package testutil

import "github.com/roach88/patchbay/internal/graph"

// RecorderInstrument records every capability call the engine makes.
type RecorderInstrument struct {
	Accepted    [][]graph.NoteEvent
	Connects    []graph.AudioDest
	Disconnects int
}

// NewRecorderInstrument creates an empty recorder.
func NewRecorderInstrument() *RecorderInstrument {
	return &RecorderInstrument{}
}

// ConnectTo implements graph.SignalSource.
func (r *RecorderInstrument) ConnectTo(dest graph.AudioDest) {
	r.Connects = append(r.Connects, dest)
}

// Disconnect implements graph.SignalSource.
func (r *RecorderInstrument) Disconnect() {
	r.Disconnects++
}

// Accept implements graph.Instrument.
func (r *RecorderInstrument) Accept(events []graph.NoteEvent) {
	batch := make([]graph.NoteEvent, len(events))
	copy(batch, events)
	r.Accepted = append(r.Accepted, batch)
}

// AllEvents flattens the accepted batches.
func (r *RecorderInstrument) AllEvents() []graph.NoteEvent {
	var out []graph.NoteEvent
	for _, batch := range r.Accepted {
		out = append(out, batch...)
	}
	return out
}

// RecorderEffect records connection traffic and exposes destinations for
// a fixed set of signal input handles.
type RecorderEffect struct {
	Handles     []string
	Connects    []graph.AudioDest
	Disconnects int
}

// NewRecorderEffect creates a recorder exposing the given input handles.
// With no handles it exposes the main signal input.
func NewRecorderEffect(handles ...string) *RecorderEffect {
	if len(handles) == 0 {
		handles = []string{graph.PortSignalIn}
	}
	return &RecorderEffect{Handles: handles}
}

// ConnectTo implements graph.SignalSource.
func (r *RecorderEffect) ConnectTo(dest graph.AudioDest) {
	r.Connects = append(r.Connects, dest)
}

// Disconnect implements graph.SignalSource.
func (r *RecorderEffect) Disconnect() {
	r.Disconnects++
}

// ConnectDestination implements graph.Effect.
func (r *RecorderEffect) ConnectDestination(handle string) (graph.AudioDest, bool) {
	for _, h := range r.Handles {
		if h == handle {
			return "dest:" + handle, true
		}
	}
	return nil, false
}

// RecorderFinal is a final sink with a distinguishable input destination.
type RecorderFinal struct{}

// Input implements graph.Final.
func (RecorderFinal) Input() graph.AudioDest {
	return "dest:final"
}

// ChangeLog collects parameter changes; wrap Record in a graph
// automatable to capture what the tracer delivers.
type ChangeLog struct {
	Values []float64
}

// Record appends a delivered value.
func (c *ChangeLog) Record(v float64) {
	c.Values = append(c.Values, v)
}

// Param builds an automatable parameter that records into the log.
func (c *ChangeLog) Param() *graph.Automatable {
	return graph.NewAutomatable(c.Record)
}
