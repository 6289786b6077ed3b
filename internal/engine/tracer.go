package engine

import (
	"log/slog"

	"github.com/roach88/patchbay/internal/graph"
)

// DefaultMaxSteps caps the number of propagation hops in a single trace
// pass. It only exists to turn a cyclic graph (which the editor should
// never produce) into an abandoned pass instead of unbounded recursion.
const DefaultMaxSteps = 1000

// Tracer is the per-tick forwarding engine. Trace pulls values from every
// root value generator and root note generator, propagates them along
// edges according to fan-in rules, and at each instrument leaf converts
// the level-triggered pitch set into discrete note events by diffing
// against the previous pass.
//
// The tracer owns the only cross-tick state in the system: the NoteState
// map of previously active pitches per note-to-instrument edge. Snapshots
// come and go; this map persists across them.
//
// Trace is synchronous, performs no I/O, and is expected to complete in
// microseconds. It must not run concurrently with itself.
type Tracer struct {
	log      *slog.Logger
	state    graph.NoteState
	maxSteps int
}

// TracerOption configures a Tracer.
type TracerOption func(*Tracer)

// WithTracerLogger sets the logger. Defaults to slog.Default().
func WithTracerLogger(log *slog.Logger) TracerOption {
	return func(tr *Tracer) {
		tr.log = log
	}
}

// WithMaxSteps overrides the per-pass propagation hop budget.
func WithMaxSteps(n int) TracerOption {
	return func(tr *Tracer) {
		tr.maxSteps = n
	}
}

// NewTracer creates a Tracer with empty note state.
func NewTracer(opts ...TracerOption) *Tracer {
	tr := &Tracer{
		log:      slog.Default(),
		state:    make(graph.NoteState),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(tr)
	}
	return tr
}

// State returns a copy of the carried-forward note state, for inspection
// and tests.
func (tr *Tracer) State() graph.NoteState {
	return tr.state.Clone()
}

// Trace runs one forwarding pass over the snapshot at transport time t.
// All effects happen through capabilities on the snapshot's nodes: value
// generators drive parameter changes, note generators drive instrument
// note events.
//
// Values are forwarded before notes. The two passes are otherwise
// independent: a value feeding a note generator's non-note input is not
// supported.
func (tr *Tracer) Trace(t float64, nodes []*graph.Node, edges []graph.Edge) {
	p := &pass{
		tracer: tr,
		t:      t,
		nodes:  indexNodes(nodes),
		out:    outgoingEdges(edges),
		budget: tr.maxSteps,
	}
	p.traceValues(nodes, edges)
	p.traceNotes(nodes, edges)
}

// pass holds the per-invocation traversal state.
type pass struct {
	tracer *Tracer
	t      float64
	nodes  map[string]*graph.Node
	out    map[string][]graph.Edge
	budget int
}

func indexNodes(nodes []*graph.Node) map[string]*graph.Node {
	idx := make(map[string]*graph.Node, len(nodes))
	for _, n := range nodes {
		idx[n.ID] = n
	}
	return idx
}

func outgoingEdges(edges []graph.Edge) map[string][]graph.Edge {
	out := make(map[string][]graph.Edge)
	for _, e := range edges {
		out[e.Source] = append(out[e.Source], e)
	}
	return out
}

// spend consumes one hop from the pass budget. Returns false when the
// budget is exhausted, which abandons the branch; a well-formed acyclic
// patch never gets near the limit.
func (p *pass) spend() bool {
	if p.budget <= 0 {
		p.tracer.log.Warn("trace pass exceeded step budget, abandoning branch",
			"max_steps", p.tracer.maxSteps)
		return false
	}
	p.budget--
	return true
}

// traceValues runs the value sub-pass: seed every value generator with no
// incoming edges, then forward along value edges. Intermediate value nodes
// run only once their full fan-in has been delivered; parameter handles on
// instruments and effects are terminal.
func (p *pass) traceValues(nodes []*graph.Node, edges []graph.Edge) {
	// Required fan-in per value node = count of incoming edges.
	fanIn := make(map[string]int)
	for _, e := range edges {
		if tgt, ok := p.nodes[e.Target]; ok && tgt.Role == graph.RoleValue {
			fanIn[tgt.ID]++
		}
	}
	received := make(map[string]int)

	for _, n := range nodes {
		if n.Role != graph.RoleValue || fanIn[n.ID] != 0 {
			continue
		}
		if n.Value == nil {
			p.tracer.log.Warn("value node without generator capability", "node", n.ID)
			continue
		}
		p.forwardValue(n, n.Value.Generate(p.t), fanIn, received)
	}
}

// forwardValue delivers v from src along every value edge.
func (p *pass) forwardValue(src *graph.Node, v float64, fanIn, received map[string]int) {
	for _, e := range p.out[src.ID] {
		if e.SourceHandle != graph.PortValueOut {
			continue
		}
		if !p.spend() {
			return
		}
		tgt, ok := p.nodes[e.Target]
		if !ok {
			p.tracer.log.Warn("value edge targets missing node, abandoning branch", "edge", e.Key())
			continue
		}

		switch tgt.Role {
		case graph.RoleValue:
			if in, ok := tgt.Value.(graph.ValueInput); ok {
				in.SetInput(e.TargetHandle, v)
			}
			need := fanIn[tgt.ID]
			if received[tgt.ID] >= need {
				panic(&InvariantError{
					Code:    CodeFanIn,
					Message: "value node received more inputs than its fan-in",
					Edge:    e.Key(),
					Node:    tgt.ID,
				})
			}
			received[tgt.ID]++
			// Only a fully fed combinator generates; dead branches simply
			// stop accumulating here.
			if received[tgt.ID] == need {
				p.forwardValue(tgt, tgt.Value.Generate(p.t), fanIn, received)
			}

		case graph.RoleEffect, graph.RoleInstrument:
			param, ok := tgt.Param(e.TargetHandle)
			if !ok {
				panic(&InvariantError{
					Code:    CodeBadHandle,
					Message: "node does not expose parameter " + e.TargetHandle,
					Edge:    e.Key(),
					Node:    tgt.ID,
				})
			}
			param.Change(v)

		default:
			p.tracer.log.Warn("value edge into unexpected role, abandoning branch",
				"edge", e.Key(), "role", tgt.Role.String())
		}
	}
}

// traceNotes runs the note sub-pass: seed every zero-arity note generator
// with no incoming edges, then forward pitch sets along note edges.
// Arity-1 generators chain immediately; higher arities accumulate partial
// inputs per handle until complete. Instrument targets are terminal and
// receive the diffed note events.
func (p *pass) traceNotes(nodes []*graph.Node, edges []graph.Edge) {
	incoming := make(map[string]int)
	for _, e := range edges {
		if graph.IsNoteInput(e.TargetHandle) {
			incoming[e.Target]++
		}
	}
	partial := make(map[string]map[string]graph.PitchSet)

	for _, n := range nodes {
		if n.Role != graph.RoleNotes || incoming[n.ID] != 0 {
			continue
		}
		if n.Notes == nil {
			p.tracer.log.Warn("note node without generator capability", "node", n.ID)
			continue
		}
		if n.Notes.Arity() != 0 {
			// Not yet wired up; the user will get there. Try again next tick.
			continue
		}
		p.forwardNotes(n, n.Notes.Generate(p.t, nil), partial)
	}
}

// forwardNotes delivers pitches from src along every note edge.
func (p *pass) forwardNotes(src *graph.Node, pitches graph.PitchSet, partial map[string]map[string]graph.PitchSet) {
	for _, e := range p.out[src.ID] {
		if e.SourceHandle != graph.PortNotesOut {
			continue
		}
		if !p.spend() {
			return
		}
		tgt, ok := p.nodes[e.Target]
		if !ok {
			p.tracer.log.Warn("note edge targets missing node, abandoning branch", "edge", e.Key())
			continue
		}

		switch tgt.Role {
		case graph.RoleNotes:
			p.forwardToNoteGenerator(e, tgt, pitches, partial)

		case graph.RoleInstrument:
			p.emitNoteEvents(e, tgt, pitches)

		default:
			p.tracer.log.Warn("note edge into unexpected role, abandoning branch",
				"edge", e.Key(), "role", tgt.Role.String())
		}
	}
}

// forwardToNoteGenerator feeds a downstream note generator, running it as
// soon as its declared arity is satisfied.
func (p *pass) forwardToNoteGenerator(e graph.Edge, tgt *graph.Node, pitches graph.PitchSet, partial map[string]map[string]graph.PitchSet) {
	switch arity := tgt.Notes.Arity(); {
	case arity == 0:
		// A root generator is not a valid propagation target. The graph is
		// user-editable, so this is transient, not fatal.
		p.tracer.log.Warn("note edge into zero-arity generator, abandoning branch",
			"edge", e.Key(), "node", tgt.ID)

	case arity > graph.MaxNoteArity:
		p.tracer.log.Warn("note generator arity exceeds limit, abandoning branch",
			"edge", e.Key(), "node", tgt.ID, "arity", arity, "max", graph.MaxNoteArity)

	case arity == 1:
		// Single-input chaining needs no buffering.
		out := tgt.Notes.Generate(p.t, map[string]graph.PitchSet{e.TargetHandle: pitches})
		p.forwardNotes(tgt, out, partial)

	default:
		inputs := partial[tgt.ID]
		if inputs == nil {
			inputs = make(map[string]graph.PitchSet, arity)
			partial[tgt.ID] = inputs
		}
		inputs[e.TargetHandle] = pitches
		if len(inputs) == arity {
			p.forwardNotes(tgt, tgt.Notes.Generate(p.t, inputs), partial)
		}
	}
}

// emitNoteEvents performs discrete-event synthesis at an instrument leaf:
// diff the new pitch set against the remembered previous set for this
// edge, deliver the resulting events (if any), and remember the new set.
func (p *pass) emitNoteEvents(e graph.Edge, tgt *graph.Node, pitches graph.PitchSet) {
	key := e.StateKey()
	prev := p.tracer.state[key]
	events := graph.DiffEvents(prev, pitches)
	if len(events) > 0 {
		tgt.Instrument.Accept(events)
	}
	p.tracer.state[key] = pitches.Clone()
}
