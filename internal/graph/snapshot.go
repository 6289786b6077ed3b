package graph

// Snapshot is one immutable (nodes, edges) graph revision. Edits never
// mutate a snapshot; they build a new one and hand it to the engine, which
// diffs it against the previous revision.
type Snapshot struct {
	Nodes []*Node
	Edges []Edge
}

// Node looks up a node by id. Graphs are small (tens of nodes), so a
// linear scan is fine.
func (s Snapshot) Node(id string) (*Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// NoteState is the engine's only cross-tick memory: for each
// note-to-instrument edge (keyed by Edge.StateKey), the pitches that were
// active as of the previous trace pass. It is owned by the tracer and must
// survive snapshot replacement so in-flight note-off bookkeeping is not
// lost across an edit.
type NoteState map[string]PitchSet

// Clone returns an independent deep copy.
func (ns NoteState) Clone() NoteState {
	out := make(NoteState, len(ns))
	for k, v := range ns {
		out[k] = v.Clone()
	}
	return out
}
