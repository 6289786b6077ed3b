// Package graph defines the patch graph data model: role-tagged nodes,
// typed edges, the port/handle naming vocabulary, pitch sets with
// note-event diffing, and the automatable parameter type.
//
// The graph is a value-oriented model. A (nodes, edges) pair is treated as
// an immutable snapshot: edits never mutate a snapshot in place, they
// produce a new pair which is handed to the engine. The only cross-tick
// mutable state in the whole system is the engine-owned NoteState map,
// which records the pitches that were active on each note-to-instrument
// edge as of the previous trace pass.
package graph
