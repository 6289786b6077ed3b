// Package engine implements the patch-graph runtime: the connection
// mutator that diffs graph snapshots against the audio backend, the
// per-tick tracer that forwards generator outputs through the graph, and
// the player that schedules trace passes while playback is active.
//
// Error tiers:
//   - Invariant violations (impossible graph shapes reaching the engine)
//     panic with *InvariantError and are expected to surface at a
//     top-level handler.
//   - Transient conditions in user-editable graphs are logged and the
//     affected branch of the current pass is abandoned; generators are
//     pure functions of time, so the next tick retries from scratch.
package engine
