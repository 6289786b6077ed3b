package engine

import (
	"log/slog"

	"github.com/roach88/patchbay/internal/graph"
)

// Action distinguishes the two edge notifications the mutator fires.
type Action int

const (
	// Connect means the edge appeared in the new snapshot.
	Connect Action = iota + 1
	// Disconnect means the edge disappeared from the new snapshot.
	Disconnect
)

// String returns the action name used in logs.
func (a Action) String() string {
	switch a {
	case Connect:
		return "connect"
	case Disconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// Notification records one connect/disconnect fired during a diff.
type Notification struct {
	Edge   graph.Edge
	Action Action
}

// Mutator applies the difference between two graph snapshots to the
// external audio backend and to parameter automation bindings.
//
// It runs synchronously inside the host's edit-handling path, never
// concurrently with a trace pass on the same snapshot boundary.
type Mutator struct {
	log *slog.Logger

	// onFinalConnect fires once, the first time a signal edge connects
	// into the final node. Hosts use it to auto-start playback.
	onFinalConnect func()
	finalConnected bool
}

// MutatorOption configures a Mutator.
type MutatorOption func(*Mutator)

// WithFinalConnectHook registers the one-shot hook fired on the first
// successful signal connection into the final node.
func WithFinalConnectHook(fn func()) MutatorOption {
	return func(m *Mutator) {
		m.onFinalConnect = fn
	}
}

// WithMutatorLogger sets the logger. Defaults to slog.Default().
func WithMutatorLogger(log *slog.Logger) MutatorOption {
	return func(m *Mutator) {
		m.log = log
	}
}

// NewMutator creates a Mutator.
func NewMutator(opts ...MutatorOption) *Mutator {
	m := &Mutator{log: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DiffAndApply computes the edge difference between the old and new
// snapshots and fires exactly one connect/disconnect notification per edge
// that appeared or disappeared:
//
//  1. Every edge touching a node removed from the graph is disconnected
//     first, so a removed node never leaves a dangling connection.
//  2. Every remaining edge present only in the old snapshot is
//     disconnected, resolved against the node set that still contains both
//     endpoints (the old union).
//  3. Every edge present only in the new snapshot is connected, resolved
//     against the new union.
//
// Signal edges wire or unwire the backend; value edges toggle the target
// parameter's automation binding; note edges carry data only at trace time
// and need no mutation-time action.
//
// Structurally invalid edges (incompatible role pairings, unknown handles,
// missing endpoints) panic with *InvariantError.
func (m *Mutator) DiffAndApply(oldNodes []*graph.Node, oldEdges []graph.Edge, newNodes []*graph.Node, newEdges []graph.Edge) []Notification {
	oldByKey := make(map[string]graph.Edge, len(oldEdges))
	for _, e := range oldEdges {
		oldByKey[e.Key()] = e
	}
	newByKey := make(map[string]graph.Edge, len(newEdges))
	for _, e := range newEdges {
		newByKey[e.Key()] = e
	}

	newNodeIDs := make(map[string]bool, len(newNodes))
	for _, n := range newNodes {
		newNodeIDs[n.ID] = true
	}
	removed := make(map[string]bool)
	for _, n := range oldNodes {
		if !newNodeIDs[n.ID] {
			removed[n.ID] = true
		}
	}

	// Disconnects resolve against the old union (old nodes first), since
	// that is the set guaranteed to still contain both endpoints; connects
	// resolve against the new union.
	oldIndex := indexUnion(oldNodes, newNodes)
	newIndex := indexUnion(newNodes, oldNodes)

	var fired []Notification
	seen := make(map[string]bool)

	// Implicit cascade: edges touching a removed node go first.
	for _, e := range oldEdges {
		if (removed[e.Source] || removed[e.Target]) && !seen[e.Key()] {
			seen[e.Key()] = true
			m.apply(e, Disconnect, oldIndex)
			fired = append(fired, Notification{Edge: e, Action: Disconnect})
		}
	}

	for _, e := range oldEdges {
		if _, stillThere := newByKey[e.Key()]; stillThere || seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		m.apply(e, Disconnect, oldIndex)
		fired = append(fired, Notification{Edge: e, Action: Disconnect})
	}

	for _, e := range newEdges {
		if _, wasThere := oldByKey[e.Key()]; wasThere {
			continue
		}
		m.apply(e, Connect, newIndex)
		fired = append(fired, Notification{Edge: e, Action: Connect})
	}

	return fired
}

// indexUnion indexes primary and secondary nodes by id, primary winning on
// collisions.
func indexUnion(primary, secondary []*graph.Node) map[string]*graph.Node {
	idx := make(map[string]*graph.Node, len(primary)+len(secondary))
	for _, n := range secondary {
		idx[n.ID] = n
	}
	for _, n := range primary {
		idx[n.ID] = n
	}
	return idx
}

// apply routes one notification by the target handle's class.
func (m *Mutator) apply(e graph.Edge, action Action, nodes map[string]*graph.Node) {
	src, ok := nodes[e.Source]
	if !ok {
		panic(&InvariantError{Code: CodeUnknownNode, Message: "edge source not in node set", Edge: e.Key(), Node: e.Source})
	}
	tgt, ok := nodes[e.Target]
	if !ok {
		panic(&InvariantError{Code: CodeUnknownNode, Message: "edge target not in node set", Edge: e.Key(), Node: e.Target})
	}

	switch {
	case graph.IsSignalInput(e.TargetHandle):
		m.applySignal(e, action, src, tgt)
	case graph.IsParamInput(e.TargetHandle):
		m.applyValue(e, action, src, tgt)
	case graph.IsNoteInput(e.TargetHandle):
		// Note edges are pull-based: the tracer reads them every tick, so
		// there is nothing to wire here.
		m.log.Debug("note edge", "edge", e.Key(), "action", action.String())
	default:
		panic(&InvariantError{Code: CodeBadHandle, Message: "target handle outside port vocabulary: " + e.TargetHandle, Edge: e.Key()})
	}
}

// applySignal wires or unwires an audio connection in the backend.
func (m *Mutator) applySignal(e graph.Edge, action Action, src, tgt *graph.Node) {
	source := src.Source()
	if source == nil {
		panic(&InvariantError{Code: CodeRolePairing, Message: "node with role " + src.Role.String() + " cannot be a signal source", Edge: e.Key(), Node: src.ID})
	}
	if tgt.Role != graph.RoleEffect && tgt.Role != graph.RoleFinal {
		panic(&InvariantError{Code: CodeRolePairing, Message: "node with role " + tgt.Role.String() + " cannot be a signal target", Edge: e.Key(), Node: tgt.ID})
	}

	if action == Disconnect {
		source.Disconnect()
		m.log.Debug("signal disconnected", "edge", e.Key())
		return
	}

	var dest graph.AudioDest
	if tgt.Role == graph.RoleFinal {
		dest = tgt.Final.Input()
	} else {
		d, ok := tgt.Effect.ConnectDestination(e.TargetHandle)
		if !ok {
			panic(&InvariantError{Code: CodeBadHandle, Message: "effect does not expose signal input " + e.TargetHandle, Edge: e.Key(), Node: tgt.ID})
		}
		dest = d
	}
	source.ConnectTo(dest)
	m.log.Debug("signal connected", "edge", e.Key())

	if tgt.Role == graph.RoleFinal && !m.finalConnected {
		m.finalConnected = true
		if m.onFinalConnect != nil {
			m.onFinalConnect()
		}
	}
}

// applyValue toggles a parameter automation binding.
func (m *Mutator) applyValue(e graph.Edge, action Action, src, tgt *graph.Node) {
	param, ok := tgt.Param(e.TargetHandle)
	if !ok {
		panic(&InvariantError{Code: CodeBadHandle, Message: "node does not expose parameter " + e.TargetHandle, Edge: e.Key(), Node: tgt.ID})
	}

	if action == Connect {
		param.SetControlledBy(src.ID)
		m.log.Debug("parameter automated", "edge", e.Key(), "source", src.ID)
	} else {
		param.ClearControlledBy()
		m.log.Debug("parameter released", "edge", e.Key())
	}
}
