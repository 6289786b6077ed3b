package graph

import "fmt"

// Edge connects a source node handle to a target node handle.
// Edges are identified by their four fields; there is no separate id, so
// equality survives serialization round trips.
type Edge struct {
	Source       string
	SourceHandle string
	Target       string
	TargetHandle string
}

// Key is the edge's identity, used for diffing snapshots.
func (e Edge) Key() string {
	return e.Source + ":" + e.SourceHandle + "->" + e.Target + ":" + e.TargetHandle
}

// StateKey identifies the carried-forward note state slot for this edge.
func (e Edge) StateKey() string {
	return e.Source + "-" + e.Target
}

// PortOccupiedError reports an attempt to wire a second edge into a target
// port that already has a source.
type PortOccupiedError struct {
	Target       string
	TargetHandle string
}

func (e *PortOccupiedError) Error() string {
	return fmt.Sprintf("port %s on node %s already has a source", e.TargetHandle, e.Target)
}

// AddEdge admits e into edges, enforcing that at most one edge feeds any
// (target, targetHandle) pair. The input slice is not modified.
func AddEdge(edges []Edge, e Edge) ([]Edge, error) {
	for _, existing := range edges {
		if existing.Target == e.Target && existing.TargetHandle == e.TargetHandle {
			return nil, &PortOccupiedError{Target: e.Target, TargetHandle: e.TargetHandle}
		}
	}
	out := make([]Edge, len(edges), len(edges)+1)
	copy(out, edges)
	return append(out, e), nil
}

// RemoveEdge returns edges without the edge matching key. The input slice
// is not modified.
func RemoveEdge(edges []Edge, key string) []Edge {
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.Key() != key {
			out = append(out, e)
		}
	}
	return out
}

// RemoveNode returns nodes without the node matching id, plus the edges
// that survive (every edge touching the node is dropped). Input slices are
// not modified.
func RemoveNode(nodes []*Node, edges []Edge, id string) ([]*Node, []Edge) {
	outNodes := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.ID != id {
			outNodes = append(outNodes, n)
		}
	}
	outEdges := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.Source != id && e.Target != id {
			outEdges = append(outEdges, e)
		}
	}
	return outNodes, outEdges
}
