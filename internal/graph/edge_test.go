package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdge_Admits(t *testing.T) {
	e := Edge{Source: "a", SourceHandle: PortNotesOut, Target: "b", TargetHandle: PortNotesIn}

	edges, err := AddEdge(nil, e)
	require.NoError(t, err)
	assert.Equal(t, []Edge{e}, edges)
}

func TestAddEdge_RejectsOccupiedPort(t *testing.T) {
	first := Edge{Source: "a", SourceHandle: PortNotesOut, Target: "c", TargetHandle: PortNotesIn}
	second := Edge{Source: "b", SourceHandle: PortNotesOut, Target: "c", TargetHandle: PortNotesIn}

	edges, err := AddEdge(nil, first)
	require.NoError(t, err)

	_, err = AddEdge(edges, second)
	var poe *PortOccupiedError
	require.ErrorAs(t, err, &poe)
	assert.Equal(t, "c", poe.Target)
	assert.Equal(t, PortNotesIn, poe.TargetHandle)
}

func TestAddEdge_AllowsSameTargetDifferentHandle(t *testing.T) {
	first := Edge{Source: "a", SourceHandle: PortNotesOut, Target: "c", TargetHandle: "in-notes-a"}
	second := Edge{Source: "b", SourceHandle: PortNotesOut, Target: "c", TargetHandle: "in-notes-b"}

	edges, err := AddEdge(nil, first)
	require.NoError(t, err)
	edges, err = AddEdge(edges, second)
	require.NoError(t, err)
	assert.Len(t, edges, 2)
}

func TestAddEdge_DoesNotMutateInput(t *testing.T) {
	first := Edge{Source: "a", SourceHandle: PortNotesOut, Target: "b", TargetHandle: PortNotesIn}
	edges, err := AddEdge(nil, first)
	require.NoError(t, err)

	second := Edge{Source: "a", SourceHandle: PortNotesOut, Target: "c", TargetHandle: PortNotesIn}
	_, err = AddEdge(edges, second)
	require.NoError(t, err)

	assert.Len(t, edges, 1, "original slice must be unchanged")
}

func TestEdge_Key_Identity(t *testing.T) {
	a := Edge{Source: "a", SourceHandle: PortValueOut, Target: "b", TargetHandle: "param-mix"}
	b := Edge{Source: "a", SourceHandle: PortValueOut, Target: "b", TargetHandle: "param-mix"}
	c := Edge{Source: "a", SourceHandle: PortValueOut, Target: "b", TargetHandle: "param-gain"}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestEdge_StateKey(t *testing.T) {
	e := Edge{Source: "gen", SourceHandle: PortNotesOut, Target: "inst", TargetHandle: PortNotesIn}
	assert.Equal(t, "gen-inst", e.StateKey())
}

func TestRemoveEdge(t *testing.T) {
	a := Edge{Source: "a", SourceHandle: PortNotesOut, Target: "b", TargetHandle: PortNotesIn}
	b := Edge{Source: "a", SourceHandle: PortNotesOut, Target: "c", TargetHandle: PortNotesIn}

	out := RemoveEdge([]Edge{a, b}, a.Key())
	assert.Equal(t, []Edge{b}, out)
}

func TestRemoveNode_DropsTouchingEdges(t *testing.T) {
	na := &Node{ID: "a"}
	nb := &Node{ID: "b"}
	nc := &Node{ID: "c"}
	ab := Edge{Source: "a", SourceHandle: PortNotesOut, Target: "b", TargetHandle: PortNotesIn}
	bc := Edge{Source: "b", SourceHandle: PortNotesOut, Target: "c", TargetHandle: PortNotesIn}

	nodes, edges := RemoveNode([]*Node{na, nb, nc}, []Edge{ab, bc}, "b")

	assert.Equal(t, []*Node{na, nc}, nodes)
	assert.Empty(t, edges, "every edge touching the removed node is dropped")
}
