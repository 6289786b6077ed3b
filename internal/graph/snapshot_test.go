package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Node(t *testing.T) {
	s := Snapshot{Nodes: []*Node{{ID: "a"}, {ID: "b"}}}

	n, ok := s.Node("b")
	require.True(t, ok)
	assert.Equal(t, "b", n.ID)

	_, ok = s.Node("c")
	assert.False(t, ok)
}

func TestNoteState_Clone_Deep(t *testing.T) {
	ns := NoteState{"gen-inst": NewPitchSet(60)}
	c := ns.Clone()
	c["gen-inst"].Add(64)

	assert.False(t, ns["gen-inst"].Contains(64), "clone must not share pitch sets")
}
