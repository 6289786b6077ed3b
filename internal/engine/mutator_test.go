package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/patchbay/internal/graph"
	"github.com/roach88/patchbay/internal/testutil"
)

func instrumentNode(id string, rec *testutil.RecorderInstrument) *graph.Node {
	return &graph.Node{ID: id, Role: graph.RoleInstrument, Instrument: rec}
}

func finalNode(id string) *graph.Node {
	return &graph.Node{ID: id, Role: graph.RoleFinal, Final: testutil.RecorderFinal{}}
}

func TestMutator_DiffAndApply_ConnectSignalToFinal(t *testing.T) {
	rec := testutil.NewRecorderInstrument()
	nodes := []*graph.Node{instrumentNode("inst", rec), finalNode("out")}
	e := graph.Edge{Source: "inst", SourceHandle: graph.PortSignalOut, Target: "out", TargetHandle: graph.PortSignalIn}

	m := NewMutator(WithMutatorLogger(quietLogger()))
	fired := m.DiffAndApply(nil, nil, nodes, []graph.Edge{e})

	require.Equal(t, []Notification{{Edge: e, Action: Connect}}, fired)
	assert.Equal(t, []graph.AudioDest{"dest:final"}, rec.Connects)
}

func TestMutator_DiffAndApply_ConnectSignalToEffect(t *testing.T) {
	inst := testutil.NewRecorderInstrument()
	fx := testutil.NewRecorderEffect()
	nodes := []*graph.Node{
		instrumentNode("inst", inst),
		{ID: "fx", Role: graph.RoleEffect, Effect: fx},
	}
	e := graph.Edge{Source: "inst", SourceHandle: graph.PortSignalOut, Target: "fx", TargetHandle: graph.PortSignalIn}

	m := NewMutator(WithMutatorLogger(quietLogger()))
	m.DiffAndApply(nil, nil, nodes, []graph.Edge{e})

	assert.Equal(t, []graph.AudioDest{"dest:" + graph.PortSignalIn}, inst.Connects)
}

func TestMutator_DiffAndApply_DisconnectRemovedEdge(t *testing.T) {
	rec := testutil.NewRecorderInstrument()
	nodes := []*graph.Node{instrumentNode("inst", rec), finalNode("out")}
	e := graph.Edge{Source: "inst", SourceHandle: graph.PortSignalOut, Target: "out", TargetHandle: graph.PortSignalIn}

	m := NewMutator(WithMutatorLogger(quietLogger()))
	m.DiffAndApply(nil, nil, nodes, []graph.Edge{e})
	fired := m.DiffAndApply(nodes, []graph.Edge{e}, nodes, nil)

	require.Equal(t, []Notification{{Edge: e, Action: Disconnect}}, fired)
	assert.Equal(t, 1, rec.Disconnects)
}

func TestMutator_DiffAndApply_UnchangedEdgeIsSilent(t *testing.T) {
	rec := testutil.NewRecorderInstrument()
	nodes := []*graph.Node{instrumentNode("inst", rec), finalNode("out")}
	e := graph.Edge{Source: "inst", SourceHandle: graph.PortSignalOut, Target: "out", TargetHandle: graph.PortSignalIn}

	m := NewMutator(WithMutatorLogger(quietLogger()))
	m.DiffAndApply(nil, nil, nodes, []graph.Edge{e})
	fired := m.DiffAndApply(nodes, []graph.Edge{e}, nodes, []graph.Edge{e})

	assert.Empty(t, fired)
	assert.Len(t, rec.Connects, 1, "an edge present on both sides fires nothing")
}

func TestMutator_DiffAndApply_RemovedNodeCascades(t *testing.T) {
	inst := testutil.NewRecorderInstrument()
	fx := testutil.NewRecorderEffect()
	fxNode := &graph.Node{ID: "fx", Role: graph.RoleEffect, Effect: fx}
	oldNodes := []*graph.Node{instrumentNode("inst", inst), fxNode, finalNode("out")}
	instToFx := graph.Edge{Source: "inst", SourceHandle: graph.PortSignalOut, Target: "fx", TargetHandle: graph.PortSignalIn}
	fxToOut := graph.Edge{Source: "fx", SourceHandle: graph.PortSignalOut, Target: "out", TargetHandle: graph.PortSignalIn}
	oldEdges := []graph.Edge{instToFx, fxToOut}

	// Deleting the effect removes both of its edges from the new snapshot.
	newNodes := []*graph.Node{instrumentNode("inst", inst), finalNode("out")}

	m := NewMutator(WithMutatorLogger(quietLogger()))
	m.DiffAndApply(nil, nil, oldNodes, oldEdges)
	fired := m.DiffAndApply(oldNodes, oldEdges, newNodes, nil)

	require.Len(t, fired, 2, "each edge fires exactly one disconnect despite the double reason")
	for _, n := range fired {
		assert.Equal(t, Disconnect, n.Action)
	}
	assert.Equal(t, 1, inst.Disconnects)
	assert.Equal(t, 1, fx.Disconnects)
}

func TestMutator_DiffAndApply_ValueEdgeTogglesAutomation(t *testing.T) {
	param := graph.NewAutomatable(nil)
	lfo := &graph.Node{ID: "lfo", Role: graph.RoleValue, Value: testutil.ConstValue(0.5)}
	fx := &graph.Node{ID: "fx", Role: graph.RoleEffect, Params: map[string]*graph.Automatable{
		graph.ParamHandle("mix"): param,
	}}
	nodes := []*graph.Node{lfo, fx}
	e := graph.Edge{Source: "lfo", SourceHandle: graph.PortValueOut, Target: "fx", TargetHandle: graph.ParamHandle("mix")}

	m := NewMutator(WithMutatorLogger(quietLogger()))

	m.DiffAndApply(nil, nil, nodes, []graph.Edge{e})
	id, ok := param.ControlledBy()
	require.True(t, ok)
	assert.Equal(t, "lfo", id)

	m.DiffAndApply(nodes, []graph.Edge{e}, nodes, nil)
	assert.False(t, param.IsAutomated())
}

func TestMutator_DiffAndApply_NoteEdgeNeedsNoAction(t *testing.T) {
	rec := testutil.NewRecorderInstrument()
	nodes := []*graph.Node{
		{ID: "gen", Role: graph.RoleNotes, Notes: testutil.Notes(func(float64) graph.PitchSet { return nil })},
		instrumentNode("inst", rec),
	}
	e := graph.Edge{Source: "gen", SourceHandle: graph.PortNotesOut, Target: "inst", TargetHandle: graph.PortNotesIn}

	m := NewMutator(WithMutatorLogger(quietLogger()))
	fired := m.DiffAndApply(nil, nil, nodes, []graph.Edge{e})

	require.Equal(t, []Notification{{Edge: e, Action: Connect}}, fired)
	assert.Empty(t, rec.Connects)
	assert.Empty(t, rec.Accepted)
}

func TestMutator_DiffAndApply_FinalHookFiresOnce(t *testing.T) {
	rec := testutil.NewRecorderInstrument()
	nodes := []*graph.Node{instrumentNode("inst", rec), finalNode("out")}
	e := graph.Edge{Source: "inst", SourceHandle: graph.PortSignalOut, Target: "out", TargetHandle: graph.PortSignalIn}

	hooks := 0
	m := NewMutator(WithMutatorLogger(quietLogger()), WithFinalConnectHook(func() { hooks++ }))

	m.DiffAndApply(nil, nil, nodes, []graph.Edge{e})
	m.DiffAndApply(nodes, []graph.Edge{e}, nodes, nil)
	m.DiffAndApply(nodes, nil, nodes, []graph.Edge{e})

	assert.Equal(t, 1, hooks, "reconnecting the final node must not refire the hook")
}

func TestMutator_DiffAndApply_PanicsOnBadRolePairing(t *testing.T) {
	nodes := []*graph.Node{
		{ID: "lfo", Role: graph.RoleValue, Value: testutil.ConstValue(0.5)},
		finalNode("out"),
	}
	e := graph.Edge{Source: "lfo", SourceHandle: graph.PortValueOut, Target: "out", TargetHandle: graph.PortSignalIn}

	m := NewMutator(WithMutatorLogger(quietLogger()))
	defer func() {
		ie, ok := recover().(*InvariantError)
		require.True(t, ok, "expected *InvariantError panic")
		assert.Equal(t, CodeRolePairing, ie.Code)
	}()
	m.DiffAndApply(nil, nil, nodes, []graph.Edge{e})
	t.Fatal("expected panic")
}

func TestMutator_DiffAndApply_PanicsOnUnknownHandleClass(t *testing.T) {
	rec := testutil.NewRecorderInstrument()
	nodes := []*graph.Node{instrumentNode("inst", rec), finalNode("out")}
	e := graph.Edge{Source: "inst", SourceHandle: graph.PortSignalOut, Target: "out", TargetHandle: "bogus-handle"}

	m := NewMutator(WithMutatorLogger(quietLogger()))
	defer func() {
		ie, ok := recover().(*InvariantError)
		require.True(t, ok, "expected *InvariantError panic")
		assert.Equal(t, CodeBadHandle, ie.Code)
	}()
	m.DiffAndApply(nil, nil, nodes, []graph.Edge{e})
	t.Fatal("expected panic")
}

func TestMutator_DiffAndApply_PanicsOnMissingEndpoint(t *testing.T) {
	nodes := []*graph.Node{finalNode("out")}
	e := graph.Edge{Source: "ghost", SourceHandle: graph.PortSignalOut, Target: "out", TargetHandle: graph.PortSignalIn}

	m := NewMutator(WithMutatorLogger(quietLogger()))
	defer func() {
		ie, ok := recover().(*InvariantError)
		require.True(t, ok, "expected *InvariantError panic")
		assert.Equal(t, CodeUnknownNode, ie.Code)
	}()
	m.DiffAndApply(nil, nil, nodes, []graph.Edge{e})
	t.Fatal("expected panic")
}

func TestIsInvariant(t *testing.T) {
	assert.True(t, IsInvariant(&InvariantError{Code: CodeBadHandle}))
	assert.False(t, IsInvariant(assert.AnError))
}

func TestInvariantError_Error(t *testing.T) {
	e := &InvariantError{Code: CodeFanIn, Message: "boom", Edge: "a:x->b:y", Node: "b"}
	assert.Equal(t, "FANIN_OVERFLOW: boom (edge=a:x->b:y, node=b)", e.Error())
}
