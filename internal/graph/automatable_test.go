package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutomatable_Change_CallsSetter(t *testing.T) {
	var got []float64
	a := NewAutomatable(func(v float64) { got = append(got, v) })

	a.Change(0.5)
	a.Change(0.25)

	assert.Equal(t, []float64{0.5, 0.25}, got)
}

func TestAutomatable_Change_NilSetterIsNoop(t *testing.T) {
	a := NewAutomatable(nil)
	assert.NotPanics(t, func() { a.Change(1.0) })
}

func TestAutomatable_ControlledBy_Lifecycle(t *testing.T) {
	a := NewAutomatable(nil)

	_, ok := a.ControlledBy()
	assert.False(t, ok)
	assert.False(t, a.IsAutomated())

	a.SetControlledBy("lfo-1")
	id, ok := a.ControlledBy()
	assert.True(t, ok)
	assert.Equal(t, "lfo-1", id)
	assert.True(t, a.IsAutomated())

	a.ClearControlledBy()
	assert.False(t, a.IsAutomated())
}

func TestAutomatable_Change_WorksWhileAutomated(t *testing.T) {
	// The engine only ever calls Change; suppressing manual edits while
	// automated is a UI concern.
	var got float64
	a := NewAutomatable(func(v float64) { got = v })
	a.SetControlledBy("lfo-1")

	a.Change(0.75)
	assert.Equal(t, 0.75, got)
}

func TestNode_Param(t *testing.T) {
	n := &Node{
		ID:     "fx",
		Role:   RoleEffect,
		Params: map[string]*Automatable{ParamHandle("mix"): NewAutomatable(nil)},
	}

	_, ok := n.Param(ParamHandle("mix"))
	assert.True(t, ok)
	_, ok = n.Param(ParamHandle("cutoff"))
	assert.False(t, ok)
}

func TestNode_Source_ByRole(t *testing.T) {
	assert.Nil(t, (&Node{Role: RoleValue}).Source())
	assert.Nil(t, (&Node{Role: RoleNotes}).Source())
	assert.Nil(t, (&Node{Role: RoleFinal}).Source())
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "notes", RoleNotes.String())
	assert.Equal(t, "instrument", RoleInstrument.String())
	assert.Equal(t, "effect", RoleEffect.String())
	assert.Equal(t, "value", RoleValue.String())
	assert.Equal(t, "final", RoleFinal.String())
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.False(t, seen[id], "id %s generated twice", id)
		seen[id] = true
	}
}
