package graph

// Automatable is a normalized scalar parameter owned by an instrument or
// effect node. It either holds a user-set constant or is driven by a value
// generator node; while driven, ControlledBy names the driving node.
//
// The engine only ever calls Change. Suppressing direct user edits while a
// parameter is automated is a UI concern, not enforced here.
//
// ControlledBy is written only by the connection mutator and read by the
// tracer and UI code. All of that runs on one goroutine with
// run-to-completion semantics, so no locking is needed.
type Automatable struct {
	change       func(float64)
	controlledBy string
}

// NewAutomatable wraps a setter into an automatable parameter.
func NewAutomatable(change func(float64)) *Automatable {
	return &Automatable{change: change}
}

// Change applies a new value to the underlying parameter.
func (a *Automatable) Change(v float64) {
	if a.change != nil {
		a.change(v)
	}
}

// ControlledBy returns the id of the value node driving this parameter.
// Returns false when the parameter is not automated.
func (a *Automatable) ControlledBy() (string, bool) {
	return a.controlledBy, a.controlledBy != ""
}

// SetControlledBy marks the parameter as driven by the given value node.
func (a *Automatable) SetControlledBy(nodeID string) {
	a.controlledBy = nodeID
}

// ClearControlledBy returns the parameter to manual control.
func (a *Automatable) ClearControlledBy() {
	a.controlledBy = ""
}

// IsAutomated reports whether a value node currently drives the parameter.
func (a *Automatable) IsAutomated() bool {
	return a.controlledBy != ""
}
