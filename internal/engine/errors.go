package engine

import (
	"errors"
	"fmt"
)

// InvariantError represents a programming-error condition detected during
// graph mutation or tracing: a structurally impossible graph reached the
// engine. These are not recoverable - the engine panics with an
// *InvariantError and expects a top-level handler to surface it. It never
// attempts to heal a corrupt graph.
//
// Transient conditions (a half-wired note chain, an unexpected role mid
// traversal) are NOT invariant errors; those are logged and the offending
// branch is abandoned for the current pass.
type InvariantError struct {
	// Code identifies the violation category.
	Code InvariantCode

	// Message is a human-readable description.
	Message string

	// Edge identifies the offending edge, if any.
	Edge string

	// Node identifies the offending node, if any.
	Node string
}

// InvariantCode categorizes invariant violations.
type InvariantCode string

const (
	// CodeBadHandle indicates a handle reference the target node does not
	// expose, or a handle outside the port vocabulary.
	CodeBadHandle InvariantCode = "BAD_HANDLE"

	// CodeRolePairing indicates a signal edge between structurally
	// incompatible roles.
	CodeRolePairing InvariantCode = "ROLE_PAIRING"

	// CodeFanIn indicates a fan-in counter that reached its requirement
	// before the final delivery - double delivery to the same target.
	CodeFanIn InvariantCode = "FANIN_OVERFLOW"

	// CodeUnknownNode indicates an edge endpoint missing from the node set
	// it must be resolved against.
	CodeUnknownNode InvariantCode = "UNKNOWN_NODE"
)

// Error implements the error interface.
func (e *InvariantError) Error() string {
	switch {
	case e.Edge != "" && e.Node != "":
		return fmt.Sprintf("%s: %s (edge=%s, node=%s)", e.Code, e.Message, e.Edge, e.Node)
	case e.Edge != "":
		return fmt.Sprintf("%s: %s (edge=%s)", e.Code, e.Message, e.Edge)
	case e.Node != "":
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.Node)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsInvariant reports whether err (possibly wrapped) is an InvariantError.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
