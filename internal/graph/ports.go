package graph

import "strings"

// Port and handle identifiers form the wire contract between the engine and
// node implementations. Handles are plain strings so that serialized
// projects stay self-describing; classification is by prefix.
const (
	// PortSignalIn is the main audio signal input of an effect or the
	// final output node.
	PortSignalIn = "in-signal-main"

	// PortSignalOut is the main audio signal output of an instrument or
	// effect.
	PortSignalOut = "out-signal-main"

	// PortNotesIn is the main note input of a note generator or instrument.
	PortNotesIn = "in-notes-main"

	// PortNotesOut is the main note output of a note generator.
	PortNotesOut = "out-notes-main"

	// PortValueOut is the output of a value generator.
	PortValueOut = "out-value-main"
)

const (
	signalInPrefix = "in-signal"
	notesInPrefix  = "in-notes"
	paramPrefix    = "param-"
)

// IsSignalInput reports whether handle names an audio signal input.
func IsSignalInput(handle string) bool {
	return strings.HasPrefix(handle, signalInPrefix)
}

// IsNoteInput reports whether handle names a note input.
func IsNoteInput(handle string) bool {
	return strings.HasPrefix(handle, notesInPrefix)
}

// IsParamInput reports whether handle names an automatable parameter input.
func IsParamInput(handle string) bool {
	return strings.HasPrefix(handle, paramPrefix)
}

// ParamHandle returns the handle for a named parameter, e.g.
// ParamHandle("cutoff") == "param-cutoff".
func ParamHandle(name string) string {
	return paramPrefix + name
}

// ParamName extracts the parameter name from a param handle.
// Returns false if handle is not a param handle.
func ParamName(handle string) (string, bool) {
	if !IsParamInput(handle) {
		return "", false
	}
	return handle[len(paramPrefix):], true
}
