package codec

import (
	"errors"
	"fmt"
)

// DecodeError reports a fatal problem with a serialized project. The
// serializer makes no attempt at best-effort recovery across version
// boundaries: a stream the decoder does not fully understand is an error.
type DecodeError struct {
	// Code identifies the error category.
	Code DecodeErrorCode

	// Message is a human-readable description.
	Message string

	// NodeType identifies the node type involved, if any.
	NodeType string

	// Field identifies the flat-spec key involved, if any.
	Field string
}

// DecodeErrorCode categorizes decode errors.
type DecodeErrorCode string

const (
	// ErrCodeBadPrefix indicates an unrecognized stream format prefix.
	ErrCodeBadPrefix DecodeErrorCode = "BAD_PREFIX"

	// ErrCodeBadVersion indicates an unrecognized or missing envelope version.
	ErrCodeBadVersion DecodeErrorCode = "BAD_VERSION"

	// ErrCodeMissingCodec indicates no codec is registered for a node type.
	ErrCodeMissingCodec DecodeErrorCode = "MISSING_CODEC"

	// ErrCodeMissingField indicates a required flat-spec key (one declared
	// without a default) is absent from the payload.
	ErrCodeMissingField DecodeErrorCode = "MISSING_FIELD"

	// ErrCodeBadPayload indicates a payload with an unexpected shape.
	ErrCodeBadPayload DecodeErrorCode = "BAD_PAYLOAD"
)

// Error implements the error interface.
func (e *DecodeError) Error() string {
	switch {
	case e.NodeType != "" && e.Field != "":
		return fmt.Sprintf("%s: %s (type=%s, field=%s)", e.Code, e.Message, e.NodeType, e.Field)
	case e.NodeType != "":
		return fmt.Sprintf("%s: %s (type=%s)", e.Code, e.Message, e.NodeType)
	case e.Field != "":
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsMissingField reports whether err (possibly wrapped) is a missing
// required field error - the backward-compatibility boundary.
func IsMissingField(err error) bool {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Code == ErrCodeMissingField
	}
	return false
}
