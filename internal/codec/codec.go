package codec

import "context"

// Codec converts one node type's data between its in-memory form and a
// plain wire value that the envelope can embed.
//
// Deserialize takes a context because some node types resolve external
// resources (sample banks, impulse responses) while decoding.
type Codec interface {
	// Serialize converts node data to a plain value.
	Serialize(data map[string]any) (any, error)

	// Deserialize converts a plain value back to node data.
	Deserialize(ctx context.Context, wire any) (map[string]any, error)
}

// Registry maps node type tags to their codecs. The host application
// supplies one; the serializer resolves by tag at encode and decode time.
type Registry map[string]Codec

// Lookup resolves the codec for a node type. A missing codec is fatal.
func (r Registry) Lookup(nodeType string) (Codec, error) {
	c, ok := r[nodeType]
	if !ok {
		return nil, &DecodeError{
			Code:     ErrCodeMissingCodec,
			Message:  "no codec registered for node type",
			NodeType: nodeType,
		}
	}
	return c, nil
}

// Passthrough is a Codec that stores node data verbatim. Useful for node
// types whose data is already plain.
type Passthrough struct{}

// Serialize returns data unchanged.
func (Passthrough) Serialize(data map[string]any) (any, error) {
	if data == nil {
		return map[string]any{}, nil
	}
	return data, nil
}

// Deserialize expects a map payload and returns it unchanged.
func (Passthrough) Deserialize(_ context.Context, wire any) (map[string]any, error) {
	if wire == nil {
		return map[string]any{}, nil
	}
	m, err := asStringMap(wire)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// asStringMap coerces a decoded wire value into map[string]any.
func asStringMap(wire any) (map[string]any, error) {
	switch m := wire.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, &DecodeError{Code: ErrCodeBadPayload, Message: "non-string key in payload map"}
			}
			out[ks] = v
		}
		return out, nil
	default:
		return nil, &DecodeError{Code: ErrCodeBadPayload, Message: "payload is not a map"}
	}
}
