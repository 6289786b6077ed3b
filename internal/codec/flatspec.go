package codec

import "context"

// FlatField maps one short wire key to a (possibly nested) property path
// on the node's data. A field declared with a default can be absent from
// older saves: decoding falls back to the default instead of failing,
// which is how node types evolve their schema without an envelope version
// bump.
type FlatField struct {
	Key     string
	Path    []string
	Default any

	hasDefault bool
}

// Field declares a required flat-spec field.
func Field(key string, path ...string) FlatField {
	return FlatField{Key: key, Path: path}
}

// FieldDefault declares an optional flat-spec field with a fallback value
// for saves that predate it.
func FieldDefault(key string, def any, path ...string) FlatField {
	return FlatField{Key: key, Path: path, Default: def, hasDefault: true}
}

// Flat builds a Codec from flat-spec fields: the common case of mapping
// short keys onto nested properties of plain map data.
func Flat(fields ...FlatField) Codec {
	return &flatCodec{fields: fields}
}

type flatCodec struct {
	fields []FlatField
}

// Serialize plucks each declared path out of data into its short key.
// A missing path falls back to the field's default when one is declared.
func (c *flatCodec) Serialize(data map[string]any) (any, error) {
	out := make(map[string]any, len(c.fields))
	for _, f := range c.fields {
		v, ok := dig(data, f.Path)
		if !ok {
			if !f.hasDefault {
				return nil, &DecodeError{
					Code:    ErrCodeMissingField,
					Message: "node data missing required property",
					Field:   f.Key,
				}
			}
			v = f.Default
		}
		out[f.Key] = v
	}
	return out, nil
}

// Deserialize rebuilds the nested data shape from the short keys,
// defaulting any optional field the payload omits.
func (c *flatCodec) Deserialize(_ context.Context, wire any) (map[string]any, error) {
	var m map[string]any
	if wire == nil {
		m = map[string]any{}
	} else {
		var err error
		m, err = asStringMap(wire)
		if err != nil {
			return nil, err
		}
	}

	out := make(map[string]any)
	for _, f := range c.fields {
		v, ok := m[f.Key]
		if !ok {
			if !f.hasDefault {
				return nil, &DecodeError{
					Code:    ErrCodeMissingField,
					Message: "payload missing required field",
					Field:   f.Key,
				}
			}
			v = f.Default
		}
		bury(out, f.Path, v)
	}
	return out, nil
}

// dig walks path through nested string maps.
func dig(data map[string]any, path []string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	cur := any(data)
	for _, seg := range path[:len(path)-1] {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	m, ok := cur.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[path[len(path)-1]]
	return v, ok
}

// bury writes v at path, creating intermediate maps as needed.
func bury(data map[string]any, path []string, v any) {
	cur := data
	for _, seg := range path[:len(path)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[seg] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = v
}
