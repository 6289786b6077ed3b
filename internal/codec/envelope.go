package codec

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/roach88/patchbay/internal/graph"
)

// Version is the only envelope schema currently defined. Schema evolution
// is expected to be additive via flat-spec defaults; the version bumps
// only for incompatible layout changes.
const Version = 1

// Stream format prefixes. The encoder picks whichever form is smaller;
// this is evaluated once per encode, not negotiated.
const (
	prefixRaw        byte = 0x00 // uncompressed envelope bytes follow
	prefixCompressed byte = 0x01 // zlib-compressed envelope bytes follow
)

// Project is the serialized envelope: a versioned, self-describing
// snapshot of the graph with codec-encoded node payloads.
type Project struct {
	Version int          `json:"version" cbor:"version"`
	Nodes   []NodeRecord `json:"nodes" cbor:"nodes"`
	Edges   []EdgeRecord `json:"edges" cbor:"edges"`
}

// NodeRecord is one serialized node. After Decode, Data holds the
// codec-decoded payload; during Encode it holds the codec's wire value.
type NodeRecord struct {
	ID   string  `json:"id" cbor:"id"`
	Type string  `json:"type" cbor:"type"`
	X    float64 `json:"x" cbor:"x"`
	Y    float64 `json:"y" cbor:"y"`
	Data any     `json:"data,omitempty" cbor:"data,omitempty"`
}

// EdgeRecord is one serialized edge.
type EdgeRecord struct {
	Source       string `json:"source" cbor:"source"`
	SourceHandle string `json:"sourceHandle" cbor:"sourceHandle"`
	Target       string `json:"target" cbor:"target"`
	TargetHandle string `json:"targetHandle" cbor:"targetHandle"`
}

// GraphEdges converts the edge records to graph edges.
func (p *Project) GraphEdges() []graph.Edge {
	edges := make([]graph.Edge, len(p.Edges))
	for i, e := range p.Edges {
		edges[i] = graph.Edge{
			Source:       e.Source,
			SourceHandle: e.SourceHandle,
			Target:       e.Target,
			TargetHandle: e.TargetHandle,
		}
	}
	return edges
}

// encMode produces deterministic CBOR: canonical map key order keeps
// encode(decode(encode(g))) byte-stable.
var encMode = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// decMode decodes CBOR maps as map[string]any so payloads flow straight
// into the flat-spec codecs.
var decMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// Encode serializes the graph into a prefixed binary stream. Node
// payloads go through the registry's codecs. The final node, if present,
// is always serialized first.
func Encode(nodes []*graph.Node, edges []graph.Edge, reg Registry) ([]byte, error) {
	project := Project{
		Version: Version,
		Nodes:   make([]NodeRecord, 0, len(nodes)),
		Edges:   make([]EdgeRecord, len(edges)),
	}

	// Final first; everything else keeps snapshot order.
	ordered := make([]*graph.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Role == graph.RoleFinal {
			ordered = append(ordered, n)
		}
	}
	for _, n := range nodes {
		if n.Role != graph.RoleFinal {
			ordered = append(ordered, n)
		}
	}

	for _, n := range ordered {
		c, err := reg.Lookup(n.Type)
		if err != nil {
			return nil, err
		}
		wire, err := c.Serialize(n.Data)
		if err != nil {
			return nil, fmt.Errorf("serialize node %s (%s): %w", n.ID, n.Type, err)
		}
		project.Nodes = append(project.Nodes, NodeRecord{
			ID:   n.ID,
			Type: n.Type,
			X:    n.X,
			Y:    n.Y,
			Data: wire,
		})
	}

	for i, e := range edges {
		project.Edges[i] = EdgeRecord{
			Source:       e.Source,
			SourceHandle: e.SourceHandle,
			Target:       e.Target,
			TargetHandle: e.TargetHandle,
		}
	}

	raw, err := encMode.Marshal(project)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("compress envelope: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress envelope: %w", err)
	}

	if buf.Len() < len(raw) {
		return append([]byte{prefixCompressed}, buf.Bytes()...), nil
	}
	return append([]byte{prefixRaw}, raw...), nil
}

// Decode parses a prefixed binary stream back into a Project, running
// each node payload through its registered codec. Unknown prefixes,
// unknown versions, and missing codecs are surfaced as errors.
func Decode(ctx context.Context, data []byte, reg Registry) (*Project, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Code: ErrCodeBadPayload, Message: "empty stream"}
	}

	var raw []byte
	switch data[0] {
	case prefixRaw:
		raw = data[1:]
	case prefixCompressed:
		zr, err := zlib.NewReader(bytes.NewReader(data[1:]))
		if err != nil {
			return nil, fmt.Errorf("open compressed envelope: %w", err)
		}
		defer zr.Close()
		raw, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("decompress envelope: %w", err)
		}
	default:
		return nil, &DecodeError{
			Code:    ErrCodeBadPrefix,
			Message: fmt.Sprintf("unrecognized stream prefix 0x%02x", data[0]),
		}
	}

	var project Project
	if err := decMode.Unmarshal(raw, &project); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if project.Version != Version {
		return nil, &DecodeError{
			Code:    ErrCodeBadVersion,
			Message: fmt.Sprintf("unsupported envelope version %d", project.Version),
		}
	}

	for i := range project.Nodes {
		rec := &project.Nodes[i]
		c, err := reg.Lookup(rec.Type)
		if err != nil {
			return nil, err
		}
		decoded, err := c.Deserialize(ctx, rec.Data)
		if err != nil {
			return nil, fmt.Errorf("decode node %s (%s): %w", rec.ID, rec.Type, err)
		}
		rec.Data = decoded
	}

	return &project, nil
}

// EncodeURL serializes the graph into a URL-safe string suitable for a
// hyperlink fragment.
func EncodeURL(nodes []*graph.Node, edges []graph.Edge, reg Registry) (string, error) {
	data, err := Encode(nodes, edges, reg)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeURL parses a project from its URL-safe form.
func DecodeURL(ctx context.Context, s string, reg Registry) (*Project, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode url fragment: %w", err)
	}
	return Decode(ctx, data, reg)
}

// DumpJSON renders a decoded project as deterministic indented JSON, for
// inspection and golden tests.
func DumpJSON(p *Project) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
