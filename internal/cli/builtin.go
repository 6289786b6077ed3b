package cli

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/roach88/patchbay/internal/backend"
	"github.com/roach88/patchbay/internal/codec"
	"github.com/roach88/patchbay/internal/graph"
)

// BuiltinRegistry is the codec registry for the CLI's builtin node types.
func BuiltinRegistry() codec.Registry {
	return codec.Registry{
		"final":     codec.Flat(),
		"sampler":   codec.Flat(codec.FieldDefault("g", 0.8, "gain")),
		"reverb":    codec.Flat(codec.FieldDefault("m", 0.4, "mix")),
		"lfo":       codec.Flat(codec.Field("r", "rate")),
		"pulse":     codec.Flat(codec.Field("p", "pitches"), codec.FieldDefault("b", 1.0, "beat")),
		"transpose": codec.Flat(codec.FieldDefault("s", 0.0, "semitones")),
	}
}

// BuildGraph turns a decoded project into runtime nodes and edges using
// the builtin node set and the logging backend.
func BuildGraph(p *codec.Project, log *slog.Logger) ([]*graph.Node, []graph.Edge, error) {
	nodes := make([]*graph.Node, 0, len(p.Nodes))
	for _, rec := range p.Nodes {
		n, err := buildNode(rec, log)
		if err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, p.GraphEdges(), nil
}

// buildNode constructs one runtime node from its record.
func buildNode(rec codec.NodeRecord, log *slog.Logger) (*graph.Node, error) {
	data, _ := rec.Data.(map[string]any)
	n := &graph.Node{
		ID:   rec.ID,
		Type: rec.Type,
		X:    rec.X,
		Y:    rec.Y,
		Data: data,
	}

	switch rec.Type {
	case "final":
		n.Role = graph.RoleFinal
		n.Final = backend.NewLogFinal(rec.ID)

	case "sampler":
		n.Role = graph.RoleInstrument
		n.Instrument = backend.NewLogInstrument(rec.ID, log)
		n.Params = map[string]*graph.Automatable{
			graph.ParamHandle("gain"): logParam(log, rec.ID, "gain"),
		}

	case "reverb":
		n.Role = graph.RoleEffect
		n.Effect = backend.NewLogEffect(rec.ID, log, graph.PortSignalIn)
		n.Params = map[string]*graph.Automatable{
			graph.ParamHandle("mix"): logParam(log, rec.ID, "mix"),
		}

	case "lfo":
		n.Role = graph.RoleValue
		rate := numField(data, "rate", 1)
		n.Value = lfo(rate)

	case "pulse":
		n.Role = graph.RoleNotes
		n.Notes = pulse(pitchField(data, "pitches"), numField(data, "beat", 1))

	case "transpose":
		n.Role = graph.RoleNotes
		n.Notes = transpose(int(numField(data, "semitones", 0)))

	default:
		return nil, fmt.Errorf("unknown builtin node type %q", rec.Type)
	}
	return n, nil
}

// logParam is an automatable parameter that reports changes to the log.
func logParam(log *slog.Logger, node, name string) *graph.Automatable {
	return graph.NewAutomatable(func(v float64) {
		log.Info("parameter changed", "node", node, "param", name, "value", v)
	})
}

// lfoGen is a sine LFO in [0,1].
type lfoGen float64

func (g lfoGen) Generate(t float64) float64 {
	return 0.5 + 0.5*math.Sin(2*math.Pi*float64(g)*t)
}

func lfo(rate float64) graph.ValueGenerator {
	return lfoGen(rate)
}

// pulseGen holds its pitches during the first half of every beat.
type pulseGen struct {
	pitches graph.PitchSet
	beat    float64
}

func (g *pulseGen) Generate(t float64, _ map[string]graph.PitchSet) graph.PitchSet {
	if g.beat <= 0 {
		return graph.NewPitchSet()
	}
	phase := math.Mod(t, g.beat) / g.beat
	if phase < 0.5 {
		return g.pitches.Clone()
	}
	return graph.NewPitchSet()
}

func (g *pulseGen) Arity() int { return 0 }

func pulse(pitches graph.PitchSet, beat float64) graph.NoteGenerator {
	return &pulseGen{pitches: pitches, beat: beat}
}

// transposeGen shifts every incoming pitch by a fixed interval.
type transposeGen int

func (g transposeGen) Generate(_ float64, inputs map[string]graph.PitchSet) graph.PitchSet {
	out := graph.NewPitchSet()
	for _, in := range inputs {
		for p := range in {
			shifted := int(p) + int(g)
			if shifted >= 0 && shifted <= 127 {
				out.Add(graph.Pitch(shifted))
			}
		}
	}
	return out
}

func (g transposeGen) Arity() int { return 1 }

func transpose(semitones int) graph.NoteGenerator {
	return transposeGen(semitones)
}

// numField reads a numeric data property, tolerating the integer types
// CBOR decoding produces.
func numField(data map[string]any, key string, def float64) float64 {
	v, ok := data[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return def
	}
}

// pitchField reads a pitch list data property.
func pitchField(data map[string]any, key string) graph.PitchSet {
	out := graph.NewPitchSet()
	list, ok := data[key].([]any)
	if !ok {
		return out
	}
	for _, v := range list {
		p := numField(map[string]any{"p": v}, "p", -1)
		if p >= 0 && p <= 127 {
			out.Add(graph.Pitch(p))
		}
	}
	return out
}
