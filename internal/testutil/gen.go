package testutil

import "github.com/roach88/patchbay/internal/graph"

// ConstValue is a value generator that always emits the same scalar.
type ConstValue float64

// Generate implements graph.ValueGenerator.
func (c ConstValue) Generate(float64) float64 {
	return float64(c)
}

// FuncValue adapts a plain function into a value generator.
type FuncValue func(t float64) float64

// Generate implements graph.ValueGenerator.
func (f FuncValue) Generate(t float64) float64 {
	return f(t)
}

// SumValue is a value combinator: it sums every delivered input, clamped
// to [0,1]. It records each Generate call so tests can assert fan-in
// completeness.
type SumValue struct {
	Inputs        map[string]float64
	GenerateCalls int
}

// NewSumValue creates an empty combinator.
func NewSumValue() *SumValue {
	return &SumValue{Inputs: make(map[string]float64)}
}

// SetInput implements graph.ValueInput.
func (s *SumValue) SetInput(handle string, v float64) {
	s.Inputs[handle] = v
}

// Generate implements graph.ValueGenerator.
func (s *SumValue) Generate(float64) float64 {
	s.GenerateCalls++
	sum := 0.0
	for _, v := range s.Inputs {
		sum += v
	}
	if sum > 1 {
		sum = 1
	}
	if sum < 0 {
		sum = 0
	}
	return sum
}

// ScriptedNotes is a note generator driven by a function, with a declared
// arity and a Generate call counter.
type ScriptedNotes struct {
	ArityN        int
	Fn            func(t float64, inputs map[string]graph.PitchSet) graph.PitchSet
	GenerateCalls int
}

// Notes creates a zero-arity generator emitting whatever fn returns.
func Notes(fn func(t float64) graph.PitchSet) *ScriptedNotes {
	return &ScriptedNotes{
		Fn: func(t float64, _ map[string]graph.PitchSet) graph.PitchSet {
			return fn(t)
		},
	}
}

// NotesWithArity creates a generator requiring the given number of inputs.
func NotesWithArity(arity int, fn func(t float64, inputs map[string]graph.PitchSet) graph.PitchSet) *ScriptedNotes {
	return &ScriptedNotes{ArityN: arity, Fn: fn}
}

// Generate implements graph.NoteGenerator.
func (s *ScriptedNotes) Generate(t float64, inputs map[string]graph.PitchSet) graph.PitchSet {
	s.GenerateCalls++
	return s.Fn(t, inputs)
}

// Arity implements graph.NoteGenerator.
func (s *ScriptedNotes) Arity() int {
	return s.ArityN
}

// Transpose returns an arity-1 generator shifting every input pitch by
// the given number of semitones.
func Transpose(semitones int) *ScriptedNotes {
	return NotesWithArity(1, func(_ float64, inputs map[string]graph.PitchSet) graph.PitchSet {
		out := graph.NewPitchSet()
		for _, in := range inputs {
			for p := range in {
				shifted := int(p) + semitones
				if shifted >= 0 && shifted <= 127 {
					out.Add(graph.Pitch(shifted))
				}
			}
		}
		return out
	})
}
