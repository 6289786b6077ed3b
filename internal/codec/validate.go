package codec

import (
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// projectSchema constrains the decoded envelope shape. Node payloads are
// codec-owned and deliberately unconstrained here.
const projectSchema = `
#Project: {
	version: 1
	nodes: [...#Node]
	edges: [...#Edge]
}

#Node: {
	id:   string & !=""
	type: string & !=""
	x:    number
	y:    number
	data?: _
}

#Edge: {
	source:       string & !=""
	sourceHandle: string & !=""
	target:       string & !=""
	targetHandle: string & !=""
}
`

// ValidateProject checks a decoded project against the envelope schema.
// Uses the CUE SDK's Go API directly (not a CLI subprocess).
func ValidateProject(p *Project) error {
	cctx := cuecontext.New()

	schema := cctx.CompileString(projectSchema).LookupPath(cue.ParsePath("#Project"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile project schema: %w", err)
	}

	// JSON is a subset of CUE, so the project round-trips through its
	// JSON form into a CUE value.
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	value := cctx.CompileBytes(raw)
	if err := value.Err(); err != nil {
		return fmt.Errorf("compile project value: %w", err)
	}

	if err := schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("project failed schema validation: %w", err)
	}
	return nil
}
