package seed

import (
	"embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schemas/dataset.cue
var schemaFS embed.FS

// Schema definitions in dataset.cue.
const (
	defEvaluation = "#Evaluation"
	defReport     = "#Report"
)

// schema checks raw dataset records against the embedded CUE definitions.
type schema struct {
	ctx  *cue.Context
	root cue.Value
}

func loadSchema() (*schema, error) {
	content, err := schemaFS.ReadFile("schemas/dataset.cue")
	if err != nil {
		return nil, fmt.Errorf("read embedded schema: %w", err)
	}
	ctx := cuecontext.New()
	root := ctx.CompileBytes(content, cue.Filename("dataset.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &schema{ctx: ctx, root: root}, nil
}

// check unifies data with the named definition and requires the result to
// be concrete, so missing required fields fail as well as bad values.
func (s *schema) check(def string, data map[string]any) error {
	d := s.root.LookupPath(cue.ParsePath(def))
	if !d.Exists() {
		return fmt.Errorf("schema definition %s not found", def)
	}
	v := s.ctx.Encode(data)
	if err := v.Err(); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	unified := d.Unify(v)
	if err := unified.Err(); err != nil {
		return err
	}
	return unified.Validate(cue.Concrete(true))
}
