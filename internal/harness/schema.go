package harness

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaCUE string

// ValidateSchema checks raw scenario YAML against the embedded CUE schema.
//
// path is used for error positions only. Validation happens on the raw
// document, before Go-side decoding, so structural mistakes (wrong action
// name, negative count, misspelled assertion type) fail with a message
// pointing at the offending field rather than a decode error.
func ValidateSchema(path string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup #Scenario: %w", err)
	}

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}

	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("build scenario document: %w", err)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%s", cueerrors.Details(err, nil))
	}

	return nil
}
