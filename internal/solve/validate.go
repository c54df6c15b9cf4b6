package solve

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"jee-solver/internal/prompt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Validate parses raw JSON and checks it against the solution schema.
// Returns *ErrInvalidResponse on any failure.
func Validate(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{
			Content: string(raw),
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}

	schema, err := solutionSchema()
	if err != nil {
		return &ErrInvalidResponse{
			Content: string(raw),
			Err:     fmt.Errorf("compile solution schema: %w", err),
		}
	}

	if err := schema.Validate(parsed); err != nil {
		return &ErrInvalidResponse{
			Content: string(raw),
			Err:     fmt.Errorf("schema validation failed: %w", err),
		}
	}
	return nil
}

// solutionSchema compiles prompt.SolutionSchema once and caches it.
func solutionSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(prompt.SolutionSchema))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://solution.json"
		if err := c.AddResource(url, doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(url)
	})
	return compiledSchema, schemaErr
}
