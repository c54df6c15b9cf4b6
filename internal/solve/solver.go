package solve

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"jee-solver/internal/engine"
)

// Solve runs the full pipeline for a text question: reject empty input,
// call the engine once, sanitize, validate against the solution schema and
// decode into a record. The raw model text is returned alongside the record
// so callers can show it verbatim.
func Solve(ctx context.Context, eng engine.Engine, question string) (*Solution, string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, "", ErrEmptyQuestion
	}

	raw, err := eng.Solve(ctx, question)
	if err != nil {
		return nil, "", &ErrEngineUnavailable{Engine: eng.Name(), Err: err}
	}

	clean := Sanitize(raw)
	if err := Validate([]byte(clean)); err != nil {
		return nil, raw, err
	}

	var sol Solution
	if err := json.Unmarshal([]byte(clean), &sol); err != nil {
		// Validate accepted it, so this only fires on type drift between
		// the schema and the struct.
		return nil, raw, &ErrInvalidResponse{Content: clean, Err: fmt.Errorf("decode solution: %w", err)}
	}
	return &sol, raw, nil
}

// SolveImage extracts the question text from an image, then runs Solve on
// it. The extracted question is returned so the caller can display it.
func SolveImage(ctx context.Context, eng engine.Engine, image []byte, mime string) (*Solution, string, string, error) {
	question, err := eng.ExtractQuestion(ctx, image, mime)
	if err != nil {
		return nil, "", "", &ErrEngineUnavailable{Engine: eng.Name(), Err: err}
	}
	sol, raw, err := Solve(ctx, eng, question)
	return sol, raw, question, err
}
