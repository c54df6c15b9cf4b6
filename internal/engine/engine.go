// Package engine defines the external model client interface and the
// registry that resolves a client by name.
package engine

import (
	"context"
	"fmt"
)

// Engine is a single external model provider. Solve returns the model's raw
// text for a solve prompt; ExtractQuestion reads the question text off an
// image. Both are single synchronous calls bounded by ctx.
type Engine interface {
	Name() string
	GetModel() string
	Solve(ctx context.Context, question string) (string, error)
	ExtractQuestion(ctx context.Context, image []byte, mime string) (string, error)
}

// Engines holds the configured providers. A nil field means the provider
// was not configured (missing API key).
type Engines struct {
	Gemini Engine
	OpenAI Engine

	// Default is used when the caller names no engine.
	Default string
}

// Get resolves llmName to a configured engine. Empty llmName picks the
// default.
func (e *Engines) Get(llmName string) (Engine, error) {
	if llmName == "" {
		llmName = e.Default
	}
	switch llmName {
	case "gemini":
		if e.Gemini == nil {
			return nil, fmt.Errorf("gemini engine is not configured")
		}
		return e.Gemini, nil
	case "gpt", "openai":
		if e.OpenAI == nil {
			return nil, fmt.Errorf("openai engine is not configured")
		}
		return e.OpenAI, nil
	default:
		return nil, fmt.Errorf("unknown llm_name %q; use 'gemini' or 'gpt'", llmName)
	}
}
