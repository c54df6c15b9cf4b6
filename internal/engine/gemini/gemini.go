// Package gemini implements the model engine on the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jee-solver/internal/prompt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Solve sends the solve prompt and returns the raw model text. The response
// MIME type is pinned to JSON and the solution schema travels in the system
// instruction.
func (e *Engine) Solve(ctx context.Context, question string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text(prompt.SolveSystem),
			genai.Text("solution.schema.json:\n" + prompt.SolutionSchema),
		},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt.SolveUser(question)))
	if err != nil {
		return "", fmt.Errorf("gemini solve: %w", err)
	}
	txt := firstText(resp)
	if strings.TrimSpace(txt) == "" {
		return "", fmt.Errorf("gemini solve: empty response")
	}
	return txt, nil
}

// ExtractQuestion reads the question text off an image.
func (e *Engine) ExtractQuestion(ctx context.Context, image []byte, mime string) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	m.GenerationConfig = genai.GenerationConfig{Temperature: ptrFloat32(0)}

	resp, err := m.GenerateContent(ctx,
		genai.Text(prompt.ExtractQuestion),
		&genai.Blob{MIMEType: mime, Data: image},
	)
	if err != nil {
		return "", fmt.Errorf("gemini extract: %w", err)
	}
	txt := strings.TrimSpace(firstText(resp))
	if txt == "" {
		return "", fmt.Errorf("gemini extract: no text recognized in image")
	}
	return txt, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
