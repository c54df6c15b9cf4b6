// Package openai implements the model engine on the OpenAI chat completions
// API.
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"jee-solver/internal/prompt"

	openai "github.com/sashabaranov/go-openai"
)

type Engine struct {
	Model  string
	client *openai.Client
}

func New(apiKey, model string) *Engine {
	key := strings.TrimSpace(apiKey)
	var cl *openai.Client
	if key != "" {
		cl = openai.NewClient(key)
	}
	return &Engine{
		Model:  strings.TrimSpace(model),
		client: cl,
	}
}

func (e *Engine) Name() string     { return "gpt" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Solve(ctx context.Context, question string) (string, error) {
	if e.client == nil {
		return "", errors.New("OPENAI_API_KEY is empty")
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.SolveSystem + "\n\nsolution.schema.json:\n" + prompt.SolutionSchema,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.SolveUser(question),
			},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai solve: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai solve: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// ExtractQuestion sends the image as a data URL in a vision-style multipart
// user message.
func (e *Engine) ExtractQuestion(ctx context.Context, image []byte, mime string) (string, error) {
	if e.client == nil {
		return "", errors.New("OPENAI_API_KEY is empty")
	}
	dataURL := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt.ExtractQuestion},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("openai extract: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai extract: empty response")
	}
	txt := strings.TrimSpace(resp.Choices[0].Message.Content)
	if txt == "" {
		return "", fmt.Errorf("openai extract: no text recognized in image")
	}
	return txt, nil
}
