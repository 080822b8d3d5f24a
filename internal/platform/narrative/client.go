// Package narrative produces the written interpretation of a pathology score
// map via an OpenAI-compatible chat-completions service, and assembles the
// report text stored on clinical notes.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrGeneration indicates the narrative service failed. Callers treat it as
// non-fatal: findings are kept and the report degrades to a placeholder.
var ErrGeneration = errors.New("narrative generation failed")

// Generator writes the medical interpretation for a score map.
type Generator interface {
	Report(ctx context.Context, scores map[string]float64, patientContext string) (string, error)
}

const (
	chatModel       = "gpt-4o"
	chatMaxTokens   = 1500
	chatTemperature = 0.3
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ChatClient calls an OpenAI-compatible chat-completions endpoint.
type ChatClient struct {
	client *resty.Client
}

func NewChatClient(baseURL, apiKey string) *ChatClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(90 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey)

	return &ChatClient{client: client}
}

func (c *ChatClient) Report(ctx context.Context, scores map[string]float64, patientContext string) (string, error) {
	req := chatRequest{
		Model: chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(scores, patientContext)},
		},
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	}

	var out chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: service returned %s", ErrGeneration, resp.Status())
	}
	if out.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrGeneration, out.Error.Message)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrGeneration)
	}

	return out.Choices[0].Message.Content, nil
}
