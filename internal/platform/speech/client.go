// Package speech wraps the hosted speech-to-text service used by the voice
// note workflow.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrTranscription indicates the speech service failed for a chunk. The chunk
// is lost; later chunks are unaffected.
var ErrTranscription = errors.New("audio transcription failed")

// Transcriber converts an audio chunk to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

type transcribeResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// HTTPTranscriber posts audio chunks to a Whisper-compatible service.
type HTTPTranscriber struct {
	client *resty.Client
}

func NewHTTPTranscriber(baseURL string) *HTTPTranscriber {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second).
		SetHeader("Accept", "application/json")

	return &HTTPTranscriber{client: client}
}

func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if filename == "" {
		filename = "audio.wav"
	}

	var out transcribeResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(audio)).
		SetResult(&out).
		Post("/transcribe")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: service returned %s", ErrTranscription, resp.Status())
	}
	if out.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrTranscription, out.Error)
	}

	return out.Text, nil
}
