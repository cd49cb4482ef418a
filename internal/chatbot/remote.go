package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrRemoteUnavailable signals that the text-generation endpoint could not
// produce an answer (transport error, malformed payload, or empty text).
// Callers recover by resolving locally; it never reaches the user.
var ErrRemoteUnavailable = errors.New("remote responder unavailable")

const remoteSystemPrompt = "You are a helpful thyroid cancer information assistant. Provide accurate, compassionate, and concise responses about thyroid cancer, symptoms, diagnosis, and treatment. Limit responses to 2-3 sentences when possible."

const instEndMarker = "[/INST]"

// RemoteResponder generates an answer for a user utterance, or fails with
// ErrRemoteUnavailable.
type RemoteResponder interface {
	Generate(ctx context.Context, userText string) (string, error)
}

// HFResponder calls a Hugging Face hosted instruct model through the
// OpenAI-compatible completion API. One attempt per message, no retry.
type HFResponder struct {
	client *openai.Client
	model  string
}

// NewHFResponder builds a responder against the given base URL (the hosted
// inference router) and model identifier.
func NewHFResponder(apiToken, baseURL, model string) *HFResponder {
	cfg := openai.DefaultConfig(apiToken)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &HFResponder{client: openai.NewClientWithConfig(cfg), model: model}
}

// Generate wraps the utterance in the fixed instruction preamble, requests a
// bounded completion, and extracts the text following the instruction marker.
func (h *HFResponder) Generate(ctx context.Context, userText string) (string, error) {
	prompt := fmt.Sprintf("<s>[INST] %s\n\nUser question: %s %s", remoteSystemPrompt, userText, instEndMarker)

	resp, err := h.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       h.model,
		Prompt:      prompt,
		MaxTokens:   150,
		Temperature: 0.7,
		TopP:        0.95,
		// Nearest knob to the model's repetition_penalty=1.2.
		FrequencyPenalty: 1.2,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrRemoteUnavailable)
	}

	text := resp.Choices[0].Text
	// Some backends echo the prompt; keep only what follows the marker.
	if idx := strings.LastIndex(text, instEndMarker); idx >= 0 {
		text = text[idx+len(instEndMarker):]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty generated text", ErrRemoteUnavailable)
	}
	return text, nil
}
