package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Client abstracts LLM providers for resume feedback.
type Client interface {
	// Feedback sends the resume text with the given instructions and returns
	// the raw text content of the model's reply.
	Feedback(ctx context.Context, input FeedbackInput) (string, error)
}

// FeedbackInput captures the inputs for a feedback request.
type FeedbackInput struct {
	ResumeText   string
	Instructions string
}

// ErrEmptyResponse is returned when the provider replies with no content.
var ErrEmptyResponse = errors.New("empty llm response")

// MessageText flattens a provider message content field into one string.
// Providers return either a plain string or a list of parts carrying a
// "text" field; callers should never have to care which.
func MessageText(content json.RawMessage) (string, error) {
	if len(content) == 0 {
		return "", ErrEmptyResponse
	}

	var asString string
	if err := json.Unmarshal(content, &asString); err == nil {
		return asString, nil
	}

	var parts []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(content, &parts); err != nil {
		return "", fmt.Errorf("unsupported message content shape: %w", err)
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

// CleanJSONPayload strips markdown code fences from a model reply and
// extracts the outermost JSON object.
func CleanJSONPayload(raw string) (string, error) {
	payload := strings.TrimSpace(raw)
	payload = strings.ReplaceAll(payload, "```json", "")
	payload = strings.ReplaceAll(payload, "```", "")
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", ErrEmptyResponse
	}
	if json.Valid([]byte(payload)) {
		return payload, nil
	}

	start := strings.Index(payload, "{")
	end := strings.LastIndex(payload, "}")
	if start == -1 || end == -1 || end <= start {
		return "", errors.New("no json object found")
	}

	candidate := payload[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", errors.New("invalid json object")
	}
	return candidate, nil
}

// PlaceholderClient is wired when no provider is configured. Every call
// fails with a clear error instead of a nil panic.
type PlaceholderClient struct{}

func (PlaceholderClient) Feedback(ctx context.Context, input FeedbackInput) (string, error) {
	_ = ctx
	_ = input
	return "", errors.New("llm client not configured")
}
