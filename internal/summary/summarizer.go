package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrDisabled is returned by the summarizer used when no API key is configured.
var ErrDisabled = errors.New("summarizer disabled")

const summaryPrompt = "Summarize the following blog post in two or three sentences. " +
	"Reply with the summary only, in the language of the post.\n\n"

// Summarizer turns post text into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// GeminiSummarizer generates summaries with the Gemini API.
type GeminiSummarizer struct {
	client *genai.Client
	model  string
}

// NewGeminiSummarizer creates a Gemini-backed summarizer. baseURL overrides
// the API endpoint when set.
func NewGeminiSummarizer(ctx context.Context, apiKey, model, baseURL string) (*GeminiSummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiSummarizer{client: client, model: model}, nil
}

// Summarize asks the model for a summary of text.
func (s *GeminiSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(summaryPrompt+text), nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// Disabled always fails, so callers fall back to their no-summary path.
type Disabled struct{}

func (Disabled) Summarize(context.Context, string) (string, error) {
	return "", ErrDisabled
}
