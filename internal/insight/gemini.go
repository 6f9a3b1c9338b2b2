package insight

import (
	"context"

	"google.golang.org/genai"

	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

// DefaultModelName is the Gemini model used for analysis.
const DefaultModelName = "gemini-2.5-flash"

// GeminiModel calls Gemini with Google Search grounding. Search grounding
// cannot be combined with a response schema, so the output is free text.
type GeminiModel struct {
	client *genai.Client
	name   string
}

// NewGeminiModel creates a Gemini client for apiKey.
func NewGeminiModel(ctx context.Context, apiKey string, name string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeModelNotConfigured, "gemini api key is required")
	}

	if name == "" {
		name = DefaultModelName
	}

	//nolint:exhaustruct // remaining fields use SDK defaults
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeModelNotConfigured, "failed to create gemini client", err)
	}

	return &GeminiModel{client: client, name: name}, nil
}

// Generate sends prompt and returns the concatenated text parts of the first candidate.
func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	//nolint:exhaustruct // only tools are set
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			//nolint:exhaustruct // search grounding only
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.name, genai.Text(prompt), config)
	if err != nil {
		return "", err
	}

	return resp.Text(), nil
}
