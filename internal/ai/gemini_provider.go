package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/amishk599/prepkit/internal/model"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// contentGenerator is the subset of *genai.Models the provider needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider calls the Gemini API directly through the GenAI SDK.
type GeminiProvider struct {
	models contentGenerator
	model  string
}

// NewGeminiProvider creates a provider backed by the Gemini API.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiProvider{models: client.Models, model: modelName}, nil
}

// Complete sends prompt as a single user turn and joins the text parts of
// every candidate.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	const op = "generate"

	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &model.BackendError{Op: op, Err: &model.HTTPError{StatusCode: apiErr.Code, Message: apiErr.Message}}
		}
		return "", &model.NetworkError{Op: op, Err: err}
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || strings.TrimSpace(part.Text) == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(part.Text)
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", &model.BackendError{Op: op, Err: errors.New("gemini returned empty response")}
	}
	return out, nil
}
