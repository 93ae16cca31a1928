package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/amishk599/prepkit/internal/model"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

const interviewerSystemPrompt = "You are an experienced technical interviewer. Answer in plain prose or simple markdown."

// OpenAIProvider calls an OpenAI-compatible chat completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a provider. An empty baseURL targets the public API.
func NewOpenAIProvider(apiKey, baseURL, modelName string, opts ...option.RequestOption) (*OpenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = DefaultOpenAIModel
	}

	all := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(baseURL))
	}
	all = append(all, opts...)

	return &OpenAIProvider{client: openai.NewClient(all...), model: modelName}, nil
}

// Complete sends prompt as the user message and returns the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	const op = "generate"

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(interviewerSystemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &model.BackendError{Op: op, Err: &model.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}}
		}
		return "", &model.NetworkError{Op: op, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &model.BackendError{Op: op, Err: errors.New("openai returned no choices")}
	}
	return resp.Choices[0].Message.Content, nil
}
