package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/amishk599/prepkit/internal/model"
)

// GeneratePath is the backend's generic prompt endpoint.
const GeneratePath = "/api/gemini/generate"

// BackendProvider relays prompts through the toolkit backend, which holds
// the model credentials.
type BackendProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewBackendProvider creates a provider posting to baseURL + GeneratePath.
func NewBackendProvider(baseURL string, httpClient *http.Client) *BackendProvider {
	return &BackendProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Complete posts prompt and returns the "response" field.
func (p *BackendProvider) Complete(ctx context.Context, prompt string) (string, error) {
	const op = "generate"

	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+GeneratePath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &model.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &model.NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	var genResp generateResponse
	decodeErr := json.Unmarshal(respBytes, &genResp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := genResp.Error
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(respBytes))
		}
		return "", &model.BackendError{Op: op, Err: &model.HTTPError{StatusCode: resp.StatusCode, Message: msg}}
	}
	if decodeErr != nil {
		return "", &model.BackendError{Op: op, Err: fmt.Errorf("parse response: %w", decodeErr)}
	}
	if genResp.Error != "" {
		return "", &model.BackendError{Op: op, Err: errors.New(genResp.Error)}
	}
	if strings.TrimSpace(genResp.Response) == "" {
		return "", &model.BackendError{Op: op, Err: errors.New("empty response")}
	}

	return genResp.Response, nil
}
