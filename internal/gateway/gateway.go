// Package gateway is the client side of the toolkit backend: interview,
// transcription, resume optimization and research endpoints.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/amishk599/prepkit/internal/ai"
	"github.com/amishk599/prepkit/internal/model"
)

// Backend endpoints, relative to the configured base URL.
const (
	UploadAudioPath    = "/api/interview/upload_audio"
	EndInterviewPath   = "/api/interview/end_interview"
	OptimizeResumePath = "/api/resume/optimize"
	ResearchPath       = "/api/research/company_role"
)

// DefaultFallbackDelay is how long Research waits before serving mock data.
const DefaultFallbackDelay = 2500 * time.Millisecond

// Client issues one backend request per operation. It never retries.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	llm           ai.LLMProvider
	logger        *slog.Logger
	fallbackDelay time.Duration
	newID         func() string
}

// Option configures a Client.
type Option func(*Client)

// WithFallbackDelay overrides DefaultFallbackDelay.
func WithFallbackDelay(d time.Duration) Option {
	return func(c *Client) { c.fallbackDelay = d }
}

// WithIDGenerator replaces the session id source.
func WithIDGenerator(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

// New creates a Client. Prompts are answered by llm; every other operation
// goes to the backend at baseURL.
func New(baseURL string, httpClient *http.Client, llm ai.LLMProvider, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    httpClient,
		llm:           llm,
		logger:        logger,
		fallbackDelay: DefaultFallbackDelay,
		newID:         newSessionID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorEnvelope is the failure shape every endpoint shares.
type errorEnvelope struct {
	Error string `json:"error"`
}

// postJSON marshals in as the request body and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", op, err)
	}
	return c.post(ctx, op, path, "application/json", bytes.NewReader(body), out)
}

// post sends body to path. Transport failures become *model.NetworkError;
// non-2xx statuses, "error" fields and undecodable bodies *model.BackendError.
func (c *Client) post(ctx context.Context, op, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &model.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &model.NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	c.logger.Debug("backend response", "op", op, "status", resp.StatusCode, "bytes", len(respBytes), "elapsed", time.Since(start))

	var env errorEnvelope
	envErr := json.Unmarshal(respBytes, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if envErr != nil || msg == "" {
			msg = strings.TrimSpace(string(respBytes))
		}
		return &model.BackendError{Op: op, Err: &model.HTTPError{StatusCode: resp.StatusCode, Message: msg}}
	}
	if envErr != nil {
		return &model.BackendError{Op: op, Err: fmt.Errorf("parse response: %w", envErr)}
	}
	if env.Error != "" {
		return &model.BackendError{Op: op, Err: errors.New(env.Error)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return &model.BackendError{Op: op, Err: fmt.Errorf("parse response: %w", err)}
	}
	return nil
}
