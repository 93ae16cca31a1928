package ai

import (
	"context"
	"log/slog"
	"time"
)

// TimeoutProvider is a decorator that bounds each completion to a fixed
// timeout and logs its latency. It does not retry.
type TimeoutProvider struct {
	inner   LLMProvider
	timeout time.Duration
	logger  *slog.Logger
}

// NewTimeoutProvider wraps inner. A non-positive timeout disables the bound.
func NewTimeoutProvider(inner LLMProvider, timeout time.Duration, logger *slog.Logger) *TimeoutProvider {
	return &TimeoutProvider{inner: inner, timeout: timeout, logger: logger}
}

func (p *TimeoutProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := p.inner.Complete(ctx, prompt)
	if err != nil {
		p.logger.Warn("llm completion failed", "elapsed", time.Since(start), "error", err)
		return "", err
	}
	p.logger.Debug("llm completion", "elapsed", time.Since(start), "prompt_len", len(prompt), "response_len", len(out))
	return out, nil
}
