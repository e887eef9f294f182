package analyses

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"enhanceme/internal/llm"
	"enhanceme/internal/shared/telemetry"
)

// Analyzer produces an analysis for extracted resume text.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText string) (Result, error)
}

// ProxyConfig is the provider configuration injected at construction.
type ProxyConfig struct {
	APIKey      string
	Model       string
	UseMockData bool
}

// Proxy calls the chat-completion provider and validates its answer.
type Proxy struct {
	Config ProxyConfig
	LLM    llm.Client
}

// NewProxy constructs a Proxy.
func NewProxy(cfg ProxyConfig, client llm.Client) *Proxy {
	return &Proxy{Config: cfg, LLM: client}
}

// Analyze returns a validated Result or a categorized error. Mock mode
// short-circuits before any credential check.
func (p *Proxy) Analyze(ctx context.Context, resumeText string) (Result, error) {
	if p.Config.UseMockData {
		return MockResult(), nil
	}
	if strings.TrimSpace(resumeText) == "" {
		return Result{}, ErrMissingText
	}
	if strings.TrimSpace(p.Config.APIKey) == "" || p.LLM == nil {
		return Result{}, ErrNotConfigured
	}

	content, err := p.LLM.Complete(ctx, llm.Request{
		System:      systemMessage,
		User:        buildPrompt(resumeText),
		MaxTokens:   maxTokens,
		Temperature: temperature,
		JSONMode:    true,
	})
	if err != nil {
		return Result{}, classifyProviderError(err)
	}

	res, err := parseResult(content)
	if err != nil {
		telemetry.Warn("analysis.response_shape", map[string]any{
			"model":   p.Config.Model,
			"error":   err,
			"content": truncate(content, 500),
		})
		return Result{}, err
	}
	return res, nil
}

func classifyProviderError(err error) error {
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %v", ErrProviderAuth, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrProviderRateLimited, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrProvider, err)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

var _ Analyzer = (*Proxy)(nil)
