package llm

import (
	"context"
	"fmt"
)

// Client abstracts chat-completion providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single system+user exchange.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
	JSONMode    bool
}

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	const maxLen = 300
	if len(body) > maxLen {
		body = body[:maxLen]
	}
	return fmt.Sprintf("provider http status %d: %s", e.StatusCode, body)
}
