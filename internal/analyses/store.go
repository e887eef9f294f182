package analyses

import (
	"context"
	"encoding/json"
	"fmt"

	"enhanceme/internal/session"
)

// SaveAnalysis stores result as the session's lastAnalysis.
func SaveAnalysis(ctx context.Context, store session.Store, sessionID string, result Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	return store.Set(ctx, sessionID, session.KeyLastAnalysis, raw)
}

// LoadAnalysis returns the session's lastAnalysis or session.ErrNotFound.
func LoadAnalysis(ctx context.Context, store session.Store, sessionID string) (*Result, error) {
	raw, err := store.Get(ctx, sessionID, session.KeyLastAnalysis)
	if err != nil {
		return nil, err
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode stored analysis: %w", err)
	}
	return &result, nil
}

// SaveResumeText stores the extracted text as the session's lastResumeText.
func SaveResumeText(ctx context.Context, store session.Store, sessionID, text string) error {
	return store.Set(ctx, sessionID, session.KeyLastResumeText, []byte(text))
}

// LoadResumeText returns the session's lastResumeText or session.ErrNotFound.
func LoadResumeText(ctx context.Context, store session.Store, sessionID string) (string, error) {
	raw, err := store.Get(ctx, sessionID, session.KeyLastResumeText)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
