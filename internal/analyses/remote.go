package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteAnalyzer posts resume text to an /api/ai endpoint of another deployment.
type RemoteAnalyzer struct {
	BaseURL string
	HTTP    *http.Client
}

// NewRemoteAnalyzer constructs a RemoteAnalyzer with the given timeout.
func NewRemoteAnalyzer(baseURL string, timeout time.Duration) *RemoteAnalyzer {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &RemoteAnalyzer{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type aiRequest struct {
	ResumeText string `json:"resumeText"`
}

type aiResponse struct {
	Success  bool    `json:"success"`
	Analysis *Result `json:"analysis,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Analyze maps non-2xx and success:false answers to a RemoteError.
func (r *RemoteAnalyzer) Analyze(ctx context.Context, resumeText string) (Result, error) {
	payload, err := json.Marshal(aiRequest{ResumeText: resumeText})
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/api/ai", bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := r.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("remote analyze: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("remote analyze read: %w", err)
	}

	var parsed aiResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := parsed.Error
		if decodeErr != nil || msg == "" {
			msg = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		}
		return Result{}, &RemoteError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil || !parsed.Success || parsed.Analysis == nil {
		msg := parsed.Error
		if msg == "" {
			msg = msgRemoteFallback
		}
		return Result{}, &RemoteError{StatusCode: resp.StatusCode, Message: msg}
	}
	return *parsed.Analysis, nil
}

var _ Analyzer = (*RemoteAnalyzer)(nil)
