package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRemoteAnalyzerSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ai" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["resumeText"] != "Jane Doe" {
			t.Errorf("unexpected resumeText %q", body["resumeText"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "analysis": MockResult()})
	}))
	defer srv.Close()

	res, err := NewRemoteAnalyzer(srv.URL+"/", time.Second).Analyze(context.Background(), "Jane Doe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OverallScore != 5 {
		t.Fatalf("expected overall score 5, got %v", res.OverallScore)
	}
}

func TestRemoteAnalyzerErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "server message", status: http.StatusTooManyRequests, body: `{"success":false,"error":"Rate limit exceeded. Please try again later."}`, wantStatus: http.StatusTooManyRequests, wantMsg: "Rate limit exceeded. Please try again later."},
		{name: "non json error", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantStatus: http.StatusBadGateway, wantMsg: "HTTP error! status: 502"},
		{name: "success false", status: http.StatusOK, body: `{"success":false}`, wantStatus: http.StatusInternalServerError, wantMsg: "Failed to analyze resume"},
		{name: "missing analysis", status: http.StatusOK, body: `{"success":true}`, wantStatus: http.StatusInternalServerError, wantMsg: "Failed to analyze resume"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewRemoteAnalyzer(srv.URL, time.Second).Analyze(context.Background(), "Jane Doe")
			var remoteErr *RemoteError
			if !errors.As(err, &remoteErr) {
				t.Fatalf("expected RemoteError, got %v", err)
			}
			if got := UserMessage(err); got != tt.wantMsg {
				t.Fatalf("message = %q, want %q", got, tt.wantMsg)
			}
			if got := HTTPStatus(err); got != tt.wantStatus {
				t.Fatalf("status = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}
