package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"enhanceme/internal/analyses"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunMockText(t *testing.T) {
	resume := writeFile(t, "cv.txt", "Jane Doe jane@example.com\nExperience golang 2021")
	jd := writeFile(t, "jd.txt", "golang kubernetes")

	var out bytes.Buffer
	err := run(context.Background(), []string{"-resume", resume, "-jd", jd, "-mock"}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Resume Rating: 5 / 10",
		"Match score: 50%",
		"Interview likelihood: 60%",
		"Potential keyword gaps: kubernetes",
		"Rebuilt Resume Preview",
		"Alex Candidate",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestRunJSONAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "analysis": analyses.MockResult()})
	}))
	defer srv.Close()

	resume := writeFile(t, "cv.txt", "Jane Doe")
	outPath := filepath.Join(t.TempDir(), "out.json")

	var out bytes.Buffer
	err := run(context.Background(), []string{"-resume", resume, "-server", srv.URL, "-format", "json", "-out", outPath}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var parsed struct {
		Analysis   analyses.Result `json:"analysis"`
		Heuristics struct {
			MatchPercent int `json:"matchPercent"`
		} `json:"heuristics"`
	}
	if err := json.Unmarshal(out.Bytes(), &parsed); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if parsed.Analysis.OverallScore != 5 {
		t.Fatalf("expected overall score 5, got %v", parsed.Analysis.OverallScore)
	}
	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read out file: %v", err)
	}
	if !bytes.Equal(written, out.Bytes()) {
		t.Fatalf("out file differs from stdout")
	}
}

func TestRunRejectsUnsupportedExtension(t *testing.T) {
	resume := writeFile(t, "cv.png", "x")
	if err := run(context.Background(), []string{"-resume", resume, "-mock"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for png")
	}
}

func TestRunRequiresResume(t *testing.T) {
	if err := run(context.Background(), []string{"-mock"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error without -resume")
	}
}
