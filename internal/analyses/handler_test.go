package analyses

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"enhanceme/internal/session"
	"enhanceme/internal/shared/server/middleware"
	"enhanceme/internal/shared/telemetry"
)

const testSessionID = "session-abc123"

func setupAnalysisRouter(t *testing.T, analyzer Analyzer) (*gin.Engine, session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewMemoryStore(time.Hour)
	orch := NewOrchestrator(analyzer, store, nil, 0, 0)
	r := gin.New()
	r.Use(middleware.Session())
	NewHandler(analyzer, orch).RegisterRoutes(r.Group("/api"))
	return r, store
}

func multipartRequest(t *testing.T, fileName, contentType, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyses", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(middleware.SessionIDHeader, testSessionID)
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestAnalyzeTextRouteMock(t *testing.T) {
	r, _ := setupAnalysisRouter(t, NewProxy(ProxyConfig{UseMockData: true}, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/ai", strings.NewReader(`{"resumeText":"Jane Doe"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := serve(r, req)

	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	analysis := body["analysis"].(map[string]any)
	require.Equal(t, float64(5), analysis["overallScore"])
}

func TestAnalyzeTextRouteErrors(t *testing.T) {
	tests := []struct {
		name       string
		cfg        ProxyConfig
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "blank text", cfg: ProxyConfig{APIKey: "sk-test"}, body: `{"resumeText":"  "}`, wantStatus: http.StatusBadRequest, wantError: "Resume text is required"},
		{name: "malformed body", cfg: ProxyConfig{APIKey: "sk-test"}, body: `{`, wantStatus: http.StatusBadRequest, wantError: "Resume text is required"},
		{name: "missing key", cfg: ProxyConfig{}, body: `{"resumeText":"Jane Doe"}`, wantStatus: http.StatusInternalServerError, wantError: "API key not configured"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r, _ := setupAnalysisRouter(t, NewProxy(tt.cfg, &fakeLLM{content: validContent}))
			req := httptest.NewRequest(http.MethodPost, "/api/ai", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp := serve(r, req)

			require.Equal(t, tt.wantStatus, resp.Code)
			body := decodeBody(t, resp)
			require.Equal(t, false, body["success"])
			require.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestUploadLifecycle(t *testing.T) {
	r, store := setupAnalysisRouter(t, NewProxy(ProxyConfig{UseMockData: true}, nil))

	resp := serve(r, multipartRequest(t, "resume.txt", "text/plain; charset=utf-8", sampleResume))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, testSessionID, resp.Header().Get(middleware.SessionIDHeader))
	body := decodeBody(t, resp)
	require.Equal(t, "succeeded", body["state"])
	require.Equal(t, "resume.txt", body["fileName"])

	text, err := LoadResumeText(t.Context(), store, testSessionID)
	require.NoError(t, err)
	require.Equal(t, sampleResume, text)

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/current", nil)
	req.Header.Set(middleware.SessionIDHeader, testSessionID)
	resp = serve(r, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "succeeded", decodeBody(t, resp)["state"])

	req = httptest.NewRequest(http.MethodPost, "/api/analyses/reset", nil)
	req.Header.Set(middleware.SessionIDHeader, testSessionID)
	resp = serve(r, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "idle", decodeBody(t, resp)["state"])
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	r, _ := setupAnalysisRouter(t, NewProxy(ProxyConfig{UseMockData: true}, nil))

	resp := serve(r, multipartRequest(t, "photo.png", "image/png", "\x89PNG"))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, "Please upload a PDF, DOCX, or TXT file.", decodeBody(t, resp)["error"])
}

func TestUploadRequiresFile(t *testing.T) {
	r, _ := setupAnalysisRouter(t, NewProxy(ProxyConfig{UseMockData: true}, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/analyses", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	resp := serve(r, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, false, decodeBody(t, resp)["success"])
}

func TestUploadBlankTextIsUnprocessable(t *testing.T) {
	r, _ := setupAnalysisRouter(t, NewProxy(ProxyConfig{UseMockData: true}, nil))

	resp := serve(r, multipartRequest(t, "empty.txt", "text/plain", "   \n"))
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	body := decodeBody(t, resp)
	require.Equal(t, "failed", body["state"])
	require.Equal(t, "No text could be extracted from the file", body["error"])
}

func TestCurrentWithoutHistoryIsIdle(t *testing.T) {
	r, _ := setupAnalysisRouter(t, NewProxy(ProxyConfig{UseMockData: true}, nil))

	resp := serve(r, httptest.NewRequest(http.MethodGet, "/api/analyses/current", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "idle", decodeBody(t, resp)["state"])
	require.NotEmpty(t, resp.Header().Get(middleware.SessionIDHeader))
}

func TestAnalyzeTextLogsMalformedBody(t *testing.T) {
	var logs bytes.Buffer
	telemetry.Setup(&logs, "info")
	t.Cleanup(func() { telemetry.Setup(os.Stdout, "info") })

	r, _ := setupAnalysisRouter(t, NewProxy(ProxyConfig{APIKey: "sk-test"}, &fakeLLM{content: validContent}))
	req := httptest.NewRequest(http.MethodPost, "/api/ai", strings.NewReader(`{"resumeText":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SessionIDHeader, testSessionID)
	resp := serve(r, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, logs.String(), "analysis.request_body_invalid")
	require.Contains(t, logs.String(), testSessionID)
}

func TestEndSessionClearsStoredValues(t *testing.T) {
	r, store := setupAnalysisRouter(t, NewProxy(ProxyConfig{UseMockData: true}, nil))

	resp := serve(r, multipartRequest(t, "resume.txt", "text/plain", sampleResume))
	require.Equal(t, http.StatusOK, resp.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	req.Header.Set(middleware.SessionIDHeader, testSessionID)
	resp = serve(r, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "idle", decodeBody(t, resp)["state"])

	_, err := LoadResumeText(t.Context(), store, testSessionID)
	require.ErrorIs(t, err, session.ErrNotFound)

	req = httptest.NewRequest(http.MethodGet, "/api/analyses/current", nil)
	req.Header.Set(middleware.SessionIDHeader, testSessionID)
	resp = serve(r, req)
	require.Equal(t, "idle", decodeBody(t, resp)["state"])
}
