package present

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"enhanceme/internal/analyses"
	"enhanceme/internal/session"
	"enhanceme/internal/shared/server/middleware"
)

const renderSession = "session-render"

func setupRenderRouter(t *testing.T) (*gin.Engine, *analyses.Orchestrator, session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := session.NewMemoryStore(time.Hour)
	orch := analyses.NewOrchestrator(analyses.NewProxy(analyses.ProxyConfig{UseMockData: true}, nil), store, nil, 0, 0)
	r := gin.New()
	r.Use(middleware.Session())
	NewHandler(orch).RegisterRoutes(r.Group("/api"))
	return r, orch, store
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(middleware.SessionIDHeader, renderSession)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestReportWithoutAnalysis(t *testing.T) {
	r, _, _ := setupRenderRouter(t)
	resp := get(r, "/api/analyses/current/report")
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestReportAndResumeAfterRun(t *testing.T) {
	r, orch, _ := setupRenderRouter(t)
	_, err := orch.Flow(renderSession).Run(context.Background(), analyses.Upload{
		FileName:  "resume.txt",
		MediaType: "text/plain",
		Data:      []byte("Jane Doe\njane@example.com"),
	})
	require.NoError(t, err)

	resp := get(r, "/api/analyses/current/report")
	require.Equal(t, http.StatusOK, resp.Code)
	require.True(t, strings.HasPrefix(resp.Header().Get("Content-Type"), "text/plain"))
	require.True(t, strings.HasPrefix(resp.Body.String(), "Resume Rating: 5 / 10"))

	resp = get(r, "/api/analyses/current/resume")
	require.Equal(t, http.StatusOK, resp.Code)
	require.True(t, strings.HasPrefix(resp.Body.String(), "Alex Candidate\n"))
}

func TestResumeMissingFromStoredAnalysis(t *testing.T) {
	r, _, store := setupRenderRouter(t)
	res := analyses.MockResult()
	res.Resume = nil
	require.NoError(t, analyses.SaveAnalysis(context.Background(), store, renderSession, res))

	resp := get(r, "/api/analyses/current/report")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = get(r, "/api/analyses/current/resume")
	require.Equal(t, http.StatusNotFound, resp.Code)
}
