package present

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"enhanceme/internal/analyses"
	"enhanceme/internal/shared/server/middleware"
	"enhanceme/internal/shared/server/respond"
)

const (
	msgNoAnalysis = "No analysis yet. Upload a resume first."
	msgNoResume   = "The analysis did not include a rebuilt resume."
)

// Handler serves text renders of the session's current analysis.
type Handler struct {
	Orchestrator *analyses.Orchestrator
}

// NewHandler constructs a Handler.
func NewHandler(orch *analyses.Orchestrator) *Handler {
	return &Handler{Orchestrator: orch}
}

// RegisterRoutes attaches the render routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/analyses/current/report", h.report)
	rg.GET("/analyses/current/resume", h.resume)
}

func (h *Handler) current(c *gin.Context) (*analyses.Result, bool) {
	snap, err := h.Orchestrator.Current(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		respond.Failure(c, http.StatusInternalServerError, "Failed to load the current analysis")
		return nil, false
	}
	if snap.Analysis == nil {
		respond.Failure(c, http.StatusNotFound, msgNoAnalysis)
		return nil, false
	}
	return snap.Analysis, true
}

func (h *Handler) report(c *gin.Context) {
	result, ok := h.current(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := RenderReport(&buf, *result); err != nil {
		respond.Failure(c, http.StatusInternalServerError, "Failed to render the report")
		return
	}
	respond.Text(c, http.StatusOK, buf.String())
}

func (h *Handler) resume(c *gin.Context) {
	result, ok := h.current(c)
	if !ok {
		return
	}
	if result.Resume == nil {
		respond.Failure(c, http.StatusNotFound, msgNoResume)
		return
	}
	var buf bytes.Buffer
	if err := RenderResume(&buf, *result.Resume); err != nil {
		respond.Failure(c, http.StatusInternalServerError, "Failed to render the resume")
		return
	}
	respond.Text(c, http.StatusOK, buf.String())
}
