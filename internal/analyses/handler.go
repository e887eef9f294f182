package analyses

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"enhanceme/internal/shared/server/middleware"
	"enhanceme/internal/shared/server/respond"
	"enhanceme/internal/shared/telemetry"
	"enhanceme/internal/uploads"
)

// multipartSlack covers multipart framing around the file part.
const multipartSlack = 1 << 20

// Handler wires HTTP handlers to the proxy and the orchestrator.
type Handler struct {
	Analyzer     Analyzer
	Orchestrator *Orchestrator
}

// NewHandler constructs a Handler.
func NewHandler(analyzer Analyzer, orch *Orchestrator) *Handler {
	return &Handler{Analyzer: analyzer, Orchestrator: orch}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ai", h.analyzeText)
	rg.POST("/analyses", h.upload)
	rg.GET("/analyses/current", h.current)
	rg.POST("/analyses/reset", h.reset)
	rg.DELETE("/session", h.endSession)
}

type analyzeTextRequest struct {
	ResumeText string `json:"resumeText"`
}

func (h *Handler) analyzeText(c *gin.Context) {
	var req analyzeTextRequest
	// A malformed body is treated like a missing resume text.
	if err := c.ShouldBindJSON(&req); err != nil {
		telemetry.Warn("analysis.request_body_invalid", map[string]any{
			"session_id": middleware.SessionIDFromContext(c),
			"error":      err.Error(),
		})
	}

	result, err := h.Analyzer.Analyze(c.Request.Context(), req.ResumeText)
	if err != nil {
		respond.Failure(c, HTTPStatus(err), UserMessage(err))
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"success": true, "analysis": result})
}

func (h *Handler) upload(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uploads.MaxFileSize+multipartSlack)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Failure(c, http.StatusBadRequest, uploads.MsgTooLarge)
			return
		}
		respond.Failure(c, http.StatusBadRequest, "A resume file is required")
		return
	}
	file, err := fh.Open()
	if err != nil {
		respond.Failure(c, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respond.Failure(c, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}

	snap, err := h.Orchestrator.Flow(sessionID).Run(c.Request.Context(), Upload{
		FileName:  fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Data:      data,
	})
	c.Set(middleware.AnalysisStateKey, string(snap.State))

	var verr *uploads.ValidationError
	switch {
	case err == nil:
		respond.JSON(c, http.StatusOK, snap)
	case errors.As(err, &verr):
		respond.Failure(c, http.StatusBadRequest, verr.Reason)
	case errors.Is(err, ErrAnalysisInFlight), errors.Is(err, ErrSuperseded):
		respond.Failure(c, http.StatusConflict, UserMessage(err))
	default:
		respond.JSON(c, http.StatusUnprocessableEntity, snap)
	}
}

func (h *Handler) current(c *gin.Context) {
	snap, err := h.Orchestrator.Current(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		respond.Failure(c, http.StatusInternalServerError, "Failed to load the current analysis")
		return
	}
	c.Set(middleware.AnalysisStateKey, string(snap.State))
	respond.JSON(c, http.StatusOK, snap)
}

func (h *Handler) reset(c *gin.Context) {
	snap := h.Orchestrator.Flow(middleware.SessionIDFromContext(c)).Reset()
	c.Set(middleware.AnalysisStateKey, string(snap.State))
	respond.JSON(c, http.StatusOK, snap)
}

func (h *Handler) endSession(c *gin.Context) {
	if err := h.Orchestrator.End(c.Request.Context(), middleware.SessionIDFromContext(c)); err != nil {
		respond.Failure(c, http.StatusInternalServerError, "Failed to end the session")
		return
	}
	c.Set(middleware.AnalysisStateKey, string(StateIdle))
	respond.JSON(c, http.StatusOK, Snapshot{State: StateIdle})
}
