package scoring

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"enhanceme/internal/analyses"
	"enhanceme/internal/session"
	"enhanceme/internal/shared/server/middleware"
	"enhanceme/internal/shared/server/respond"
)

const msgNoResume = "No analysis yet. Upload a resume first."

// Handler serves heuristics over the session's last extracted resume.
type Handler struct {
	Sessions session.Store
}

// NewHandler constructs a Handler.
func NewHandler(sessions session.Store) *Handler {
	return &Handler{Sessions: sessions}
}

// RegisterRoutes attaches the heuristics route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/heuristics", h.heuristics)
}

type heuristicsRequest struct {
	Role           string `json:"role"`
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) heuristics(c *gin.Context) {
	var req heuristicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Failure(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	sessionID := middleware.SessionIDFromContext(c)
	text, err := analyses.LoadResumeText(ctx, h.Sessions, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		respond.Failure(c, http.StatusNotFound, msgNoResume)
		return
	}
	if err != nil {
		respond.Failure(c, http.StatusInternalServerError, "Failed to load the resume text")
		return
	}

	result, err := analyses.LoadAnalysis(ctx, h.Sessions, sessionID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		respond.Failure(c, http.StatusInternalServerError, "Failed to load the analysis")
		return
	}

	respond.JSON(c, http.StatusOK, Evaluate(text, req.Role, req.JobDescription, result))
}
