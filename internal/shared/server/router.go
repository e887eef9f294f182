package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enhanceme/internal/analyses"
	"enhanceme/internal/present"
	"enhanceme/internal/scoring"
	"enhanceme/internal/services/health"
	"enhanceme/internal/shared/config"
	"enhanceme/internal/shared/metrics"
	"enhanceme/internal/shared/server/middleware"
	"enhanceme/internal/shared/server/respond"
)

const analyzeRateLimitGroup = "ANALYZE"

// RouterDeps are the handlers mounted by NewRouter.
type RouterDeps struct {
	Config            config.Config
	AnalysisHandler   *analyses.Handler
	HeuristicsHandler *scoring.Handler
	PresentHandler    *present.Handler
	Health            *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if !deps.Config.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Session(),
		middleware.Logging(),
		middleware.Recovery(),
		metrics.Middleware(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	rules := map[string]middleware.RateLimitRule{}
	if deps.Config.RateLimitPerMin > 0 {
		rules[analyzeRateLimitGroup] = middleware.PerMinute(deps.Config.RateLimitPerMin)
	}
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules:    rules,
		GroupFor: rateLimitGroup,
	}))

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", healthHandler(deps.Health))
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.HeuristicsHandler != nil {
		deps.HeuristicsHandler.RegisterRoutes(api)
	}
	if deps.PresentHandler != nil {
		deps.PresentHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitGroup puts the endpoints that reach the provider in their own bucket.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.FullPath() {
	case "/api/ai", "/api/analyses":
		return analyzeRateLimitGroup
	}
	return ""
}

func healthHandler(svc *health.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		checks, ok := svc.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, gin.H{"ok": ok, "checks": checks})
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
