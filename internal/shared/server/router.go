package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"career-coach/internal/analyses"
	googleauth "career-coach/internal/auth"
	"career-coach/internal/roadmaps"
	"career-coach/internal/services/health"
	"career-coach/internal/shared/config"
	"career-coach/internal/shared/metrics"
	"career-coach/internal/shared/server/middleware"
	"career-coach/internal/shared/server/respond"
	"career-coach/internal/users"
)

// GenerateGroup is the rate-limit group of the routes that call the model.
const GenerateGroup = "GENERATE"

// RouterDeps holds the handlers the router mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	RoadmapHandler  *roadmaps.Handler
	UserHandler     *users.Handler
	GoogleAuth      *googleauth.GoogleService
	Health          *health.Service
	Limiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status, ok := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	generateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			GenerateGroup: middleware.PerMinute(cfg.GenerateRatePerMinute, cfg.GenerateBurst),
		},
		DefaultGroup: GenerateGroup,
		Limiter:      deps.Limiter,
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
		deps.AnalysisHandler.RegisterCreate(api, generateLimit)
	}
	if deps.RoadmapHandler != nil {
		deps.RoadmapHandler.RegisterRoutes(api)
		deps.RoadmapHandler.RegisterCreate(api, generateLimit)
	}

	return r
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
