package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "intellihire-backend/internal/auth"
	"intellihire-backend/internal/candidates"
	"intellihire-backend/internal/resumes"
	"intellihire-backend/internal/services/health"
	"intellihire-backend/internal/shared/config"
	"intellihire-backend/internal/shared/metrics"
	"intellihire-backend/internal/shared/server/middleware"
	"intellihire-backend/internal/shared/server/respond"
	"intellihire-backend/internal/users"
)

// Analysis endpoints fan out to the LLM provider and are limited more
// tightly than plain reads.
const analysisRateGroup = "ANALYSIS"

func analysisRateRules() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			analysisRateGroup: {Rate: 0.5, Burst: 5},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method != http.MethodPost {
				return ""
			}
			p := c.Request.URL.Path
			if p == "/api/v1/resumes" ||
				strings.HasSuffix(p, "/reanalyze") ||
				strings.HasSuffix(p, "/strengths") {
				return analysisRateGroup
			}
			return ""
		},
	}
}

// RouterDeps collects the handlers the router mounts.
type RouterDeps struct {
	Config            config.Config
	ResumeHandler     *resumes.Handler
	CandidatesHandler *candidates.Handler
	UserHandler       *users.Handler
	GoogleAuth        *googleauth.GoogleService
	Health            *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(analysisRateRules()),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if ok, _ := status["ok"].(bool); !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	deps.ResumeHandler.RegisterRoutes(api)
	deps.CandidatesHandler.RegisterRoutes(api)

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
