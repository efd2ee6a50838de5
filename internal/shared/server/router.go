package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
)

const APIPrefix = "/api/v1"

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// HealthReporter reports component status for /health.
type HealthReporter interface {
	Status(ctx context.Context) map[string]any
}

// RouterDeps carries everything the router wires.
type RouterDeps struct {
	Config        config.Config
	Authenticator middleware.Authenticator
	PublicPaths   []string
	Health        HealthReporter
	Handlers      []RouteRegistrar
	RateLimiter   *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	public := append([]string{APIPrefix + "/health", "/metrics"}, deps.PublicPaths...)
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Authenticator, public...),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    RateLimitRules(),
			GroupFor: middleware.GroupByPrefix(map[string]string{APIPrefix + "/ai/": middleware.AIRateLimitGroup}),
			Limiter:  deps.RateLimiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group(APIPrefix)
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
	})
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

// RateLimitRules are the per-principal token buckets. AI calls cost an
// upstream request each and get the tighter budget.
func RateLimitRules() map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		"DEFAULT":                   {Rate: 10, Burst: 40},
		middleware.AIRateLimitGroup: {Rate: 0.2, Burst: 5},
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
