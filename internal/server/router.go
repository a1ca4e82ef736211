// Package server wires the REST API: the gin router and the HTTP server
// lifecycle.
package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edgard/counsellor/internal/logger"
	"github.com/edgard/counsellor/internal/metrics"
	"github.com/edgard/counsellor/internal/server/handlers"
	"github.com/edgard/counsellor/internal/server/middleware"
)

// RouterConfig holds everything the router mounts.
type RouterConfig struct {
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Auth        *middleware.Auth
	CORSOrigins []string
	Deps        handlers.Deps
	// RequestTimeout bounds each /api request; zero disables it.
	RequestTimeout time.Duration
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger(cfg.Logger))
	router.Use(middleware.Metrics(cfg.Metrics))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	health := handlers.NewHealthHandler(cfg.Deps)
	profile := handlers.NewProfileHandler(cfg.Deps)
	counsellor := handlers.NewCounsellorHandler(cfg.Deps)
	conversations := handlers.NewConversationHandler(cfg.Deps)
	universities := handlers.NewUniversityHandler(cfg.Deps)

	// Public
	router.GET("/healthcheck", health.HealthCheck)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Protected
	api := router.Group("/api")
	api.Use(cfg.Auth.RequireAuth(), middleware.Timeout(cfg.RequestTimeout))

	api.GET("/profile", profile.GetProfile)
	api.PUT("/profile", profile.UpdateProfile)
	api.DELETE("/profile", profile.DeleteProfile)

	api.POST("/onboarding/complete", profile.CompleteOnboarding)
	api.POST("/onboarding/skip", profile.SkipOnboarding)
	api.GET("/onboarding/status", profile.OnboardingStatus)

	api.POST("/counsellor/chat", counsellor.Chat)
	api.POST("/counsellor/careers", counsellor.Careers)
	api.POST("/counsellor/courses", counsellor.Courses)
	api.POST("/counsellor/documents/analyze", counsellor.AnalyzeDocument)

	api.GET("/counsellor/conversations", conversations.List)
	api.POST("/counsellor/conversations", conversations.Create)
	api.PATCH("/counsellor/conversations/:id", conversations.Rename)
	api.DELETE("/counsellor/conversations/:id", conversations.Delete)
	api.GET("/counsellor/conversations/:id/messages", conversations.Messages)
	api.POST("/counsellor/conversations/:id/messages", conversations.AddMessage)

	api.GET("/universities/search", universities.Search)
	api.GET("/universities/countries", universities.Countries)
	api.GET("/universities/recommendations", universities.Recommendations)
	api.GET("/universities/:country", universities.ByCountry)

	return router
}
