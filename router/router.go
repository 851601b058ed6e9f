package router

import (
	"net/http"

	"github.com/TechHelpSeniors/techhelp-proxy/config"
	"github.com/TechHelpSeniors/techhelp-proxy/errors"
	"github.com/TechHelpSeniors/techhelp-proxy/handlers"
	"github.com/TechHelpSeniors/techhelp-proxy/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config            *config.Config
	SubmissionHandler *handlers.SubmissionHandler
	ReviewHandler     *handlers.ReviewHandler
	HealthHandler     *handlers.HealthHandler
	StaticHandler     *handlers.StaticHandler
	// MetricsGatherer backs /metrics; nil means the default registry.
	MetricsGatherer prometheus.Gatherer
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Global Middleware
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(middleware.RecoveryHandler))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/metrics", gin.WrapH(metricsHandler(deps.MetricsGatherer)))

	api := r.Group("/api")
	{
		api.POST("/submit", deps.SubmissionHandler.SubmitFormHandler)
		api.POST("/review", deps.ReviewHandler.SubmitReviewHandler)
		api.GET("/reviews", deps.ReviewHandler.ListReviewsHandler)
	}

	// Static site
	r.GET("/", deps.StaticHandler.ServeIndex)
	r.HEAD("/", deps.StaticHandler.ServeIndex)
	r.NoRoute(deps.StaticHandler.ServeAsset)
	r.NoMethod(methodNotAllowed)

	return r
}

func methodNotAllowed(c *gin.Context) {
	_ = c.Error(errors.MethodNotAllowed())
}

func metricsHandler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
