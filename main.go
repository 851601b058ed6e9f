package main

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/TechHelpSeniors/techhelp-proxy/config"
	"github.com/TechHelpSeniors/techhelp-proxy/handlers"
	"github.com/TechHelpSeniors/techhelp-proxy/internal/store"
	"github.com/TechHelpSeniors/techhelp-proxy/internal/store/file"
	"github.com/TechHelpSeniors/techhelp-proxy/internal/store/postgres"
	"github.com/TechHelpSeniors/techhelp-proxy/internal/upstream"
	"github.com/TechHelpSeniors/techhelp-proxy/logger"
	"github.com/TechHelpSeniors/techhelp-proxy/router"
	"github.com/TechHelpSeniors/techhelp-proxy/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Review storage
	var (
		reviewStore store.ReviewStore
		dbPool      services.Pinger
	)
	hidden := []string{cfg.Upstream.APIKeyFile}
	switch cfg.Reviews.Backend {
	case config.ReviewsBackendPostgres:
		pool, err := config.ConnectPostgres(ctx, &cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		pgStore := postgres.NewReviewStore(pool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare reviews table: %v", err)
		}
		reviewStore = pgStore
		dbPool = pool
	default:
		reviewStore = file.NewReviewStore(cfg.Reviews.File)
		hidden = append(hidden, cfg.Reviews.File)
	}

	// Services
	metrics := services.NewProxyMetrics(prometheus.DefaultRegisterer)
	secrets := config.NewSecretLoader(cfg.Upstream.APIKeyFile)
	client := upstream.NewClient(cfg.Upstream.APIBase,
		upstream.WithAPIKeyHeader(cfg.Upstream.APIKeyHeader),
		upstream.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
		}),
	)
	submissionService := services.NewSubmissionService(secrets, client, metrics)
	reviewService := services.NewReviewService(reviewStore, metrics)
	healthService := services.NewHealthService(dbPool, secrets, cfg.Server.Version)

	// Handlers
	staticHandler, err := handlers.NewStaticHandler(cfg.Server.StaticDir, hidden...)
	if err != nil {
		log.Fatalf("Failed to set up static files: %v", err)
	}

	r := router.SetupRouter(router.Dependencies{
		Config:            cfg,
		SubmissionHandler: handlers.NewSubmissionHandler(submissionService),
		ReviewHandler:     handlers.NewReviewHandler(reviewService),
		HealthHandler:     handlers.NewHealthHandler(healthService),
		StaticHandler:     staticHandler,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("0.0.0.0", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server",
			"address", srv.Addr,
			"environment", cfg.Server.Environment,
			"api_base", cfg.Upstream.APIBase,
			"reviews_backend", cfg.Reviews.Backend)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shut down", "error", err)
	}
}
