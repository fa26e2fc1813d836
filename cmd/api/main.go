package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizconnect-backend/config"
	_ "bizconnect-backend/docs" // Important for Swagger
	"bizconnect-backend/internal/authz"
	v1 "bizconnect-backend/internal/delivery/http/v1"
	"bizconnect-backend/internal/repository/postgres"
	"bizconnect-backend/internal/usecase"
	"bizconnect-backend/pkg/auth"
	"bizconnect-backend/pkg/database"
	"bizconnect-backend/pkg/email"
	"bizconnect-backend/pkg/logger"
	"bizconnect-backend/pkg/redis"
	"bizconnect-backend/pkg/storage"
	"bizconnect-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// @title           BizConnect Directory API
// @version         1.0
// @description     Backend for the BizConnect professional directory using Clean Architecture.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting bizconnect backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional, rate limiter falls back to in-memory)
	if err := redis.Initialize(redis.Config{
		URL:      cfg.UpstashRedisURL,
		Password: cfg.UpstashRedisPassword,
	}); err != nil {
		logger.Log.Warn("Redis unavailable", "error", err)
	}
	defer redis.Close()

	// 5. Setup Object Store
	objectStore, err := storage.New(context.Background(), storage.Config{
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		Endpoint:        cfg.S3Endpoint,
	})
	if err != nil {
		logger.Log.Error("Failed to configure object store", "error", err)
		os.Exit(1)
	}

	// 6. Setup Repositories
	profileRepo := postgres.NewProfileRepository(dbPool)
	projectRepo := postgres.NewProjectRepository(dbPool)

	// 7. Setup Notification Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - status notifications disabled")
	}

	// 8. Setup Authorization Gate and UseCases
	gate := authz.NewGate(cfg.AdminEmails)

	validate := validator.New()
	validation.RegisterValidators(validate)

	profileUC := usecase.NewProfileUsecase(
		profileRepo, projectRepo, objectStore, emailService,
		gate, validate, cfg.AutoApproveProfiles,
	)
	directoryUC := usecase.NewDirectoryUsecase(profileRepo, projectRepo, gate)

	// 9. Setup Auth Provider (JWKS)
	jwksURL := cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json"
	jwksProvider := auth.NewProvider(jwksURL)

	// 10. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ProfileUC:    profileUC,
		DirectoryUC:  directoryUC,
		JWKSProvider: jwksProvider,
		Config:       cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
