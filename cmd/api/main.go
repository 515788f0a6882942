package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/gravity-notes/gravity/pkg/validator"

	"github.com/gravity-notes/gravity/internal/adapter/handler"
	"github.com/gravity-notes/gravity/internal/adapter/repository"
	"github.com/gravity-notes/gravity/internal/infrastructure/cache"
	"github.com/gravity-notes/gravity/internal/infrastructure/database"
	"github.com/gravity-notes/gravity/internal/infrastructure/storage"
	"github.com/gravity-notes/gravity/internal/usecase/analysis"
	"github.com/gravity-notes/gravity/internal/usecase/auth"
	pkgai "github.com/gravity-notes/gravity/pkg/ai"
	"github.com/gravity-notes/gravity/pkg/config"
	"github.com/gravity-notes/gravity/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Uploads can carry several minutes of audio plus photo attachments
	e.Use(middleware.BodyLimit("50M"))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Apply schema automatically only when explicitly enabled in config.
	// Production deployments should manage schema via scripts/migrate.go.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Disable it and run migrations with scripts/migrate.go.")
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping automatic migrations; run scripts/migrate.go in CI/CD/production")
	}

	// Initialize token store: Redis, with in-memory fallback for development
	log.Println("📦 Connecting to Redis...")
	var tokenStore cache.TokenStore
	redisStore, err := cache.NewRedisStore(cfg)
	if err != nil {
		if cfg.Server.Environment == "production" {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Printf("⚠️  Redis unavailable (%v), falling back to in-memory token store", err)
		tokenStore = cache.NewMemoryStore()
	} else {
		defer redisStore.Close()
		tokenStore = redisStore
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Initialize audio object storage
	log.Println("🗄️  Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Initialize AI clients
	log.Println("🤖 Initializing AI components...")
	openaiClient := pkgai.NewOpenAIClient(&cfg.OpenAI)

	var transcriber analysis.Transcriber = openaiClient
	if cfg.AI.TranscriptionProvider == "assemblyai" {
		log.Println("🎙️  Using AssemblyAI for transcription")
		transcriber = pkgai.NewAssemblyAIClient(&cfg.Assembly)
	}

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize services
	log.Println("✨ Initializing services...")
	authService := auth.NewService(userRepo, tokenStore, jwtManager, logger)
	analysisService := analysis.NewService(sessionRepo, transcriber, openaiClient, minioClient, logger)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	authHandler := handler.NewAuth(authService, logger)

	resolveAudioURL := func(objectPath string) string {
		url, err := minioClient.GetAudioURL(context.Background(), objectPath, time.Hour)
		if err != nil {
			logger.Warn("could not presign audio url", zap.String("object", objectPath), zap.Error(err))
			return ""
		}
		return url
	}
	recordingHandler := handler.NewRecording(analysisService, resolveAudioURL, logger)
	log.Println("✅ Handlers initialized successfully")

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, authHandler, recordingHandler, authService)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
