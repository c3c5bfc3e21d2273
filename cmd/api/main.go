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

	"github.com/mentorhub/crm-assistant/internal/adapter/handler"
	"github.com/mentorhub/crm-assistant/internal/adapter/repository"
	"github.com/mentorhub/crm-assistant/internal/infrastructure/cache"
	"github.com/mentorhub/crm-assistant/internal/infrastructure/database"
	"github.com/mentorhub/crm-assistant/internal/usecase/analysis"
	"github.com/mentorhub/crm-assistant/internal/usecase/assistant"
	pkgai "github.com/mentorhub/crm-assistant/pkg/ai"
	"github.com/mentorhub/crm-assistant/pkg/config"
	pkgvalidator "github.com/mentorhub/crm-assistant/pkg/validator"
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

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Skipping AutoMigrate; schema is managed externally")
	}

	// Initialize Redis. The assistant works without it, so a failure only
	// disables the shared counts cache.
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, falling back to in-memory cache: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}
	countsCache := cache.NewCountsCache(redisClient, cfg.Assistant.CountsCacheTTL, logger)

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	menteeRepo := repository.NewMenteeRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)
	pendencyRepo := repository.NewPendencyRepository(db)

	// Initialize the language model gateway and analyzer
	log.Println("🤖 Initializing Gemma gateway...")
	gemmaClient := pkgai.NewGemmaClient(&cfg.Gemma)
	analyzer := analysis.NewFormAnalyzer(gemmaClient, logger)

	// Initialize the conversational engine
	log.Println("💬 Initializing assistant service...")
	assistantService := assistant.NewService(
		gemmaClient,
		analyzer,
		menteeRepo,
		surveyRepo,
		analysisRepo,
		pendencyRepo,
		countsCache,
		logger,
		cfg.Assistant,
	)

	// Initialize handlers
	assistantHandler := handler.NewAssistant(assistantService, logger)
	surveyHandler := handler.NewSurvey(surveyRepo, menteeRepo, analysisRepo, analyzer, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, assistantHandler, surveyHandler)
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
