package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/misinfo-detector/backend/internal/api/handlers"
	"github.com/misinfo-detector/backend/internal/claims"
	"github.com/misinfo-detector/backend/internal/evidence"
	"github.com/misinfo-detector/backend/internal/llm"
	"github.com/misinfo-detector/backend/internal/metrics"
	"github.com/misinfo-detector/backend/internal/middleware/ratelimit"
	"github.com/misinfo-detector/backend/internal/middleware/security"
	"github.com/misinfo-detector/backend/internal/middleware/validation"
	"github.com/misinfo-detector/backend/internal/pipeline"
	"github.com/misinfo-detector/backend/internal/storage/sqlite"
	"github.com/misinfo-detector/backend/internal/verdict"
	"github.com/misinfo-detector/backend/pkg/config"
	appLogger "github.com/misinfo-detector/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Misinfo Detector API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	llmClient := llm.NewClient(
		cfg.LLM.BaseURL,
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		cfg.LLM.Temperature,
		cfg.LLM.MaxTokens,
		cfg.LLM.TimeoutSec,
	)

	segmenter := claims.NewSegmenter()
	aggregator := evidence.NewDefaultAggregator(
		cfg.Evidence.NewsAPIKey,
		cfg.Evidence.FactCheckAPIKey,
		evidence.Limits{
			Reference: cfg.Evidence.ReferenceLimit,
			News:      cfg.Evidence.NewsLimit,
			FactCheck: cfg.Evidence.FactCheckLimit,
		},
		time.Duration(cfg.Evidence.TimeoutSec)*time.Second,
	)
	synthesizer := verdict.NewSynthesizer(llmClient)
	checkPipeline := pipeline.New(segmenter, aggregator, synthesizer, sqliteClient)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware())
	app.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	if cfg.RateLimit.Enabled {
		limiter := ratelimit.New(ratelimit.Config{
			MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
			Logger:               appLogger.GetLogger(),
		})
		app.Use(limiter.Middleware())
	}

	checkHandler := handlers.NewCheckHandler(checkPipeline, sqliteClient)

	api := app.Group("/api/v1")

	api.Post("/check", checkHandler.HandleCheck)
	api.Get("/history", checkHandler.GetHistory)
	api.Get("/history/:id", checkHandler.GetHistoryItem)
	api.Delete("/history/:id", checkHandler.DeleteHistoryItem)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
