package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pdfquiz/internal/adapter"
	"pdfquiz/internal/adapter/pdf"
	"pdfquiz/internal/cache"
	"pdfquiz/internal/config"
	"pdfquiz/internal/database"
	"pdfquiz/internal/domain"
	"pdfquiz/internal/handler"
	"pdfquiz/internal/logger"
	"pdfquiz/internal/middleware"
	"pdfquiz/internal/repository"
	"pdfquiz/internal/service"
	"pdfquiz/internal/session"
	"pdfquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	pipeline, err := service.NewQuizPipelineFromConfig(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create quiz pipeline", zap.Error(err))
	}
	appLogger.Info("Quiz pipeline initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	// Session snapshots survive restarts only when Redis is enabled.
	var store session.SnapshotStore
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		store = cache.NewSnapshotStore(adapter.NewRedisCacheAdapter(redisClient), cfg.Session.TTL)
		appLogger.Info("Redis snapshot store initialized", zap.String("address", cfg.Redis.Address))
	}
	registry := session.NewRegistry(store, cfg.Session.TTL, session.WithRetainOnFailure(cfg.Session.RetainOnFailure))

	var attempts domain.AttemptRepository
	var db *sqlx.DB
	if cfg.DB.Enabled {
		db, err = database.NewSQLXOracleDB(ctx, cfg.GetDSN())
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer database.Close(db)
		attempts = repository.NewSQLXAttemptRepository(db)
	}

	tokens, err := service.NewTokenService(cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create token service", zap.Error(err))
	}

	quizService := service.NewQuizService(pipeline, registry, attempts, tokens, cfg.Generation)
	validator := validation.NewValidator(cfg.Upload.MaxFiles)
	quizHandler := handler.NewQuizHandler(quizService, pdf.NewExtractor(cfg.Upload.MaxFileBytes), validator)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    uploadBodyLimit(cfg.Upload),
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	handler.RegisterRoutes(app, quizHandler, tokens, middleware.NewValidationMiddleware(validator))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
