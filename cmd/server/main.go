package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/breathify/backend/internal/config"
	"github.com/breathify/backend/internal/delivery/http"
	"github.com/breathify/backend/internal/domain"
	"github.com/breathify/backend/internal/repository/postgres"
	"github.com/breathify/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// The model is loaded once; nothing is served without it
	predictor, err := loadPredictor(cfg)
	if err != nil {
		log.Fatalf("Error loading model: %v", err)
	}
	log.Printf("Model ready: %s", predictor.Name())

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo service.QueryLogRepository = postgres.NewMockRepository()
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, query log disabled")
	} else if pool, err := pgxpool.New(ctx, cfg.DatabaseURL); err != nil {
		log.Printf("Warning: Could not connect to database: %v", err)
	} else {
		defer pool.Close()
		pgRepo := postgres.NewPostgresRepository(pool)
		if err := pgRepo.Migrate(ctx); err != nil {
			log.Printf("Warning: %v", err)
		} else {
			repo = pgRepo
			log.Println("Connected to PostgreSQL")
		}
	}

	// Dependency Injection: Services
	envSvc := service.NewEnvironmentService(service.EnvironmentConfig{
		APIKey:       cfg.OpenWeatherAPIKey,
		GeoBaseURL:   cfg.GeoBaseURL,
		OWMBaseURL:   cfg.OWMBaseURL,
		MeteoBaseURL: cfg.MeteoBaseURL,
	})
	speech := service.WithMetrics(newSynthesizer(cfg))
	querySvc := service.NewQueryService(envSvc, predictor, speech, repo)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Warning: could not load %s timezone, using local time: %v", cfg.Timezone, err)
		loc = time.Local
	}

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Breathify v1.0",
		ReadTimeout:  10 * time.Second,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use("/api", cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	sessions := http.NewSessionStore(cfg.SessionTTL, cfg.Env == "production")
	http.SetupRoutes(app, querySvc, repo, sessions, loc)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	querySvc.WaitBackground()
	log.Println("Server exited gracefully")
}

func loadPredictor(cfg *config.Config) (service.Predictor, error) {
	if cfg.UseRemoteModel() {
		bridge := service.NewMLBridge(cfg.MLServiceURL)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bridge.Health(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrModelLoad, err)
		}
		return bridge, nil
	}
	return service.LoadLightGBM(cfg.ModelPath, cfg.ModelClassOffset)
}

func newSynthesizer(cfg *config.Config) service.Synthesizer {
	if cfg.TTSProvider == config.TTSProviderOpenAI {
		return service.NewOpenAISynthesizer(cfg.OpenAIAPIKey, cfg.OpenAITTSModel)
	}
	return service.NewGoogleSynthesizer(cfg.TTSBaseURL)
}
