package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/config"
	"github.com/stemsi/studypilot-backend/internal/database"
	"github.com/stemsi/studypilot-backend/internal/gemini"
	"github.com/stemsi/studypilot-backend/internal/handler"
	"github.com/stemsi/studypilot-backend/internal/logger"
	"github.com/stemsi/studypilot-backend/internal/monitoring"
	"github.com/stemsi/studypilot-backend/internal/objectstore"
	"github.com/stemsi/studypilot-backend/internal/planner"
	"github.com/stemsi/studypilot-backend/internal/questionbank"
	"github.com/stemsi/studypilot-backend/internal/repository"
	"github.com/stemsi/studypilot-backend/internal/router"
	"github.com/stemsi/studypilot-backend/internal/service"
	"github.com/stemsi/studypilot-backend/internal/validator"
	"github.com/stemsi/studypilot-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "studypilot-backend")
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting StudyPilot Backend")

	// ─── Initialize Validator & Metrics ────────────────────────────────
	validator.Setup()
	monitoring.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── External Integrations ─────────────────────────────────────────
	advisor, err := gemini.NewAdvisor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	defer advisor.Close()

	store, err := objectstore.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create export store")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	adminRepo := repository.NewAdminRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewExamAttemptRepository(pool)
	planRepo := repository.NewStudyPlanRepository(pool)
	profileRepo := repository.NewGameProfileRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	bank := questionbank.Default()
	authService := service.NewAuthService(cfg)
	adminService := service.NewAdminService(adminRepo, authService, log)
	questionService := service.NewQuestionService(questionRepo, bank, rdb, log)
	gameService := service.NewGameService(profileRepo, rdb, log)
	examService := service.NewExamService(questionService, gameService, attemptRepo, advisor, rdb, cfg, log)
	planService := service.NewStudyPlanService(planRepo, planner.NewGenerator(), gameService, store, log)

	log.Info().Int("subjects", len(bank.Subjects())).Msg("Built-in question bank loaded")

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(adminService, log),
		Question: handler.NewQuestionHandler(questionService, log),
		Exam:     handler.NewExamHandler(examService, log),
		Plan:     handler.NewPlanHandler(planService, log),
		Game:     handler.NewGameHandler(gameService, log),
		WS:       handler.NewWSHandler(examService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	attemptWorker := worker.NewAttemptWorker(attemptRepo, rdb, log)
	go func() {
		defer close(workerDone)
		attemptWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the attempt worker and wait for its final flush.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Attempt worker did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
