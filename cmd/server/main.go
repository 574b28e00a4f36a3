package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/alextrocado/edumanage/internal/config"
	"github.com/alextrocado/edumanage/internal/database"
	"github.com/alextrocado/edumanage/internal/handler"
	"github.com/alextrocado/edumanage/internal/logger"
	"github.com/alextrocado/edumanage/internal/repository"
	"github.com/alextrocado/edumanage/internal/router"
	"github.com/alextrocado/edumanage/internal/service"
	"github.com/alextrocado/edumanage/internal/state"
	"github.com/alextrocado/edumanage/internal/validator"
	"github.com/alextrocado/edumanage/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting EduManage Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

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

	// ─── Initialize Repositories ───────────────────────────────────────
	stateRepo := repository.NewStateRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	store := state.NewStore(cfg.HistoryLimit)
	authService := service.NewAuthService(cfg, rdb)
	stateService := service.NewStateService(cfg, store, stateRepo, rdb, log)
	classService := service.NewClassService(stateService, log)
	reportService := service.NewReportService(stateService)
	backupService := service.NewBackupService(stateService)
	extractService := service.NewExtractService(cfg, log)
	importService := service.NewImportService(extractService, classService, log)
	mediaService := service.NewMediaService(cfg)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, stateService, userRepo),
		State:      handler.NewStateHandler(stateService),
		Class:      handler.NewClassHandler(classService),
		Student:    handler.NewStudentHandler(classService),
		Lesson:     handler.NewLessonHandler(classService),
		Assessment: handler.NewAssessmentHandler(classService),
		Report:     handler.NewReportHandler(reportService),
		Backup:     handler.NewBackupHandler(backupService, cfg.MaxUploadBytes, log),
		Import:     handler.NewImportHandler(importService, cfg.MaxUploadBytes, log),
		Media:      handler.NewMediaHandler(mediaService),
		WS:         handler.NewWSHandler(stateService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	syncWorker := worker.NewSyncWorker(store, stateRepo, rdb, log)
	go syncWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	// 2. Stop the sync worker and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow the worker to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
