package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/prediksi-nilai/internal/config"
	"github.com/stemsi/prediksi-nilai/internal/handler"
	"github.com/stemsi/prediksi-nilai/internal/logger"
	"github.com/stemsi/prediksi-nilai/internal/metrics"
	"github.com/stemsi/prediksi-nilai/internal/middleware"
	"github.com/stemsi/prediksi-nilai/internal/predictor"
	"github.com/stemsi/prediksi-nilai/internal/router"
	"github.com/stemsi/prediksi-nilai/internal/service"
	"github.com/stemsi/prediksi-nilai/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(logger.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		File:      cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB,
	})
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("model_path", cfg.ModelPath).
		Msg("Starting Prediksi Nilai")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ─── Load Model Artifact ───────────────────────────────────────────
	// Loaded once; the model is read-only for the life of the process.
	var predictionService *service.PredictionService
	gradeModel, err := predictor.LoadFile(cfg.ModelPath)
	switch {
	case err == nil:
		info := gradeModel.Info()
		log.Info().
			Str("name", info.Name).
			Str("target", info.Target).
			Strs("features", info.Features).
			Msg("Model loaded")
		predictionService = service.NewPredictionService(gradeModel, log)
		metrics.ModelLoaded.Set(1)
	case cfg.ModelRequired:
		log.Fatal().Err(err).Msg("Failed to load model artifact")
	default:
		log.Error().Err(err).Msg("Model unavailable, serving error page only")
		predictionService = service.NewUnavailablePredictionService(cfg.ModelPath, err, log)
		metrics.ModelLoaded.Set(0)
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	// One budget per IP shared by the form, the API and the form stream.
	predictLimiter := middleware.NewRateLimiter(cfg.PredictRateLimit, time.Minute)
	go predictLimiter.Run(workerCtx)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Form:       handler.NewFormHandler(predictionService, log),
		Prediction: handler.NewPredictionHandler(predictionService, log),
		FormStream: handler.NewFormStreamHandler(predictionService, predictLimiter, log, cfg.AllowedOrigins),
		System:     handler.NewSystemHandler(predictionService),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r, err := router.SetupRouter(predictionService, predictLimiter, handlers, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up router")
	}

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
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

	// 2. Stop the rate limiter sweeper.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
