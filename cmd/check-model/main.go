package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/prediksi-nilai/internal/config"
	"github.com/stemsi/prediksi-nilai/internal/logger"
	"github.com/stemsi/prediksi-nilai/internal/model"
	"github.com/stemsi/prediksi-nilai/internal/predictor"
	"github.com/stemsi/prediksi-nilai/internal/service"
	"golang.org/x/term"
)

const (
	exitLoadFailed    = 1
	exitPredictFailed = 2
)

// scenario is the reference student used to smoke-test an artifact.
var scenario = model.StudentRecord{
	G1: 18, G2: 19, StudyTime: 3, Failures: 0, Absences: 2,
	Internet: model.Yes, Higher: model.Yes, SchoolSup: model.No,
}

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	var modelPath string
	flag.StringVar(&modelPath, "model", cfg.ModelPath, "Path to the model artifact (.json, .yaml)")
	flag.Parse()

	// ─── Initialize Logger ─────────────────────────────────────────────
	// Pretty output on a terminal, JSON lines when piped.
	format := "json"
	if term.IsTerminal(int(os.Stdout.Fd())) {
		format = "pretty"
	}
	log := logger.Setup(logger.Options{Level: cfg.LogLevel, Format: format})

	// ─── Load Model Artifact ───────────────────────────────────────────
	m, err := predictor.LoadFile(modelPath)
	if err != nil {
		var loadErr *predictor.ArtifactLoadError
		if errors.As(err, &loadErr) {
			log.Error().Err(loadErr.Err).Str("path", loadErr.Path).Msg("Model artifact could not be read")
		} else {
			log.Error().Err(err).Msg("Model artifact could not be read")
		}
		os.Exit(exitLoadFailed)
	}

	info := m.Info()
	evt := log.Info().
		Str("name", info.Name).
		Str("format", info.Format).
		Str("target", info.Target).
		Strs("features", info.Features).
		Str("trained_at", info.TrainedAt)
	for k, v := range info.Metrics {
		evt = evt.Float64("metric_"+k, v)
	}
	evt.Msg("Model loaded")

	// ─── Run Reference Scenario ────────────────────────────────────────
	svc := service.NewPredictionService(m, log)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	res, err := svc.Predict(ctx, scenario)
	cancel()
	if err != nil {
		log.Error().Err(err).Interface("record", scenario).Msg("Scenario prediction failed")
		os.Exit(exitPredictFailed)
	}

	codes := make([]string, len(res.Advisories))
	for i, a := range res.Advisories {
		codes[i] = string(a.Code)
	}
	log.Info().
		Interface("record", scenario).
		Float64("raw", res.Raw).
		Str("score", res.Display).
		Float64("scale_100", res.Scale100).
		Str("category", string(res.Interpretation.Category)).
		Strs("advisories", codes).
		Msg("Scenario prediction")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
