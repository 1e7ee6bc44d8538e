package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/prediksi-nilai/internal/insight"
	"github.com/stemsi/prediksi-nilai/internal/metrics"
	"github.com/stemsi/prediksi-nilai/internal/model"
	"github.com/stemsi/prediksi-nilai/internal/predictor"
)

// ErrModelUnavailable is returned by every prediction operation when the
// artifact failed to load at startup.
var ErrModelUnavailable = errors.New("model unavailable")

// GradeModel is the prediction entry point of a loaded artifact.
type GradeModel interface {
	Predict(frame predictor.Frame) ([]float64, error)
	Info() predictor.Info
}

// PredictionService turns a student record into a clipped, categorized grade
// prediction. It holds the process-wide model, which never changes after
// construction.
type PredictionService struct {
	model     GradeModel
	loadErr   error
	modelPath string
	log       zerolog.Logger
}

// NewPredictionService wraps a successfully loaded model.
func NewPredictionService(m GradeModel, log zerolog.Logger) *PredictionService {
	info := m.Info()
	return &PredictionService{
		model:     m,
		modelPath: info.Path,
		log:       log.With().Str("component", "prediction_service").Logger(),
	}
}

// NewUnavailablePredictionService records a terminal artifact load failure.
// All prediction operations on it return ErrModelUnavailable.
func NewUnavailablePredictionService(modelPath string, loadErr error, log zerolog.Logger) *PredictionService {
	return &PredictionService{
		loadErr:   loadErr,
		modelPath: modelPath,
		log:       log.With().Str("component", "prediction_service").Logger(),
	}
}

// Ready reports the artifact load failure, if any. The returned error matches
// both ErrModelUnavailable and the underlying *predictor.ArtifactLoadError.
func (s *PredictionService) Ready() error {
	if s.model == nil {
		return fmt.Errorf("%w: %w", ErrModelUnavailable, s.loadErr)
	}
	return nil
}

// ModelPath is the artifact location the service was built from.
func (s *PredictionService) ModelPath() string {
	return s.modelPath
}

// Info describes the loaded artifact.
func (s *PredictionService) Info() (model.ModelInfo, error) {
	if err := s.Ready(); err != nil {
		return model.ModelInfo{}, err
	}
	info := s.model.Info()
	return model.ModelInfo{
		Name:      info.Name,
		Format:    info.Format,
		Target:    info.Target,
		Features:  info.Features,
		Metrics:   info.Metrics,
		TrainedAt: info.TrainedAt,
		Path:      info.Path,
	}, nil
}

// Advise evaluates the non-blocking input checks. It never touches the model
// and works even when the artifact is unavailable.
func (s *PredictionService) Advise(rec model.StudentRecord) []model.Advisory {
	return insight.Advise(rec)
}

// Preview returns the record exactly as it would be handed to the model.
func (s *PredictionService) Preview(rec model.StudentRecord) model.PreviewResult {
	return model.PreviewResult{
		Columns:    model.Columns(),
		Row:        rec.Row(),
		Cells:      rec.Preview(),
		Advisories: insight.Advise(rec),
	}
}

// Predict runs the model on a single-row frame built from rec, clips the
// output into the grade scale and attaches the interpretation. Model
// rejections are returned as *predictor.PredictionError.
func (s *PredictionService) Predict(ctx context.Context, rec model.StudentRecord) (*model.PredictionResult, error) {
	if err := s.Ready(); err != nil {
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frame := predictor.Frame{
		Columns: model.Columns(),
		Rows:    [][]any{rec.Row()},
	}

	start := time.Now()
	raw, err := s.predictFrame(frame)
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		s.log.Warn().Err(err).Interface("record", rec).Msg("model rejected record")
		return nil, err
	}

	score := insight.Clip(raw)
	advisories := insight.Advise(rec)
	result := &model.PredictionResult{
		Record:         rec,
		Raw:            raw,
		Score:          score,
		Display:        insight.Format(score),
		Scale100:       insight.Scale100(score),
		Interpretation: insight.Categorize(score),
		Advisories:     advisories,
		ModelName:      s.model.Info().Name,
	}

	metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.PredictionCategories.WithLabelValues(string(result.Interpretation.Category)).Inc()
	metrics.PredictedScore.Observe(score)
	for _, a := range advisories {
		metrics.AdvisoriesTotal.WithLabelValues(string(a.Code)).Inc()
	}

	s.log.Debug().
		Float64("raw", raw).
		Float64("score", score).
		Str("category", string(result.Interpretation.Category)).
		Int("advisories", len(advisories)).
		Msg("prediction served")

	return result, nil
}

// predictFrame invokes the model and takes its first output. A panicking or
// misbehaving model is reported as a prediction error, never propagated.
func (s *PredictionService) predictFrame(frame predictor.Frame) (raw float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &predictor.PredictionError{Err: fmt.Errorf("model panicked: %v", r)}
		}
	}()

	out, err := s.model.Predict(frame)
	if err != nil {
		var predErr *predictor.PredictionError
		if errors.As(err, &predErr) {
			return 0, err
		}
		return 0, &predictor.PredictionError{Err: err}
	}
	if len(out) == 0 {
		return 0, &predictor.PredictionError{Err: errors.New("model returned no output")}
	}
	return out[0], nil
}
