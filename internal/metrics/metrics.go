package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prediction outcomes used as the "outcome" label.
const (
	OutcomeSuccess     = "success"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
)

var (
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prediksi_nilai_predictions_total",
		Help: "Total number of prediction requests by outcome.",
	}, []string{"outcome"})

	PredictionCategories = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prediksi_nilai_prediction_category_total",
		Help: "Successful predictions by grade category.",
	}, []string{"category"})

	PredictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prediksi_nilai_prediction_duration_seconds",
		Help:    "Time spent building the frame and evaluating the model.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	})

	PredictedScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "prediksi_nilai_predicted_score",
		Help:    "Distribution of clipped predicted grades.",
		Buckets: []float64{2, 4, 6, 8, 10, 12, 14, 16, 18, 20},
	})

	AdvisoriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "prediksi_nilai_advisories_total",
		Help: "Advisories emitted with a prediction, by code.",
	}, []string{"code"})

	ModelLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "prediksi_nilai_model_loaded",
		Help: "1 when the model artifact loaded successfully, 0 otherwise.",
	})

	StreamConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "prediksi_nilai_form_stream_connections",
		Help: "Open live form WebSocket connections.",
	})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
