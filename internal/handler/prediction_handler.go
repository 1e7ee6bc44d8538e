package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/prediksi-nilai/internal/model"
	"github.com/stemsi/prediksi-nilai/internal/predictor"
	"github.com/stemsi/prediksi-nilai/internal/response"
	"github.com/stemsi/prediksi-nilai/internal/service"
	"github.com/stemsi/prediksi-nilai/internal/validator"
)

// PredictionHandler serves the JSON prediction API.
type PredictionHandler struct {
	predictionService *service.PredictionService
	log               zerolog.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictionService *service.PredictionService, log zerolog.Logger) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
		log:               log.With().Str("component", "prediction_handler").Logger(),
	}
}

// GetSchema godoc
// GET /api/v1/schema
// Returns the form controls, glossary and influence table.
func (h *PredictionHandler) GetSchema(c *gin.Context) {
	response.Success(c, http.StatusOK, model.FeatureSchema())
}

// GetModel godoc
// GET /api/v1/model
func (h *PredictionHandler) GetModel(c *gin.Context) {
	info, err := h.predictionService.Info()
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, info)
}

// Preview godoc
// POST /api/v1/preview
// Returns the record in model column order plus its advisories.
func (h *PredictionHandler) Preview(c *gin.Context) {
	var req model.PredictRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	response.Success(c, http.StatusOK, h.predictionService.Preview(req.Record()))
}

// Advisories godoc
// POST /api/v1/advisories
func (h *PredictionHandler) Advisories(c *gin.Context) {
	var req model.PredictRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"advisories": h.predictionService.Advise(req.Record())})
}

// Predict godoc
// POST /api/v1/predict
// Predicts the final grade for one student record.
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req model.PredictRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.predictionService.Predict(c.Request.Context(), req.Record())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// fail maps a service error onto the API error codes.
func (h *PredictionHandler) fail(c *gin.Context, err error) {
	var predErr *predictor.PredictionError
	switch {
	case errors.Is(err, service.ErrModelUnavailable):
		response.FailWithDetail(c, http.StatusServiceUnavailable, response.ErrModelUnavailable,
			err.Error(), response.ModelUnavailableHint(h.predictionService.ModelPath()))
	case errors.As(err, &predErr):
		response.FailWithDetail(c, http.StatusUnprocessableEntity, response.ErrPredictionFailed,
			err.Error(), response.PredictionHint)
	default:
		h.log.Error().Err(err).Msg("prediction request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
