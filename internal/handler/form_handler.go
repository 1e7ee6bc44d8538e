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
	"github.com/stemsi/prediksi-nilai/internal/web"
)

// FormHandler renders the grade prediction page.
type FormHandler struct {
	predictionService *service.PredictionService
	log               zerolog.Logger
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(predictionService *service.PredictionService, log zerolog.Logger) *FormHandler {
	return &FormHandler{
		predictionService: predictionService,
		log:               log.With().Str("component", "form_handler").Logger(),
	}
}

// Index godoc
// GET /
// Renders the form. Query parameters override the default form state; the
// advisories and preview are evaluated for whatever state results.
func (h *FormHandler) Index(c *gin.Context) {
	page, ok := h.newPage(c)
	if !ok {
		return
	}

	req := model.RequestFromRecord(model.DefaultStudentRecord())
	if fields := validator.BindForm(c, &req); fields != nil {
		h.renderInvalid(c, page, fields)
		return
	}

	rec := req.Record()
	page.SetRecord(rec)
	page.SetPreview(h.predictionService.Preview(rec))
	c.HTML(http.StatusOK, web.PageTemplate, page)
}

// Predict godoc
// POST /predict
// Runs the model on the submitted form and re-renders the page with either
// the result or the error. No partial result is ever shown.
func (h *FormHandler) Predict(c *gin.Context) {
	page, ok := h.newPage(c)
	if !ok {
		return
	}

	var req model.PredictRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		h.renderInvalid(c, page, fields)
		return
	}

	rec := req.Record()
	page.SetRecord(rec)
	page.SetPreview(h.predictionService.Preview(rec))

	result, err := h.predictionService.Predict(c.Request.Context(), rec)
	if err != nil {
		status := http.StatusInternalServerError
		page.Error = &web.PageError{Message: response.GetMessage(response.ErrInternal), Detail: err.Error()}

		var predErr *predictor.PredictionError
		switch {
		case errors.Is(err, service.ErrModelUnavailable):
			h.renderUnavailable(c, page)
			return
		case errors.As(err, &predErr):
			status = http.StatusUnprocessableEntity
			page.Error = &web.PageError{
				Message: response.GetMessage(response.ErrPredictionFailed),
				Hint:    response.PredictionHint,
				Detail:  err.Error(),
			}
		default:
			h.log.Error().Err(err).Msg("prediction failed")
		}
		c.HTML(status, web.PageTemplate, page)
		return
	}

	page.Result = result
	c.HTML(http.StatusOK, web.PageTemplate, page)
}

// newPage starts a page for the current model state. While the model is
// unavailable it renders the error page and reports false.
func (h *FormHandler) newPage(c *gin.Context) (*web.Page, bool) {
	info, err := h.predictionService.Info()
	if err != nil {
		h.renderUnavailable(c, web.NewPage(nil))
		return nil, false
	}
	return web.NewPage(&info), true
}

func (h *FormHandler) renderUnavailable(c *gin.Context, page *web.Page) {
	detail := ""
	if err := h.predictionService.Ready(); err != nil {
		detail = err.Error()
	}
	page.ModelError = &web.PageError{
		Message: response.GetMessage(response.ErrModelUnavailable),
		Hint:    response.ModelUnavailableHint(h.predictionService.ModelPath()),
		Detail:  detail,
	}
	c.HTML(http.StatusServiceUnavailable, web.PageTemplate, page)
}

func (h *FormHandler) renderInvalid(c *gin.Context, page *web.Page, fields map[string]string) {
	if detail, ok := fields["detail"]; ok {
		page.Error = &web.PageError{Message: response.GetMessage(response.ErrInvalidPayload), Detail: detail}
		delete(fields, "detail")
	}
	page.SetInvalid(c.Request.Form, fields)
	c.HTML(http.StatusBadRequest, web.PageTemplate, page)
}
