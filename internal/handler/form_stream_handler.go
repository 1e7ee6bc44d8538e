package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/prediksi-nilai/internal/metrics"
	"github.com/stemsi/prediksi-nilai/internal/middleware"
	"github.com/stemsi/prediksi-nilai/internal/model"
	"github.com/stemsi/prediksi-nilai/internal/predictor"
	"github.com/stemsi/prediksi-nilai/internal/response"
	"github.com/stemsi/prediksi-nilai/internal/service"
	"github.com/stemsi/prediksi-nilai/internal/validator"
	ws "github.com/stemsi/prediksi-nilai/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// FormStreamHandler re-evaluates the form on every change over a WebSocket.
type FormStreamHandler struct {
	predictionService *service.PredictionService
	predictLimiter    *middleware.RateLimiter
	log               zerolog.Logger
	upgrader          websocket.Upgrader
}

// NewFormStreamHandler creates a new FormStreamHandler.
// predictLimiter is the limiter guarding the HTTP prediction routes, so a
// client shares one budget across the page, the API and the stream.
func NewFormStreamHandler(predictionService *service.PredictionService, predictLimiter *middleware.RateLimiter, log zerolog.Logger, allowedOrigins []string) *FormStreamHandler {
	return &FormStreamHandler{
		predictionService: predictionService,
		predictLimiter:    predictLimiter,
		log:               log.With().Str("component", "form_stream_handler").Logger(),
		upgrader:          buildUpgrader(allowedOrigins),
	}
}

// FormStream godoc
// WS /ws/v1/form
// Upgrades to WebSocket. Every "evaluate" message is answered with the
// preview and advisories for the sent form state, every "predict" with a
// prediction.
func (h *FormStreamHandler) FormStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()
	ws.Prepare(conn)

	metrics.StreamConnections.Inc()
	defer metrics.StreamConnections.Dec()

	wsLog := h.log.With().Str("remote", c.ClientIP()).Logger()
	wsLog.Debug().Msg("Form stream connected")

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				if werr := ws.WriteError(conn, ws.ErrorResponse{
					Code:   string(response.ErrInvalidPayload),
					Error:  response.GetMessage(response.ErrInvalidPayload),
					Detail: err.Error(),
				}); werr != nil {
					break
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		var werr error
		switch msg.Action {
		case ws.ActionEvaluate:
			werr = h.handleEvaluate(conn, &msg.Form)
		case ws.ActionPredict:
			werr = h.handlePredict(c, conn, &msg.Form)
		case ws.ActionPing:
			werr = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			werr = ws.WriteError(conn, ws.ErrorResponse{
				Code:  string(response.ErrInvalidPayload),
				Error: "unknown action: " + string(msg.Action),
			})
		}
		if werr != nil {
			wsLog.Debug().Err(werr).Msg("Write failed")
			break
		}
	}
}

func (h *FormStreamHandler) handleEvaluate(conn *websocket.Conn, form *model.PredictRequest) error {
	if fields := validator.Struct(form); fields != nil {
		return writeValidationError(conn, fields)
	}
	return ws.WriteTyped(conn, ws.EvaluatedResponse{
		Event:   ws.EventEvaluated,
		Preview: h.predictionService.Preview(form.Record()),
	})
}

func (h *FormStreamHandler) handlePredict(c *gin.Context, conn *websocket.Conn, form *model.PredictRequest) error {
	if fields := validator.Struct(form); fields != nil {
		return writeValidationError(conn, fields)
	}

	if ok, wait := h.predictLimiter.Allow(c.ClientIP()); !ok {
		return ws.WriteError(conn, ws.ErrorResponse{
			Code:       string(response.ErrRateLimitExceeded),
			Error:      response.GetMessage(response.ErrRateLimitExceeded),
			RetryAfter: int(math.Ceil(wait.Seconds())),
		})
	}

	result, err := h.predictionService.Predict(c.Request.Context(), form.Record())
	if err != nil {
		resp := ws.ErrorResponse{
			Code:   string(response.ErrInternal),
			Error:  response.GetMessage(response.ErrInternal),
			Detail: err.Error(),
		}
		var predErr *predictor.PredictionError
		switch {
		case errors.Is(err, service.ErrModelUnavailable):
			resp.Code = string(response.ErrModelUnavailable)
			resp.Error = response.GetMessage(response.ErrModelUnavailable)
			resp.Hint = response.ModelUnavailableHint(h.predictionService.ModelPath())
		case errors.As(err, &predErr):
			resp.Code = string(response.ErrPredictionFailed)
			resp.Error = response.GetMessage(response.ErrPredictionFailed)
			resp.Hint = response.PredictionHint
		}
		return ws.WriteError(conn, resp)
	}

	return ws.WriteTyped(conn, ws.PredictedResponse{Event: ws.EventPredicted, Result: result})
}

func writeValidationError(conn *websocket.Conn, fields map[string]string) error {
	return ws.WriteError(conn, ws.ErrorResponse{
		Code:   string(response.ErrValidation),
		Error:  response.GetMessage(response.ErrValidation),
		Fields: fields,
	})
}
