package websocket

import "github.com/stemsi/prediksi-nilai/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionEvaluate Action = "evaluate"
	ActionPredict  Action = "predict"
	ActionPing     Action = "ping"
)

// RequestPayload carries the current form state. Form is ignored for ping.
type RequestPayload struct {
	Action Action               `json:"action"`
	Form   model.PredictRequest `json:"form"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventEvaluated Event = "evaluated"
	EventPredicted Event = "predicted"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// EvaluatedResponse answers every form change with the record preview and
// the advisories for it.
type EvaluatedResponse struct {
	Event   Event               `json:"event"`
	Preview model.PreviewResult `json:"preview"`
}

// PredictedResponse carries a successful prediction.
type PredictedResponse struct {
	Event  Event                   `json:"event"`
	Result *model.PredictionResult `json:"result"`
}

// ErrorResponse reports an invalid form or a failed prediction. The stream
// stays open afterwards.
type ErrorResponse struct {
	Event  Event             `json:"event"`
	Code   string            `json:"code,omitempty"`
	Error  string            `json:"error"`
	Detail string            `json:"detail,omitempty"`
	Hint   string            `json:"hint,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	// RetryAfter is set in seconds when a prediction was rate limited.
	RetryAfter int `json:"retry_after,omitempty"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
