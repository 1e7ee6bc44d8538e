package handler

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/prediksi-nilai/internal/response"
	"github.com/stemsi/prediksi-nilai/internal/service"
)

// SystemHandler reports liveness, model readiness and Go runtime stats.
type SystemHandler struct {
	predictionService *service.PredictionService
	startTime         time.Time
}

func NewSystemHandler(predictionService *service.PredictionService) *SystemHandler {
	return &SystemHandler{
		predictionService: predictionService,
		startTime:         time.Now(),
	}
}

type modelStatus struct {
	Loaded bool   `json:"loaded"`
	Path   string `json:"path"`
	Error  string `json:"error,omitempty"`
}

type healthStatus struct {
	Status string      `json:"status"`
	Model  modelStatus `json:"model"`
	Uptime string      `json:"uptime"`

	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	NumGC      uint32 `json:"num_gc"`
	GoVersion  string `json:"go_version"`
}

// Health godoc
// GET /health
// Always 200 while the process is up; "degraded" when the model is missing.
func (h *SystemHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, h.collect())
}

func (h *SystemHandler) collect() healthStatus {
	s := healthStatus{
		Status: "ok",
		Model:  modelStatus{Loaded: true, Path: h.predictionService.ModelPath()},
		Uptime: formatDuration(time.Since(h.startTime)),
	}
	if err := h.predictionService.Ready(); err != nil {
		s.Status = "degraded"
		s.Model.Loaded = false
		s.Model.Error = err.Error()
	}

	// ── Go Runtime ──
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.Goroutines = runtime.NumGoroutine()
	s.HeapAlloc = ms.HeapAlloc
	s.NumGC = ms.NumGC
	s.GoVersion = runtime.Version()

	return s
}

// ---------- Helpers ----------

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
