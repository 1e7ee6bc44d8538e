package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/prediksi-nilai/internal/config"
	"github.com/stemsi/prediksi-nilai/internal/handler"
	"github.com/stemsi/prediksi-nilai/internal/metrics"
	"github.com/stemsi/prediksi-nilai/internal/middleware"
	"github.com/stemsi/prediksi-nilai/internal/response"
	"github.com/stemsi/prediksi-nilai/internal/service"
	"github.com/stemsi/prediksi-nilai/internal/web"
)

const (
	brotliQuality   = 5
	brotliMinLength = 1024
	staticMaxAge    = 3600
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Form       *handler.FormHandler
	Prediction *handler.PredictionHandler
	FormStream *handler.FormStreamHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	predictionService *service.PredictionService,
	predictLimiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) (*gin.Engine, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.AccessLog(log))
	router.Use(middleware.Brotli(brotliQuality, brotliMinLength))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("load page templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	// Embedded CSS/JS, cached for an hour.
	staticGroup := router.Group("/static")
	staticGroup.Use(middleware.CacheControl(staticMaxAge))
	{
		staticGroup.StaticFS("/", web.Static())
	}

	// Health check.
	router.GET("/health", handlers.System.Health)

	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// ─── 1. Form Page ──────────────────────────────────────────────────
	page := router.Group("/")
	page.Use(middleware.NoStore())
	{
		page.GET("", handlers.Form.Index)
		page.POST("/predict", predictLimiter.Middleware(), handlers.Form.Predict)
	}

	// ─── 2. JSON API ───────────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.NoStore())
	{
		api.GET("/schema", handlers.Prediction.GetSchema)
		api.POST("/preview", handlers.Prediction.Preview)
		api.POST("/advisories", handlers.Prediction.Advisories)

		api.GET("/model", middleware.RequireModel(predictionService), handlers.Prediction.GetModel)
		api.POST("/predict",
			predictLimiter.Middleware(),
			middleware.RequireModel(predictionService),
			handlers.Prediction.Predict,
		)
	}

	// ─── 3. WebSocket ──────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/form", handlers.FormStream.FormStream)
	}

	return router, nil
}
