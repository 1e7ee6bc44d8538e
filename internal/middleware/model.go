package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/prediksi-nilai/internal/response"
	"github.com/stemsi/prediksi-nilai/internal/service"
)

// RequireModel rejects API calls with 503 while the artifact is unavailable.
func RequireModel(predictionService *service.PredictionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := predictionService.Ready(); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Response{
				Error: &response.ErrorBody{
					Code:    response.ErrModelUnavailable,
					Message: response.GetMessage(response.ErrModelUnavailable),
					Detail:  err.Error(),
					Hint:    response.ModelUnavailableHint(predictionService.ModelPath()),
				},
				Metadata: response.BuildMetadata(c),
			})
			return
		}
		c.Next()
	}
}
