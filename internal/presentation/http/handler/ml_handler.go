package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pawmark/vetcare-api/internal/application/service"
	"github.com/pawmark/vetcare-api/internal/presentation/http/dto/response"
)

// MLHandler proxies requests to the analytics service
type MLHandler struct {
	mlService *service.MLService
}

// NewMLHandler creates a new ML handler
func NewMLHandler(mlService *service.MLService) *MLHandler {
	return &MLHandler{mlService: mlService}
}

// Health reports the analytics service's health. An unreachable service is
// reported as unavailable rather than an error.
func (h *MLHandler) Health(c *gin.Context) {
	result := h.mlService.Health(c.Request.Context())
	response.OK(c, "Analytics health retrieved", result)
}

// ModelStatus reports which analytics models are loaded
func (h *MLHandler) ModelStatus(c *gin.Context) {
	result := h.mlService.ModelStatus(c.Request.Context())
	response.OK(c, "Analytics model status retrieved", result)
}

// PredictOutbreak runs the outbreak prediction over recent case counts
func (h *MLHandler) PredictOutbreak(c *gin.Context) {
	result, err := h.mlService.PredictOutbreak(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Outbreak prediction retrieved", result)
}

// SalesForecast runs the revenue forecast over recent monthly revenue
func (h *MLHandler) SalesForecast(c *gin.Context) {
	result, err := h.mlService.SalesForecast(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales forecast retrieved", result)
}
