package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/perfectlystyled/service-checkout/internal/application"
	"github.com/perfectlystyled/service-checkout/internal/platform/response"
)

// ReportHandler settles a payment and returns the generated style report.
type ReportHandler struct {
	service *application.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(service *application.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// RegisterRoutes registers report routes on the given router group.
func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/reports", h.ProcessReport)
}

// ProcessReport handles POST /api/v1/reports
func (h *ReportHandler) ProcessReport(c *gin.Context) {
	var req application.ProcessReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rep, err := h.service.ProcessReport(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, rep)
}
