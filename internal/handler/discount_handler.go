package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/perfectlystyled/service-checkout/internal/application"
	"github.com/perfectlystyled/service-checkout/internal/platform/response"
)

// DiscountHandler serves the public quote endpoint.
type DiscountHandler struct {
	service *application.DiscountService
}

// NewDiscountHandler creates a new DiscountHandler.
func NewDiscountHandler(service *application.DiscountService) *DiscountHandler {
	return &DiscountHandler{service: service}
}

// RegisterRoutes registers discount routes on the given router group.
func (h *DiscountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/discounts/validate", h.ValidateCode)
}

// ValidateCode handles POST /api/v1/discounts/validate
func (h *DiscountHandler) ValidateCode(c *gin.Context) {
	var req application.ValidateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	quote, err := h.service.ValidateCode(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, quote)
}
