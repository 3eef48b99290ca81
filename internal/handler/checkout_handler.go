package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/perfectlystyled/service-checkout/internal/application"
	"github.com/perfectlystyled/service-checkout/internal/platform/response"
)

// CheckoutHandler handles the public checkout and settlement endpoints.
type CheckoutHandler struct {
	checkout   *application.CheckoutService
	settlement *application.SettlementService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout *application.CheckoutService, settlement *application.SettlementService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, settlement: settlement}
}

// RegisterRoutes registers checkout routes on the given router group.
func (h *CheckoutHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/checkout", h.CreateOrder)
	r.POST("/payment-success", h.PaymentSuccess)
}

// CreateOrder handles POST /api/v1/checkout
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	var req application.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.checkout.CreateOrder(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"orderId":     result.OrderID,
		"finalAmount": result.FinalAmount,
	})
}

// PaymentSuccess handles POST /api/v1/payment-success
func (h *CheckoutHandler) PaymentSuccess(c *gin.Context) {
	var req application.SettlePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.settlement.Settle(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
