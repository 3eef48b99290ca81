package handler

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/perfectlystyled/service-checkout/internal/application"
	"github.com/perfectlystyled/service-checkout/internal/platform/auth"
	"github.com/perfectlystyled/service-checkout/internal/platform/middleware"
	"github.com/perfectlystyled/service-checkout/internal/platform/response"
)

const maxPageSize = 100

// AdminHandler handles admin requests for discount codes and orders.
type AdminHandler struct {
	discountService *application.DiscountService
	orderService    *application.OrderService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(discountService *application.DiscountService, orderService *application.OrderService) *AdminHandler {
	return &AdminHandler{
		discountService: discountService,
		orderService:    orderService,
	}
}

// RegisterRoutes registers admin routes behind bearer auth and the admin role.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, validator middleware.TokenValidator) {
	authMW := middleware.AuthMiddleware(validator)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/admin")
	admin.Use(authMW, adminRole)
	{
		admin.POST("/discounts", h.CreateDiscount)
		admin.GET("/discounts", h.ListDiscounts)
		admin.POST("/discounts/:code/deactivate", h.DeactivateDiscount)
		admin.GET("/orders", h.ListOrders)
		admin.GET("/orders/:id", h.GetOrder)
		admin.GET("/stats/orders", h.OrderStats)
	}
}

// CreateDiscount handles POST /api/v1/admin/discounts.
func (h *AdminHandler) CreateDiscount(c *gin.Context) {
	var req application.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.discountService.CreateDiscount(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto)
}

// DeactivateDiscount handles POST /api/v1/admin/discounts/:code/deactivate.
func (h *AdminHandler) DeactivateDiscount(c *gin.Context) {
	subject, _ := middleware.GetSubject(c)

	dto, err := h.discountService.DeactivateDiscount(c.Request.Context(), c.Param("code"), subject)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// ListDiscounts handles GET /api/v1/admin/discounts.
func (h *AdminHandler) ListDiscounts(c *gin.Context) {
	codes, err := h.discountService.ListDiscounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, codes)
}

// ListOrders handles GET /api/v1/admin/orders.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = 20
	}
	if maxPage := math.MaxInt32 / limit; page > maxPage {
		page = maxPage
	}

	orders, total, err := h.orderService.ListAllOrders(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, orders, total, page, limit)
}

// GetOrder handles GET /api/v1/admin/orders/:id.
func (h *AdminHandler) GetOrder(c *gin.Context) {
	dto, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// OrderStats handles GET /api/v1/admin/stats/orders.
func (h *AdminHandler) OrderStats(c *gin.Context) {
	stats, err := h.orderService.GetOrderStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
