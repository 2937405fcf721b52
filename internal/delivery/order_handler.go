package delivery

import (
	"net/http"
	"strconv"

	"pizzahunt/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	checkout domain.CheckoutUseCase
	useCase  domain.OrderUseCase
	log      *logrus.Logger
}

func NewOrderHandler(checkout domain.CheckoutUseCase, uc domain.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		useCase:  uc,
		log:      logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter) {
	orders := router.Group("/orders")
	{
		orders.POST("", h.Checkout)
		orders.GET("/:id", h.GetOrderByID)
	}
	router.GET("/account/orders", RequireUser(), h.ListOrders)
}

// RegisterAdminRoutes mounts the operator endpoints. router is expected to be
// behind APIKey.
func (h *OrderHandler) RegisterAdminRoutes(router gin.IRouter) {
	router.PATCH("/orders/:id/status", h.UpdateStatus)
}

type checkoutRequest struct {
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address" binding:"required"`
	Comment       string `json:"comment"`
	PaymentMethod string `json:"payment_method"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return 0, false
	}
	return id, true
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for checkout: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	owner := OwnerFrom(c)
	h.log.Infof("Processing checkout for %s", owner)
	order, err := h.checkout.Checkout(c.Request.Context(), owner, domain.CheckoutDetails{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Comment:       req.Comment,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respondError(c, h.log, "Failed to place order", err)
		return
	}

	h.log.Infof("Order %d placed successfully for %s", order.ID, owner)
	SuccessResponse(c, http.StatusCreated, "Order placed successfully", newOrderView(order))
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	order, err := h.useCase.GetOrder(c.Request.Context(), OwnerFrom(c), id)
	if err != nil {
		respondError(c, h.log, "Failed to get order", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", newOrderView(order))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid limit parameter")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid offset parameter")
		return
	}

	orders, err := h.useCase.ListOrders(c.Request.Context(), OwnerFrom(c).UserID, limit, offset)
	if err != nil {
		respondError(c, h.log, "Failed to list orders", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", newOrderViews(orders))
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for order %d status: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.UpdateStatus(c.Request.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		respondError(c, h.log, "Failed to update order status", err)
		return
	}
	h.log.Infof("Order %d moved to status %s", order.ID, order.Status)
	SuccessResponse(c, http.StatusOK, "Order status updated successfully", newOrderView(order))
}
