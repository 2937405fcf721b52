package delivery

import (
	"net/http"
	"strconv"

	"pizzahunt/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CartHandler struct {
	useCase domain.CartUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc domain.CartUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CartHandler) RegisterRoutes(router gin.IRouter) {
	cart := router.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.Clear)
		cart.POST("/items", h.AddItem)
		cart.PATCH("/items/:id", h.UpdateItem)
		cart.DELETE("/items/:id", h.RemoveItem)
	}
}

type addItemRequest struct {
	Kind     domain.ItemKind `json:"kind" binding:"required"`
	ItemID   int64           `json:"item_id" binding:"required"`
	Size     int             `json:"size"`
	Quantity int             `json:"quantity"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.useCase.GetCart(c.Request.Context(), OwnerFrom(c))
	if err != nil {
		respondError(c, h.log, "Failed to get cart", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", newCartView(cart))
}

// fail answers a rejected mutation with the cart as it still is.
func (h *CartHandler) fail(c *gin.Context, action string, err error) {
	statusCode := mapErrorToStatus(err)
	message := action + ": " + errorMessage(err, statusCode)
	if statusCode >= http.StatusInternalServerError {
		h.log.Errorf("%s for %s: %v", action, OwnerFrom(c), err)
	} else {
		h.log.Warnf("%s for %s: %v", action, OwnerFrom(c), err)
	}

	cart, getErr := h.useCase.GetCart(c.Request.Context(), OwnerFrom(c))
	if getErr != nil {
		h.log.Errorf("Failed to reload cart after rejected mutation: %v", getErr)
		cart = nil
	}
	FailResponse(c, statusCode, message, failedCartMutationView(message, cart))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for add to cart: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.useCase.AddItem(c.Request.Context(), OwnerFrom(c), domain.AddItemInput{
		Kind:     req.Kind,
		ItemID:   req.ItemID,
		Size:     domain.Size(req.Size),
		Quantity: req.Quantity,
	})
	if err != nil {
		h.fail(c, "Failed to add item", err)
		return
	}
	SuccessResponse(c, http.StatusOK, result.Message, newCartMutationView(result))
}

func itemIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid cart item ID format")
		return 0, false
	}
	return id, true
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for cart item %d: %v", itemID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.useCase.UpdateItem(c.Request.Context(), OwnerFrom(c), itemID, *req.Quantity)
	if err != nil {
		h.fail(c, "Failed to update item", err)
		return
	}
	SuccessResponse(c, http.StatusOK, result.Message, newCartMutationView(result))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}
	result, err := h.useCase.RemoveItem(c.Request.Context(), OwnerFrom(c), itemID)
	if err != nil {
		h.fail(c, "Failed to remove item", err)
		return
	}
	SuccessResponse(c, http.StatusOK, result.Message, newCartMutationView(result))
}

func (h *CartHandler) Clear(c *gin.Context) {
	result, err := h.useCase.Clear(c.Request.Context(), OwnerFrom(c))
	if err != nil {
		h.fail(c, "Failed to clear cart", err)
		return
	}
	SuccessResponse(c, http.StatusOK, result.Message, newCartMutationView(result))
}
