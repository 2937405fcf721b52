package delivery

import (
	"net/http"
	"strconv"

	"pizzahunt/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CatalogHandler struct {
	useCase domain.CatalogUseCase
	log     *logrus.Logger
}

func NewCatalogHandler(uc domain.CatalogUseCase, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CatalogHandler) RegisterRoutes(router gin.IRouter) {
	catalog := router.Group("/catalog")
	{
		catalog.GET("/home", h.Home)
		catalog.GET("/menu", h.Menu)
		catalog.GET("/categories", h.Categories)
		catalog.GET("/pizzas/:slug", h.GetPizza)
		catalog.GET("/combos", h.Combos)
		catalog.GET("/combos/:id", h.GetCombo)
		catalog.GET("/promotions", h.Promotions)
	}
}

func (h *CatalogHandler) Home(c *gin.Context) {
	page, err := h.useCase.Home(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to load home page", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Home page retrieved successfully", page)
}

func (h *CatalogHandler) Menu(c *gin.Context) {
	query := domain.MenuQuery{
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}
	page, err := h.useCase.Menu(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.log, "Failed to load menu", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Menu retrieved successfully", page)
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.useCase.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to list categories", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// GetPizza accepts a slug or a numeric id.
func (h *CatalogHandler) GetPizza(c *gin.Context) {
	param := c.Param("slug")

	var (
		pizza *domain.Pizza
		err   error
	)
	if id, convErr := strconv.ParseInt(param, 10, 64); convErr == nil {
		pizza, err = h.useCase.Pizza(c.Request.Context(), id)
	} else {
		pizza, err = h.useCase.PizzaBySlug(c.Request.Context(), param)
	}
	if err != nil {
		respondError(c, h.log, "Failed to get pizza", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Pizza retrieved successfully", pizza)
}

func (h *CatalogHandler) Combos(c *gin.Context) {
	combos, err := h.useCase.Combos(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to list combos", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Combos retrieved successfully", combos)
}

func (h *CatalogHandler) GetCombo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid combo ID format")
		return
	}
	combo, err := h.useCase.Combo(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "Failed to get combo", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Combo retrieved successfully", combo)
}

func (h *CatalogHandler) Promotions(c *gin.Context) {
	promotions, err := h.useCase.Promotions(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to list promotions", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Promotions retrieved successfully", promotions)
}
