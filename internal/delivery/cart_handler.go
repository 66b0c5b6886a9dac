package delivery

import (
	"net/http"
	"strconv"

	"storefront_service/internal/domain"
	"storefront_service/internal/middleware"

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
	carts := router.Group("/carts")
	{
		carts.POST("", h.AddToCart)
		carts.GET("/current", h.GetCurrentUserCart)
		carts.PUT("/:id", h.UpdateCartEntry)
		carts.DELETE("/:id", h.RemoveFromCart)
	}
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var requestBody struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for add to cart (user %d): %v", user.ID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.useCase.AddToCart(user.ID, requestBody.ProductID, requestBody.Quantity, user.Role)
	if err != nil {
		h.log.Warnf("Failed to add product %d to cart for user %d: %v", requestBody.ProductID, user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Cart entry created successfully", entry)
}

func (h *CartHandler) GetCurrentUserCart(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	entries, err := h.useCase.GetUserCart(user.ID, user.Role)
	if err != nil {
		h.log.Warnf("Failed to get cart for user %d: %v", user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", entries)
}

func (h *CartHandler) UpdateCartEntry(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	id, ok := cartEntryIDParam(c)
	if !ok {
		return
	}

	var requestBody struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for update cart entry %d (user %d): %v", id, user.ID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.useCase.UpdateCartEntry(id, user.ID, requestBody.Quantity, user.Role)
	if err != nil {
		h.log.Warnf("Failed to update cart entry %d for user %d: %v", id, user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Cart entry updated successfully", entry)
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	id, ok := cartEntryIDParam(c)
	if !ok {
		return
	}

	if err := h.useCase.RemoveFromCart(id, user.ID, user.Role); err != nil {
		h.log.Warnf("Failed to remove cart entry %d for user %d: %v", id, user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Cart entry deleted successfully", nil)
}

func cartEntryIDParam(c *gin.Context) (int, bool) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid cart entry ID format")
		return 0, false
	}
	return id, true
}
