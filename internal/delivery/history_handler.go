package delivery

import (
	"net/http"
	"strconv"

	"storefront_service/internal/domain"
	"storefront_service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HistoryHandler serves the admin-only audit trail of terminal order
// transitions. Entries are immutable so the surface is read-only.
type HistoryHandler struct {
	repo domain.HistoryRepository
	log  *logrus.Logger
}

func NewHistoryHandler(repo domain.HistoryRepository, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{
		repo: repo,
		log:  logger,
	}
}

func (h *HistoryHandler) RegisterRoutes(router gin.IRouter) {
	history := router.Group("/order-history")
	{
		history.GET("", h.ListHistory)
		history.GET("/:orderId", h.ListHistoryByOrder)
	}
}

func (h *HistoryHandler) ListHistory(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	if err := domain.RequireRole(domain.AdminOnly, user.Role); err != nil {
		FailFromError(c, err)
		return
	}

	entries, err := h.repo.ListHistoryEntries()
	if err != nil {
		h.log.Errorf("Failed to list order history (user %d): %v", user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Order history retrieved successfully", entries)
}

func (h *HistoryHandler) ListHistoryByOrder(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	if err := domain.RequireRole(domain.AdminOnly, user.Role); err != nil {
		FailFromError(c, err)
		return
	}

	orderIDStr := c.Param("orderId")
	orderID, err := strconv.Atoi(orderIDStr)
	if err != nil || orderID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	entries, err := h.repo.ListHistoryByOrder(orderID)
	if err != nil {
		h.log.Warnf("Failed to list history for order %d (user %d): %v", orderID, user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Order history retrieved successfully", entries)
}
