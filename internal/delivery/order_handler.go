package delivery

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"storefront_service/internal/domain"
	"storefront_service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	useCase domain.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc domain.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter) {
	orders := router.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.POST("/:id/accept", h.AcceptOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.GET("/current", h.ListCurrentUserOrders)
		orders.GET("/:id", h.GetOrderByID)
		orders.GET("", h.ListAllOrders)
	}
}

// CreateOrder accepts either a JSON body with the requested lines or a
// multipart form carrying a "lines" JSON field plus the proof-of-payment
// file under "proof_of_payment".
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var lines []domain.RequestedLine
	var proof *domain.PaymentArtifact

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		linesField := c.PostForm("lines")
		if linesField == "" {
			ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'lines' form field is required")
			return
		}
		if err := json.Unmarshal([]byte(linesField), &lines); err != nil {
			h.log.Warnf("Failed to parse lines form field for user %d: %v", user.ID, err)
			ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}

		fileHeader, err := c.FormFile("proof_of_payment")
		if err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				h.log.Errorf("Failed to open payment proof upload for user %d: %v", user.ID, err)
				ErrorResponse(c, http.StatusBadRequest, "Could not read payment proof upload")
				return
			}
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				h.log.Errorf("Failed to read payment proof upload for user %d: %v", user.ID, err)
				ErrorResponse(c, http.StatusBadRequest, "Could not read payment proof upload")
				return
			}
			proof = &domain.PaymentArtifact{Filename: fileHeader.Filename, Data: data}
		}
	} else {
		var requestBody struct {
			Lines []domain.RequestedLine `json:"lines"`
		}
		if err := c.ShouldBindJSON(&requestBody); err != nil {
			h.log.Warnf("Failed to bind JSON for create order (user %d): %v", user.ID, err)
			ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
		lines = requestBody.Lines
	}

	h.log.Infof("Processing create order request for user %d (%d lines)", user.ID, len(lines))

	order, err := h.useCase.CreateOrder(c.Request.Context(), domain.CreateOrderRequest{
		UserID:         user.ID,
		Lines:          lines,
		ProofOfPayment: proof,
		CallerRole:     user.Role,
	})
	if err != nil {
		h.log.Warnf("Failed to create order for user %d: %v", user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Order created successfully", order)
}

func (h *OrderHandler) AcceptOrder(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.useCase.AcceptOrder(c.Request.Context(), id, user.Role)
	if err != nil {
		h.log.Warnf("Failed to accept order %d (user %d): %v", id, user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Order accepted successfully", order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.useCase.CancelOrder(c.Request.Context(), id, user.ID, user.Role)
	if err != nil {
		h.log.Warnf("Failed to cancel order %d (user %d): %v", id, user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Order cancelled successfully", order)
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.useCase.GetOrder(id, user.ID, user.Role)
	if err != nil {
		h.log.Warnf("Failed to get order %d (user %d): %v", id, user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) ListCurrentUserOrders(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	filter, err := domain.ParseStatusFilter(c.Query("status"))
	if err != nil {
		FailFromError(c, err)
		return
	}

	orders, err := h.useCase.ListOrdersForUser(user.ID, filter, user.Role)
	if err != nil {
		h.log.Warnf("Failed to list orders for user %d: %v", user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	filter, err := domain.ParseStatusFilter(c.Query("status"))
	if err != nil {
		FailFromError(c, err)
		return
	}

	orders, err := h.useCase.ListAllOrders(filter, user.Role)
	if err != nil {
		h.log.Warnf("Failed to list all orders (user %d): %v", user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func orderIDParam(c *gin.Context) (int, bool) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return 0, false
	}
	return id, true
}
