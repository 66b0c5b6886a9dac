package delivery

import (
	"net/http"
	"strconv"

	"storefront_service/internal/domain"
	"storefront_service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	useCase domain.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc domain.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterPublicRoutes exposes the read-only catalog.
func (h *ProductHandler) RegisterPublicRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProductByID)
	}
}

// RegisterPrivateRoutes exposes the admin mutations.
func (h *ProductHandler) RegisterPrivateRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	nameFilter := c.Query("name")

	if categoryStr := c.Query("category_id"); categoryStr != "" {
		categoryID, err := strconv.Atoi(categoryStr)
		if err != nil || categoryID <= 0 {
			ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
			return
		}
		products, err := h.useCase.ListProductsByCategory(categoryID, nameFilter)
		if err != nil {
			h.log.Warnf("Failed to list products for category %d: %v", categoryID, err)
			FailFromError(c, err)
			return
		}
		SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
		return
	}

	products, err := h.useCase.ListProducts(nameFilter)
	if err != nil {
		h.log.Errorf("Failed to list products: %v", err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	product, err := h.useCase.GetProductByID(id)
	if err != nil {
		h.log.Warnf("Failed to get product %d: %v", id, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

type productRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
	CategoryID  int     `json:"category_id"`
	ImageRef    string  `json:"image_ref"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var requestBody productRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.useCase.CreateProduct(&domain.Product{
		Name:        requestBody.Name,
		Price:       requestBody.Price,
		Stock:       requestBody.Stock,
		Description: requestBody.Description,
		CategoryID:  requestBody.CategoryID,
		ImageRef:    requestBody.ImageRef,
	}, user.Role)
	if err != nil {
		h.log.Warnf("Failed to create product '%s' (user %d): %v", requestBody.Name, user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var requestBody productRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for update product %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.useCase.UpdateProduct(&domain.Product{
		ID:          id,
		Name:        requestBody.Name,
		Price:       requestBody.Price,
		Stock:       requestBody.Stock,
		Description: requestBody.Description,
		CategoryID:  requestBody.CategoryID,
		ImageRef:    requestBody.ImageRef,
	}, user.Role)
	if err != nil {
		h.log.Warnf("Failed to update product %d (user %d): %v", id, user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	if err := h.useCase.DeleteProduct(id, user.Role); err != nil {
		h.log.Warnf("Failed to delete product %d (user %d): %v", id, user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}

func productIDParam(c *gin.Context) (int, bool) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return 0, false
	}
	return id, true
}
