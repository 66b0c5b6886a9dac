package delivery

import (
	"net/http"
	"strconv"

	"storefront_service/internal/domain"
	"storefront_service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CategoryHandler struct {
	useCase domain.CategoryUseCase
	log     *logrus.Logger
}

func NewCategoryHandler(uc domain.CategoryUseCase, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CategoryHandler) RegisterPublicRoutes(router gin.IRouter) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategoryByID)
	}
}

func (h *CategoryHandler) RegisterPrivateRoutes(router gin.IRouter) {
	categories := router.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.useCase.ListCategories()
	if err != nil {
		h.log.Errorf("Failed to list categories: %v", err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", categories)
}

func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	id, ok := categoryIDParam(c)
	if !ok {
		return
	}

	category, err := h.useCase.GetCategoryByID(id)
	if err != nil {
		h.log.Warnf("Failed to get category %d: %v", id, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Category retrieved successfully", category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var requestBody struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for create category: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.useCase.CreateCategory(requestBody.Name, user.Role)
	if err != nil {
		h.log.Warnf("Failed to create category '%s' (user %d): %v", requestBody.Name, user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Category created successfully", category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	id, ok := categoryIDParam(c)
	if !ok {
		return
	}

	var requestBody struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for update category %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.useCase.UpdateCategory(id, requestBody.Name, user.Role)
	if err != nil {
		h.log.Warnf("Failed to update category %d (user %d): %v", id, user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Category updated successfully", category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	id, ok := categoryIDParam(c)
	if !ok {
		return
	}

	if err := h.useCase.DeleteCategory(id, user.Role); err != nil {
		h.log.Warnf("Failed to delete category %d (user %d): %v", id, user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Category deleted successfully", nil)
}

func categoryIDParam(c *gin.Context) (int, bool) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return 0, false
	}
	return id, true
}
