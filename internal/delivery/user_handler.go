package delivery

import (
	"net/http"
	"strconv"

	"storefront_service/internal/domain"
	"storefront_service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	useCase domain.UserUseCase
	log     *logrus.Logger
}

func NewUserHandler(uc domain.UserUseCase, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterPublicRoutes exposes registration and login.
func (h *UserHandler) RegisterPublicRoutes(router gin.IRouter) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

// RegisterPrivateRoutes exposes the token-gated account surface.
func (h *UserHandler) RegisterPrivateRoutes(router gin.IRouter) {
	router.POST("/auth/logout", h.Logout)

	users := router.Group("/users")
	{
		users.GET("/current", h.GetCurrentUser)
		users.GET("/:id", h.GetUserByID)
		users.GET("", h.ListUsers)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

type registerRequest struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Address     string      `json:"address"`
	PhoneNumber string      `json:"phone_number"`
	Password    string      `json:"password"`
	Role        domain.Role `json:"role"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var requestBody registerRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for register: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.useCase.Register(
		requestBody.Name,
		requestBody.Email,
		requestBody.Address,
		requestBody.PhoneNumber,
		requestBody.Password,
		requestBody.Role,
	)
	if err != nil {
		h.log.Warnf("Failed to register user '%s': %v", requestBody.Email, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "User registered successfully", user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var requestBody struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for login: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	auth, err := h.useCase.Login(requestBody.Email, requestBody.Password)
	if err != nil {
		h.log.Warnf("Failed login attempt for '%s': %v", requestBody.Email, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Login successful", auth)
}

func (h *UserHandler) Logout(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	if err := h.useCase.Logout(user.ID, user.Role); err != nil {
		h.log.Warnf("Failed to log out user %d: %v", user.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Logout successful", nil)
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	SuccessResponse(c, http.StatusOK, "User retrieved successfully", user)
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	caller, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	user, err := h.useCase.GetUserByID(id, caller.Role)
	if err != nil {
		h.log.Warnf("Failed to get user %d (caller %d): %v", id, caller.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "User retrieved successfully", user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	caller, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	users, err := h.useCase.ListUsers(c.Query("name"), caller.Role)
	if err != nil {
		h.log.Warnf("Failed to list users (caller %d): %v", caller.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	caller, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	var requestBody registerRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Warnf("Failed to bind JSON for update user %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if caller.Role != domain.RoleAdmin && caller.ID != id {
		FailFromError(c, domain.ErrUnauthorized)
		return
	}

	user, err := h.useCase.UpdateUser(&domain.User{
		ID:          id,
		Name:        requestBody.Name,
		Email:       requestBody.Email,
		Address:     requestBody.Address,
		PhoneNumber: requestBody.PhoneNumber,
		Role:        requestBody.Role,
	}, requestBody.Password, caller.Role)
	if err != nil {
		h.log.Warnf("Failed to update user %d (caller %d): %v", id, caller.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	caller, ok := middleware.LoggedUser(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	if err := h.useCase.DeleteUser(id, caller.Role); err != nil {
		h.log.Warnf("Failed to delete user %d (caller %d): %v", id, caller.ID, err)
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}

func userIDParam(c *gin.Context) (int, bool) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user ID format")
		return 0, false
	}
	return id, true
}
