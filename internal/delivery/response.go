package delivery

import (
	"errors"
	"net/http"

	"storefront_service/internal/domain"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

// mapErrorToStatus translates the domain error taxonomy to HTTP statuses.
// Anything outside the taxonomy is a server error; the caller may resubmit
// but nothing is retried automatically.
func mapErrorToStatus(err error) int {
	var notFound *domain.NotFoundError
	var validation *domain.ValidationError
	var insufficient *domain.InsufficientStockError
	var transition *domain.InvalidTransitionError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &insufficient):
		return http.StatusBadRequest
	case errors.As(err, &transition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FailFromError writes the error with its mapped status, hiding internal
// detail for server-side failures.
func FailFromError(c *gin.Context, err error) {
	statusCode := mapErrorToStatus(err)
	if statusCode == http.StatusInternalServerError {
		ErrorResponse(c, statusCode, "Internal server error")
		return
	}
	ErrorResponse(c, statusCode, err.Error())
}
