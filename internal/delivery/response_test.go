package delivery

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &domain.NotFoundError{Resource: "order", IDs: []int{7}}, http.StatusNotFound},
		{"validation", domain.NewValidationError("bad input"), http.StatusBadRequest},
		{"insufficient stock", &domain.InsufficientStockError{}, http.StatusBadRequest},
		{"invalid transition", &domain.InvalidTransitionError{From: domain.StatusDone, To: domain.StatusCancelled}, http.StatusConflict},
		{"forbidden", domain.ErrUnauthorized, http.StatusForbidden},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, mapErrorToStatus(tc.err))
		})
	}
}

func TestFailFromError_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	FailFromError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "connection refused")
	assert.Contains(t, recorder.Body.String(), "Internal server error")
}

func TestFailFromError_ExposesDomainDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	FailFromError(c, &domain.InsufficientStockError{Shortages: []domain.StockShortage{
		{ProductID: 1, ProductName: "Keyboard", Requested: 3, Available: 1},
	}})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Keyboard")
	assert.Contains(t, recorder.Body.String(), "available 1")
}
