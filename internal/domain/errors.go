package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized is returned by the role gate when the caller's role is not
// in the allowed set for an operation.
var ErrUnauthorized = errors.New("forbidden access")

// ValidationError marks input the client must fix before resubmitting.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports one or more absent referenced entities.
type NotFoundError struct {
	Resource string
	IDs      []int
}

func (e *NotFoundError) Error() string {
	if len(e.IDs) == 0 {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	if len(e.IDs) == 1 {
		return fmt.Sprintf("%s with id %d not found", e.Resource, e.IDs[0])
	}
	ids := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		ids = append(ids, fmt.Sprintf("%d", id))
	}
	return fmt.Sprintf("%ss not found for ids: %s", e.Resource, strings.Join(ids, ", "))
}

// StockShortage describes a single order line that exceeds available stock.
type StockShortage struct {
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// InsufficientStockError enumerates every offending line of a rejected
// reservation, not just the first one.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	details := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		details = append(details, fmt.Sprintf("%s (id %d, requested %d, available %d)",
			s.ProductName, s.ProductID, s.Requested, s.Available))
	}
	return "insufficient stock for products: " + strings.Join(details, ", ")
}

// InvalidTransitionError reports an attempted status change out of a terminal
// state, or onto a state the transition table does not permit.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	switch e.From {
	case StatusDone:
		return fmt.Sprintf("cannot move order to %s: order already done", e.To)
	case StatusCancelled:
		return fmt.Sprintf("cannot move order to %s: order already cancelled", e.To)
	default:
		return fmt.Sprintf("invalid order status transition from %s to %s", e.From, e.To)
	}
}
