package domain

import (
	"context"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusDone      OrderStatus = "DONE"
	StatusCancelled OrderStatus = "CANCELLED"
)

// transitions is the single source of truth for legal status changes.
// Terminal states permit nothing.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusDone, StatusCancelled},
	StatusDone:      {},
	StatusCancelled: {},
}

func IsValidStatus(status OrderStatus) bool {
	_, ok := transitions[status]
	return ok
}

func IsTerminalStatus(status OrderStatus) bool {
	allowed, ok := transitions[status]
	return ok && len(allowed) == 0
}

// CheckTransition validates a status change against the transition table.
func CheckTransition(from, to OrderStatus) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

// StatusFilter selects orders by status in the list operations. The "done"
// filter deliberately means "not pending" (DONE and CANCELLED together),
// while "accepted" means DONE only.
type StatusFilter string

const (
	FilterPending   StatusFilter = "pending"
	FilterAccepted  StatusFilter = "accepted"
	FilterCancelled StatusFilter = "cancelled"
	FilterDone      StatusFilter = "done"
	FilterAll       StatusFilter = "all"
)

func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" {
		return FilterAll, nil
	}
	switch f := StatusFilter(s); f {
	case FilterPending, FilterAccepted, FilterCancelled, FilterDone, FilterAll:
		return f, nil
	default:
		return "", NewValidationError("unknown status filter: %s", s)
	}
}

func (f StatusFilter) Matches(status OrderStatus) bool {
	switch f {
	case FilterPending:
		return status == StatusPending
	case FilterAccepted:
		return status == StatusDone
	case FilterCancelled:
		return status == StatusCancelled
	case FilterDone:
		return status != StatusPending
	default:
		return true
	}
}

type Order struct {
	ID             int          `json:"id"`
	UserID         int          `json:"user_id"`
	Status         OrderStatus  `json:"status"`
	TotalPrice     float64      `json:"total_price"`
	ProofOfPayment string       `json:"proof_of_payment,omitempty"`
	OrderDate      time.Time    `json:"order_date"`
	Lines          []OrderLine  `json:"lines"`
	User           *UserSummary `json:"user,omitempty"`
}

// OrderLine captures the unit price at order time; it never changes when the
// live product price does.
type OrderLine struct {
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// RequestedLine is a client-requested (product, quantity) pair before any
// price or stock resolution.
type RequestedLine struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// PaymentArtifact is the opaque proof-of-payment attached to an order.
type PaymentArtifact struct {
	Filename string
	Data     []byte
}

type CreateOrderRequest struct {
	UserID         int
	Lines          []RequestedLine
	ProofOfPayment *PaymentArtifact
	CallerRole     Role
}

// OrderTx is the set of mutations available inside a single lifecycle
// transaction. Every method observes the transaction's consistent snapshot;
// nothing is visible to other operations until the transaction commits.
type OrderTx interface {
	// ProductsForUpdate reads and row-locks the given products so the stock
	// validation and the following decrement act on the same snapshot.
	ProductsForUpdate(ids []int) ([]Product, error)
	DecrementStock(productID, quantity int) error
	IncrementStock(productID, quantity int) error

	InsertOrder(order *Order) (*Order, error)
	// GetOrderForUpdate row-locks the order so concurrent decisions on the
	// same order serialize and the loser observes the terminal status.
	GetOrderForUpdate(id int) (*Order, error)
	UpdateOrderStatus(id int, status OrderStatus) error

	CartEntriesByUserAndProducts(userID int, productIDs []int) ([]CartEntry, error)
	DeleteCartEntriesByUserAndProducts(userID int, productIDs []int) error

	InsertHistoryEntry(entry *OrderHistoryEntry) error
}

// OrderStore runs a lifecycle operation as one atomically committed
// transaction. Any error from fn rolls the whole transaction back.
type OrderStore interface {
	WithinTx(ctx context.Context, fn func(tx OrderTx) error) error
}

// OrderRepository is the read side: projections only, no mutations.
type OrderRepository interface {
	GetOrderByID(id int) (*Order, error)
	ListOrdersByUser(userID int, filter StatusFilter) ([]Order, error)
	ListAllOrders(filter StatusFilter) ([]Order, error)
}

type OrderUseCase interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	AcceptOrder(ctx context.Context, orderID int, callerRole Role) (*Order, error)
	CancelOrder(ctx context.Context, orderID, callerUserID int, callerRole Role) (*Order, error)
	GetOrder(orderID, callerUserID int, callerRole Role) (*Order, error)
	ListOrdersForUser(userID int, filter StatusFilter, callerRole Role) ([]Order, error)
	ListAllOrders(filter StatusFilter, callerRole Role) ([]Order, error)
}
