package domain

import "time"

// OrderHistoryEntry is an immutable denormalized snapshot of an order written
// once per terminal transition. Names are copied so the audit trail survives
// later user or product deletes.
type OrderHistoryEntry struct {
	ID          int                `json:"id"`
	OrderID     int                `json:"order_id"`
	Status      OrderStatus        `json:"status"`
	OrderDate   time.Time          `json:"order_date"`
	TotalPrice  float64            `json:"total_price"`
	UserID      int                `json:"user_id"`
	UserName    string             `json:"user_name"`
	UserEmail   string             `json:"user_email"`
	UserAddress string             `json:"user_address"`
	RecordedAt  time.Time          `json:"recorded_at"`
	Lines       []OrderHistoryLine `json:"lines"`
}

type OrderHistoryLine struct {
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// HistoryRepository is read-only reporting over the audit trail; the
// lifecycle engine never consults it for decisions.
type HistoryRepository interface {
	ListHistoryEntries() ([]OrderHistoryEntry, error)
	ListHistoryByOrder(orderID int) ([]OrderHistoryEntry, error)
}
