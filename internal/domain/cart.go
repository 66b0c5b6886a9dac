package domain

import "time"

// CartEntry is a weak reference from a user to a product, unique per
// (user, product) pair. Entries are purged when an order containing the
// product reaches a terminal state.
type CartEntry struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CartRepository interface {
	CreateEntry(entry *CartEntry) (*CartEntry, error)
	GetEntryByID(id int) (*CartEntry, error)
	ListEntriesByUser(userID int) ([]CartEntry, error)
	UpdateEntry(entry *CartEntry) (*CartEntry, error)
	DeleteEntry(id int) error
}

type CartUseCase interface {
	AddToCart(userID, productID, quantity int, callerRole Role) (*CartEntry, error)
	UpdateCartEntry(entryID, userID, quantity int, callerRole Role) (*CartEntry, error)
	RemoveFromCart(entryID, userID int, callerRole Role) error
	GetUserCart(userID int, callerRole Role) ([]CartEntry, error)
}
