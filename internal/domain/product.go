package domain

import "time"

// Product stock is the quantity the Inventory Ledger reserves against.
// The stock column carries a CHECK (stock >= 0) constraint; every reservation
// is additionally validated against a locked row before any decrement.
type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Description string    `json:"description"`
	CategoryID  int       `json:"category_id"`
	ImageRef    string    `json:"image_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductRepository interface {
	CreateProduct(product *Product) (*Product, error)
	GetProductByID(id int) (*Product, error)
	ListProducts(nameFilter string) ([]Product, error)
	ListProductsByCategory(categoryID int, nameFilter string) ([]Product, error)
	UpdateProduct(product *Product) (*Product, error)
	DeleteProduct(id int) error
}

type ProductUseCase interface {
	CreateProduct(product *Product, callerRole Role) (*Product, error)
	GetProductByID(id int) (*Product, error)
	ListProducts(nameFilter string) ([]Product, error)
	ListProductsByCategory(categoryID int, nameFilter string) ([]Product, error)
	UpdateProduct(product *Product, callerRole Role) (*Product, error)
	DeleteProduct(id int, callerRole Role) error
}
