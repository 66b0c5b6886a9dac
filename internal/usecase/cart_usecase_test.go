package usecase

import (
	"errors"
	"testing"

	"storefront_service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartRepo struct {
	entries map[int]*domain.CartEntry
	nextID  int
}

func (r *fakeCartRepo) CreateEntry(entry *domain.CartEntry) (*domain.CartEntry, error) {
	for _, existing := range r.entries {
		if existing.UserID == entry.UserID && existing.ProductID == entry.ProductID {
			return nil, domain.NewValidationError("cart entry for product %d already exists", entry.ProductID)
		}
	}
	entry.ID = r.nextID
	r.nextID++
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *fakeCartRepo) GetEntryByID(id int) (*domain.CartEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "cart entry", IDs: []int{id}}
	}
	return entry, nil
}

func (r *fakeCartRepo) ListEntriesByUser(userID int) ([]domain.CartEntry, error) {
	entries := []domain.CartEntry{}
	for _, entry := range r.entries {
		if entry.UserID == userID {
			entries = append(entries, *entry)
		}
	}
	return entries, nil
}

func (r *fakeCartRepo) UpdateEntry(entry *domain.CartEntry) (*domain.CartEntry, error) {
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *fakeCartRepo) DeleteEntry(id int) error {
	if _, ok := r.entries[id]; !ok {
		return &domain.NotFoundError{Resource: "cart entry", IDs: []int{id}}
	}
	delete(r.entries, id)
	return nil
}

type fakeProductRepo struct {
	products map[int]*domain.Product
}

func (r *fakeProductRepo) CreateProduct(product *domain.Product) (*domain.Product, error) {
	r.products[product.ID] = product
	return product, nil
}

func (r *fakeProductRepo) GetProductByID(id int) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "product", IDs: []int{id}}
	}
	return product, nil
}

func (r *fakeProductRepo) ListProducts(string) ([]domain.Product, error) {
	products := []domain.Product{}
	for _, product := range r.products {
		products = append(products, *product)
	}
	return products, nil
}

func (r *fakeProductRepo) ListProductsByCategory(categoryID int, _ string) ([]domain.Product, error) {
	products := []domain.Product{}
	for _, product := range r.products {
		if product.CategoryID == categoryID {
			products = append(products, *product)
		}
	}
	return products, nil
}

func (r *fakeProductRepo) UpdateProduct(product *domain.Product) (*domain.Product, error) {
	r.products[product.ID] = product
	return product, nil
}

func (r *fakeProductRepo) DeleteProduct(id int) error {
	delete(r.products, id)
	return nil
}

func newCartFixture() (domain.CartUseCase, *fakeCartRepo) {
	carts := &fakeCartRepo{entries: map[int]*domain.CartEntry{}, nextID: 1}
	products := &fakeProductRepo{products: map[int]*domain.Product{
		// Zero stock on purpose: the cart accepts it, order creation rejects it.
		1: {ID: 1, Name: "Keyboard", Price: 25.5, Stock: 0},
	}}
	return NewCartUseCase(carts, products, testLogger()), carts
}

func TestAddToCart_IgnoresStockLevel(t *testing.T) {
	uc, _ := newCartFixture()

	entry, err := uc.AddToCart(10, 1, 4, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, 4, entry.Quantity)
	require.NotNil(t, entry.Product)
	assert.Equal(t, "Keyboard", entry.Product.Name)
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	uc, _ := newCartFixture()

	_, err := uc.AddToCart(10, 99, 1, domain.RoleCustomer)
	var notFound *domain.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "product", notFound.Resource)
}

func TestAddToCart_Validation(t *testing.T) {
	uc, _ := newCartFixture()

	_, err := uc.AddToCart(10, 1, 0, domain.RoleCustomer)
	var validation *domain.ValidationError
	require.True(t, errors.As(err, &validation))

	_, err = uc.AddToCart(10, 0, 1, domain.RoleCustomer)
	require.True(t, errors.As(err, &validation))
}

func TestAddToCart_DuplicateProduct(t *testing.T) {
	uc, _ := newCartFixture()

	_, err := uc.AddToCart(10, 1, 1, domain.RoleCustomer)
	require.NoError(t, err)

	_, err = uc.AddToCart(10, 1, 2, domain.RoleCustomer)
	var validation *domain.ValidationError
	require.True(t, errors.As(err, &validation))
}

func TestUpdateCartEntry_OwnershipEnforced(t *testing.T) {
	uc, _ := newCartFixture()

	entry, err := uc.AddToCart(10, 1, 1, domain.RoleCustomer)
	require.NoError(t, err)

	_, err = uc.UpdateCartEntry(entry.ID, 11, 2, domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	updated, err := uc.UpdateCartEntry(entry.ID, 10, 2, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)
}

func TestRemoveFromCart(t *testing.T) {
	uc, carts := newCartFixture()

	entry, err := uc.AddToCart(10, 1, 1, domain.RoleCustomer)
	require.NoError(t, err)

	assert.ErrorIs(t, uc.RemoveFromCart(entry.ID, 11, domain.RoleCustomer), domain.ErrUnauthorized)

	require.NoError(t, uc.RemoveFromCart(entry.ID, 10, domain.RoleCustomer))
	assert.Empty(t, carts.entries)

	err = uc.RemoveFromCart(entry.ID, 10, domain.RoleCustomer)
	var notFound *domain.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}
