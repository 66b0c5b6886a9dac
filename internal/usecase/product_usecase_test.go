package usecase

import (
	"errors"
	"testing"

	"storefront_service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryRepo struct {
	categories map[int]*domain.Category
}

func (r *fakeCategoryRepo) CreateCategory(category *domain.Category) (*domain.Category, error) {
	r.categories[category.ID] = category
	return category, nil
}

func (r *fakeCategoryRepo) GetCategoryByID(id int) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "category", IDs: []int{id}}
	}
	return category, nil
}

func (r *fakeCategoryRepo) ListCategories() ([]domain.Category, error) {
	categories := []domain.Category{}
	for _, category := range r.categories {
		categories = append(categories, *category)
	}
	return categories, nil
}

func (r *fakeCategoryRepo) UpdateCategory(category *domain.Category) (*domain.Category, error) {
	r.categories[category.ID] = category
	return category, nil
}

func (r *fakeCategoryRepo) DeleteCategory(id int) error {
	delete(r.categories, id)
	return nil
}

func newProductFixture() domain.ProductUseCase {
	products := &fakeProductRepo{products: map[int]*domain.Product{
		1: {ID: 1, Name: "Keyboard", Price: 25.5, Stock: 5, CategoryID: 1},
	}}
	categories := &fakeCategoryRepo{categories: map[int]*domain.Category{
		1: {ID: 1, Name: "Peripherals"},
	}}
	return NewProductUseCase(products, categories, testLogger())
}

func TestCreateProduct_AdminOnly(t *testing.T) {
	uc := newProductFixture()

	_, err := uc.CreateProduct(&domain.Product{Name: "Mouse", Price: 10, Stock: 3}, domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	created, err := uc.CreateProduct(&domain.Product{Name: "Mouse", Price: 10, Stock: 3}, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Mouse", created.Name)
}

func TestCreateProduct_Validation(t *testing.T) {
	uc := newProductFixture()

	cases := []struct {
		name    string
		product domain.Product
	}{
		{"missing name", domain.Product{Price: 10, Stock: 1}},
		{"negative price", domain.Product{Name: "Mouse", Price: -1, Stock: 1}},
		{"negative stock", domain.Product{Name: "Mouse", Price: 10, Stock: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateProduct(&tc.product, domain.RoleAdmin)
			var validation *domain.ValidationError
			require.True(t, errors.As(err, &validation))
		})
	}
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	uc := newProductFixture()

	_, err := uc.CreateProduct(&domain.Product{Name: "Mouse", Price: 10, Stock: 1, CategoryID: 99}, domain.RoleAdmin)
	var notFound *domain.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "category", notFound.Resource)
}

func TestUpdateProduct_FillsUnspecifiedFields(t *testing.T) {
	uc := newProductFixture()

	updated, err := uc.UpdateProduct(&domain.Product{ID: 1, Stock: 9}, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", updated.Name)
	assert.InDelta(t, 25.5, updated.Price, 1e-9)
	assert.Equal(t, 9, updated.Stock)
	assert.Equal(t, 1, updated.CategoryID)
}

func TestListProductsByCategory_UnknownCategory(t *testing.T) {
	uc := newProductFixture()

	_, err := uc.ListProductsByCategory(99, "")
	var notFound *domain.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}
