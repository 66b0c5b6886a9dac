package usecase

import (
	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.ProductUseCase = (*productUseCase)(nil)

type productUseCase struct {
	productRepo  domain.ProductRepository
	categoryRepo domain.CategoryRepository
	log          *logrus.Logger
}

func NewProductUseCase(productRepo domain.ProductRepository, categoryRepo domain.CategoryRepository, logger *logrus.Logger) domain.ProductUseCase {
	return &productUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		log:          logger,
	}
}

func (uc *productUseCase) CreateProduct(product *domain.Product, callerRole domain.Role) (*domain.Product, error) {
	if err := domain.RequireRole(domain.AdminOnly, callerRole); err != nil {
		return nil, err
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if product.CategoryID != 0 {
		if _, err := uc.categoryRepo.GetCategoryByID(product.CategoryID); err != nil {
			return nil, err
		}
	}

	created, err := uc.productRepo.CreateProduct(product)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to create product '%s': %v", product.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product %d created", created.ID)
	return created, nil
}

func (uc *productUseCase) GetProductByID(id int) (*domain.Product, error) {
	return uc.productRepo.GetProductByID(id)
}

func (uc *productUseCase) ListProducts(nameFilter string) ([]domain.Product, error) {
	return uc.productRepo.ListProducts(nameFilter)
}

func (uc *productUseCase) ListProductsByCategory(categoryID int, nameFilter string) ([]domain.Product, error) {
	if _, err := uc.categoryRepo.GetCategoryByID(categoryID); err != nil {
		return nil, err
	}
	return uc.productRepo.ListProductsByCategory(categoryID, nameFilter)
}

func (uc *productUseCase) UpdateProduct(product *domain.Product, callerRole domain.Role) (*domain.Product, error) {
	if err := domain.RequireRole(domain.AdminOnly, callerRole); err != nil {
		return nil, err
	}

	existing, err := uc.productRepo.GetProductByID(product.ID)
	if err != nil {
		return nil, err
	}

	if product.Name == "" {
		product.Name = existing.Name
	}
	if product.Price == 0 {
		product.Price = existing.Price
	}
	if product.Description == "" {
		product.Description = existing.Description
	}
	if product.ImageRef == "" {
		product.ImageRef = existing.ImageRef
	}
	if product.CategoryID == 0 {
		product.CategoryID = existing.CategoryID
	} else if _, err := uc.categoryRepo.GetCategoryByID(product.CategoryID); err != nil {
		return nil, err
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	updated, err := uc.productRepo.UpdateProduct(product)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to update product %d: %v", product.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product %d updated", updated.ID)
	return updated, nil
}

func (uc *productUseCase) DeleteProduct(id int, callerRole domain.Role) error {
	if err := domain.RequireRole(domain.AdminOnly, callerRole); err != nil {
		return err
	}
	if err := uc.productRepo.DeleteProduct(id); err != nil {
		uc.log.Warnf("Use Case: Failed to delete product %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Product %d deleted", id)
	return nil
}

func validateProduct(product *domain.Product) error {
	if product.Name == "" {
		return domain.NewValidationError("product name must not be missing")
	}
	if product.Price < 0 {
		return domain.NewValidationError("product price cannot be negative")
	}
	if product.Stock < 0 {
		return domain.NewValidationError("product stock cannot be negative")
	}
	return nil
}
