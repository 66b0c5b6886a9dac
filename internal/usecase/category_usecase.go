package usecase

import (
	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.CategoryUseCase = (*categoryUseCase)(nil)

type categoryUseCase struct {
	categoryRepo domain.CategoryRepository
	log          *logrus.Logger
}

func NewCategoryUseCase(repo domain.CategoryRepository, logger *logrus.Logger) domain.CategoryUseCase {
	return &categoryUseCase{
		categoryRepo: repo,
		log:          logger,
	}
}

func (uc *categoryUseCase) CreateCategory(name string, callerRole domain.Role) (*domain.Category, error) {
	if err := domain.RequireRole(domain.AdminOnly, callerRole); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, domain.NewValidationError("category name must not be missing")
	}

	created, err := uc.categoryRepo.CreateCategory(&domain.Category{Name: name})
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to create category '%s': %v", name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Category %d created", created.ID)
	return created, nil
}

func (uc *categoryUseCase) GetCategoryByID(id int) (*domain.Category, error) {
	return uc.categoryRepo.GetCategoryByID(id)
}

func (uc *categoryUseCase) ListCategories() ([]domain.Category, error) {
	return uc.categoryRepo.ListCategories()
}

func (uc *categoryUseCase) UpdateCategory(id int, name string, callerRole domain.Role) (*domain.Category, error) {
	if err := domain.RequireRole(domain.AdminOnly, callerRole); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, domain.NewValidationError("category name must not be missing")
	}
	if _, err := uc.categoryRepo.GetCategoryByID(id); err != nil {
		return nil, err
	}

	updated, err := uc.categoryRepo.UpdateCategory(&domain.Category{ID: id, Name: name})
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to update category %d: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Category %d updated", id)
	return updated, nil
}

func (uc *categoryUseCase) DeleteCategory(id int, callerRole domain.Role) error {
	if err := domain.RequireRole(domain.AdminOnly, callerRole); err != nil {
		return err
	}
	if err := uc.categoryRepo.DeleteCategory(id); err != nil {
		uc.log.Warnf("Use Case: Failed to delete category %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Category %d deleted", id)
	return nil
}
