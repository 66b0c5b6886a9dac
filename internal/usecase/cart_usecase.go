package usecase

import (
	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.CartUseCase = (*cartUseCase)(nil)

type cartUseCase struct {
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewCartUseCase(cartRepo domain.CartRepository, productRepo domain.ProductRepository, logger *logrus.Logger) domain.CartUseCase {
	return &cartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		log:         logger,
	}
}

func (uc *cartUseCase) AddToCart(userID, productID, quantity int, callerRole domain.Role) (*domain.CartEntry, error) {
	if err := domain.RequireRole(domain.AnyRole, callerRole); err != nil {
		return nil, err
	}
	if productID <= 0 {
		return nil, domain.NewValidationError("product id must not be missing")
	}
	if quantity < 1 {
		return nil, domain.NewValidationError("quantity must be at least 1")
	}

	// Existence check only: the cart is a weak reference, stock is validated
	// at order creation.
	product, err := uc.productRepo.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	entry, err := uc.cartRepo.CreateEntry(&domain.CartEntry{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		uc.log.Warnf("Use Case: Failed to add product %d to cart for user %d: %v", productID, userID, err)
		return nil, err
	}
	entry.Product = product

	uc.log.Infof("Use Case: Product %d added to cart for user %d (entry %d)", productID, userID, entry.ID)
	return entry, nil
}

func (uc *cartUseCase) UpdateCartEntry(entryID, userID, quantity int, callerRole domain.Role) (*domain.CartEntry, error) {
	if err := domain.RequireRole(domain.AnyRole, callerRole); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, domain.NewValidationError("quantity must be at least 1")
	}

	existing, err := uc.cartRepo.GetEntryByID(entryID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		uc.log.Warnf("Use Case: User %d attempted to update cart entry %d owned by user %d", userID, entryID, existing.UserID)
		return nil, domain.ErrUnauthorized
	}

	existing.Quantity = quantity
	updated, err := uc.cartRepo.UpdateEntry(existing)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to update cart entry %d: %v", entryID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Cart entry %d updated for user %d", entryID, userID)
	return updated, nil
}

func (uc *cartUseCase) RemoveFromCart(entryID, userID int, callerRole domain.Role) error {
	if err := domain.RequireRole(domain.AnyRole, callerRole); err != nil {
		return err
	}

	existing, err := uc.cartRepo.GetEntryByID(entryID)
	if err != nil {
		return err
	}
	if existing.UserID != userID && callerRole != domain.RoleAdmin {
		uc.log.Warnf("Use Case: User %d attempted to delete cart entry %d owned by user %d", userID, entryID, existing.UserID)
		return domain.ErrUnauthorized
	}

	if err := uc.cartRepo.DeleteEntry(entryID); err != nil {
		uc.log.Warnf("Use Case: Failed to delete cart entry %d: %v", entryID, err)
		return err
	}

	uc.log.Infof("Use Case: Cart entry %d removed for user %d", entryID, userID)
	return nil
}

func (uc *cartUseCase) GetUserCart(userID int, callerRole domain.Role) ([]domain.CartEntry, error) {
	if err := domain.RequireRole(domain.AnyRole, callerRole); err != nil {
		return nil, err
	}

	entries, err := uc.cartRepo.ListEntriesByUser(userID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list cart entries for user %d: %v", userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Retrieved %d cart entries for user %d", len(entries), userID)
	return entries, nil
}
