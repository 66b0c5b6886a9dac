package usecase

import (
	"context"

	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
)

var _ domain.OrderUseCase = (*orderUseCase)(nil)

// orderUseCase is the order lifecycle engine. Every lifecycle operation runs
// as one transaction through the order store; the read-only queries go through
// the order repository.
type orderUseCase struct {
	store        domain.OrderStore
	orderRepo    domain.OrderRepository
	userRepo     domain.UserRepository
	artifacts    domain.ArtifactStore
	requireProof bool
	log          *logrus.Logger
}

func NewOrderUseCase(
	store domain.OrderStore,
	orderRepo domain.OrderRepository,
	userRepo domain.UserRepository,
	artifacts domain.ArtifactStore,
	requireProof bool,
	logger *logrus.Logger,
) domain.OrderUseCase {
	return &orderUseCase{
		store:        store,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		artifacts:    artifacts,
		requireProof: requireProof,
		log:          logger,
	}
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	if err := domain.RequireRole(domain.AnyRole, req.CallerRole); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetUserByID(req.UserID)
	if err != nil {
		uc.log.Warnf("Use Case: Create order rejected, user %d lookup failed: %v", req.UserID, err)
		return nil, err
	}

	if len(req.Lines) == 0 {
		uc.log.Warnf("Use Case: Create order rejected for user %d, no requested products", req.UserID)
		return nil, domain.NewValidationError("order must contain at least one requested product")
	}
	seen := make(map[int]bool, len(req.Lines))
	for _, line := range req.Lines {
		if line.ProductID <= 0 {
			return nil, domain.NewValidationError("invalid product id: %d", line.ProductID)
		}
		if line.Quantity < 1 {
			return nil, domain.NewValidationError("quantity for product %d must be at least 1", line.ProductID)
		}
		if seen[line.ProductID] {
			return nil, domain.NewValidationError("duplicate product %d in order request", line.ProductID)
		}
		seen[line.ProductID] = true
	}

	proofRef := ""
	if req.ProofOfPayment != nil {
		proofRef, err = uc.artifacts.Store(ctx, req.ProofOfPayment.Filename, req.ProofOfPayment.Data)
		if err != nil {
			uc.log.Errorf("Use Case: Failed to store payment proof for user %d: %v", req.UserID, err)
			return nil, err
		}
	} else if uc.requireProof {
		uc.log.Warnf("Use Case: Create order rejected for user %d, proof of payment missing", req.UserID)
		return nil, domain.NewValidationError("proof of payment is required")
	}

	productIDs := make([]int, 0, len(req.Lines))
	for _, line := range req.Lines {
		productIDs = append(productIDs, line.ProductID)
	}

	uc.log.Infof("Use Case: Creating order for user %d with %d lines", req.UserID, len(req.Lines))

	var created *domain.Order
	err = uc.store.WithinTx(ctx, func(tx domain.OrderTx) error {
		// Every requested product must sit in the caller's cart.
		cartEntries, err := tx.CartEntriesByUserAndProducts(req.UserID, productIDs)
		if err != nil {
			return err
		}
		inCart := make(map[int]bool, len(cartEntries))
		for _, entry := range cartEntries {
			inCart[entry.ProductID] = true
		}
		missingFromCart := []int{}
		for _, id := range productIDs {
			if !inCart[id] {
				missingFromCart = append(missingFromCart, id)
			}
		}
		if len(missingFromCart) > 0 {
			uc.log.Warnf("Use Case: Create order rejected for user %d, products %v not in cart", req.UserID, missingFromCart)
			return &domain.NotFoundError{Resource: "cart entry", IDs: missingFromCart}
		}

		// Lock the product rows so the stock check and the decrement below
		// act on one consistent snapshot.
		products, err := tx.ProductsForUpdate(productIDs)
		if err != nil {
			return err
		}
		byID := make(map[int]domain.Product, len(products))
		for _, product := range products {
			byID[product.ID] = product
		}
		missing := []int{}
		for _, id := range productIDs {
			if _, ok := byID[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			uc.log.Warnf("Use Case: Create order rejected for user %d, products %v not found", req.UserID, missing)
			return &domain.NotFoundError{Resource: "product", IDs: missing}
		}

		// All-or-nothing stock validation: collect every shortage before
		// rejecting, and reject before any mutation.
		shortages := []domain.StockShortage{}
		for _, line := range req.Lines {
			product := byID[line.ProductID]
			if product.Stock < line.Quantity {
				shortages = append(shortages, domain.StockShortage{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   product.Stock,
				})
			}
		}
		if len(shortages) > 0 {
			uc.log.Warnf("Use Case: Create order rejected for user %d, %d lines short on stock", req.UserID, len(shortages))
			return &domain.InsufficientStockError{Shortages: shortages}
		}

		// Freeze prices and the derived total; neither is recomputed later.
		total := 0.0
		lines := make([]domain.OrderLine, 0, len(req.Lines))
		for _, line := range req.Lines {
			product := byID[line.ProductID]
			total += product.Price * float64(line.Quantity)
			lines = append(lines, domain.OrderLine{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Price:       product.Price,
			})
		}

		order := &domain.Order{
			UserID:         user.ID,
			Status:         domain.StatusPending,
			TotalPrice:     total,
			ProofOfPayment: proofRef,
			Lines:          lines,
			User: &domain.UserSummary{
				ID:      user.ID,
				Name:    user.Name,
				Email:   user.Email,
				Address: user.Address,
			},
		}
		if _, err = tx.InsertOrder(order); err != nil {
			return err
		}

		for _, line := range order.Lines {
			if err = tx.DecrementStock(line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Order %d created for user %d (total %.2f)", created.ID, created.UserID, created.TotalPrice)
	return created, nil
}

func (uc *orderUseCase) AcceptOrder(ctx context.Context, orderID int, callerRole domain.Role) (*domain.Order, error) {
	if err := domain.RequireRole(domain.AdminOnly, callerRole); err != nil {
		uc.log.Warnf("Use Case: Accept order %d rejected for role %s", orderID, callerRole)
		return nil, err
	}

	var accepted *domain.Order
	err := uc.store.WithinTx(ctx, func(tx domain.OrderTx) error {
		order, err := tx.GetOrderForUpdate(orderID)
		if err != nil {
			return err
		}
		if err := domain.CheckTransition(order.Status, domain.StatusDone); err != nil {
			uc.log.Warnf("Use Case: Accept rejected for order %d in status %s", orderID, order.Status)
			return err
		}

		// Stock was already reserved at creation time; accepting only
		// finalizes the sale.
		if err := tx.UpdateOrderStatus(orderID, domain.StatusDone); err != nil {
			return err
		}
		order.Status = domain.StatusDone

		if err := tx.DeleteCartEntriesByUserAndProducts(order.UserID, orderProductIDs(order)); err != nil {
			return err
		}
		if err := tx.InsertHistoryEntry(historySnapshot(order)); err != nil {
			return err
		}

		accepted = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Order %d accepted", orderID)
	return accepted, nil
}

func (uc *orderUseCase) CancelOrder(ctx context.Context, orderID, callerUserID int, callerRole domain.Role) (*domain.Order, error) {
	if err := domain.RequireRole(domain.AnyRole, callerRole); err != nil {
		return nil, err
	}

	var cancelled *domain.Order
	err := uc.store.WithinTx(ctx, func(tx domain.OrderTx) error {
		order, err := tx.GetOrderForUpdate(orderID)
		if err != nil {
			return err
		}
		if callerRole != domain.RoleAdmin && order.UserID != callerUserID {
			uc.log.Warnf("Use Case: User %d attempted to cancel order %d owned by user %d", callerUserID, orderID, order.UserID)
			return domain.ErrUnauthorized
		}
		if err := domain.CheckTransition(order.Status, domain.StatusCancelled); err != nil {
			uc.log.Warnf("Use Case: Cancel rejected for order %d in status %s", orderID, order.Status)
			return err
		}

		if err := tx.UpdateOrderStatus(orderID, domain.StatusCancelled); err != nil {
			return err
		}
		order.Status = domain.StatusCancelled

		// Compensate the creation-time reservation: release exactly the
		// quantities frozen in the order lines, not any live delta.
		for _, line := range order.Lines {
			if err := tx.IncrementStock(line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		if err := tx.DeleteCartEntriesByUserAndProducts(order.UserID, orderProductIDs(order)); err != nil {
			return err
		}
		if err := tx.InsertHistoryEntry(historySnapshot(order)); err != nil {
			return err
		}

		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Order %d cancelled, reserved stock released", orderID)
	return cancelled, nil
}

func (uc *orderUseCase) GetOrder(orderID, callerUserID int, callerRole domain.Role) (*domain.Order, error) {
	if err := domain.RequireRole(domain.AnyRole, callerRole); err != nil {
		return nil, err
	}

	order, err := uc.orderRepo.GetOrderByID(orderID)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to get order %d: %v", orderID, err)
		return nil, err
	}
	if callerRole != domain.RoleAdmin && order.UserID != callerUserID {
		uc.log.Warnf("Use Case: User %d attempted to view order %d owned by user %d", callerUserID, orderID, order.UserID)
		return nil, domain.ErrUnauthorized
	}
	return order, nil
}

func (uc *orderUseCase) ListOrdersForUser(userID int, filter domain.StatusFilter, callerRole domain.Role) ([]domain.Order, error) {
	if err := domain.RequireRole(domain.AnyRole, callerRole); err != nil {
		return nil, err
	}
	if _, err := uc.userRepo.GetUserByID(userID); err != nil {
		return nil, err
	}

	orders, err := uc.orderRepo.ListOrdersByUser(userID, filter)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list orders for user %d: %v", userID, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Retrieved %d orders for user %d (filter %s)", len(orders), userID, filter)
	return orders, nil
}

func (uc *orderUseCase) ListAllOrders(filter domain.StatusFilter, callerRole domain.Role) ([]domain.Order, error) {
	if err := domain.RequireRole(domain.AdminOnly, callerRole); err != nil {
		return nil, err
	}

	orders, err := uc.orderRepo.ListAllOrders(filter)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list all orders: %v", err)
		return nil, err
	}
	uc.log.Infof("Use Case: Retrieved %d orders (filter %s)", len(orders), filter)
	return orders, nil
}

func orderProductIDs(order *domain.Order) []int {
	ids := make([]int, 0, len(order.Lines))
	for _, line := range order.Lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

// historySnapshot denormalizes the order into an audit entry carrying buyer
// and product names, so the record survives later deletes and edits.
func historySnapshot(order *domain.Order) *domain.OrderHistoryEntry {
	entry := &domain.OrderHistoryEntry{
		OrderID:    order.ID,
		Status:     order.Status,
		OrderDate:  order.OrderDate,
		TotalPrice: order.TotalPrice,
		UserID:     order.UserID,
	}
	if order.User != nil {
		entry.UserName = order.User.Name
		entry.UserEmail = order.User.Email
		entry.UserAddress = order.User.Address
	}
	for _, line := range order.Lines {
		entry.Lines = append(entry.Lines, domain.OrderHistoryLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Price:       line.Price,
		})
	}
	return entry
}
