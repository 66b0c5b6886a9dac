package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"storefront_service/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// memoryState is the mutable world a fake transaction operates on. WithinTx
// hands the transaction a deep copy and commits it back only on success, so
// a failed operation leaves the observable state untouched.
type memoryState struct {
	products    map[int]domain.Product
	orders      map[int]*domain.Order
	carts       []domain.CartEntry
	history     []domain.OrderHistoryEntry
	nextOrderID int
}

func (s *memoryState) clone() *memoryState {
	cp := &memoryState{
		products:    make(map[int]domain.Product, len(s.products)),
		orders:      make(map[int]*domain.Order, len(s.orders)),
		carts:       append([]domain.CartEntry(nil), s.carts...),
		history:     append([]domain.OrderHistoryEntry(nil), s.history...),
		nextOrderID: s.nextOrderID,
	}
	for id, product := range s.products {
		cp.products[id] = product
	}
	for id, order := range s.orders {
		cp.orders[id] = copyOrder(order)
	}
	return cp
}

func copyOrder(order *domain.Order) *domain.Order {
	cp := *order
	cp.Lines = append([]domain.OrderLine(nil), order.Lines...)
	if order.User != nil {
		user := *order.User
		cp.User = &user
	}
	return &cp
}

type fakeOrderStore struct {
	mu    sync.Mutex
	state *memoryState
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		state: &memoryState{
			products:    map[int]domain.Product{},
			orders:      map[int]*domain.Order{},
			nextOrderID: 1,
		},
	}
}

func (s *fakeOrderStore) WithinTx(_ context.Context, fn func(tx domain.OrderTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(&fakeOrderTx{state: working}); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (s *fakeOrderStore) snapshot() *memoryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

type fakeOrderTx struct {
	state *memoryState
}

func (t *fakeOrderTx) ProductsForUpdate(ids []int) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := t.state.products[id]; ok {
			products = append(products, product)
		}
	}
	return products, nil
}

func (t *fakeOrderTx) DecrementStock(productID, quantity int) error {
	product, ok := t.state.products[productID]
	if !ok {
		return fmt.Errorf("stock decrement affected no rows for product %d", productID)
	}
	if product.Stock < quantity {
		return fmt.Errorf("stock decrement affected no rows for product %d", productID)
	}
	product.Stock -= quantity
	t.state.products[productID] = product
	return nil
}

func (t *fakeOrderTx) IncrementStock(productID, quantity int) error {
	product, ok := t.state.products[productID]
	if !ok {
		return nil
	}
	product.Stock += quantity
	t.state.products[productID] = product
	return nil
}

func (t *fakeOrderTx) InsertOrder(order *domain.Order) (*domain.Order, error) {
	order.ID = t.state.nextOrderID
	t.state.nextOrderID++
	t.state.orders[order.ID] = copyOrder(order)
	return order, nil
}

func (t *fakeOrderTx) GetOrderForUpdate(id int) (*domain.Order, error) {
	order, ok := t.state.orders[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "order", IDs: []int{id}}
	}
	return copyOrder(order), nil
}

func (t *fakeOrderTx) UpdateOrderStatus(id int, status domain.OrderStatus) error {
	order, ok := t.state.orders[id]
	if !ok {
		return &domain.NotFoundError{Resource: "order", IDs: []int{id}}
	}
	order.Status = status
	return nil
}

func (t *fakeOrderTx) CartEntriesByUserAndProducts(userID int, productIDs []int) ([]domain.CartEntry, error) {
	wanted := make(map[int]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	entries := []domain.CartEntry{}
	for _, entry := range t.state.carts {
		if entry.UserID == userID && wanted[entry.ProductID] {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (t *fakeOrderTx) DeleteCartEntriesByUserAndProducts(userID int, productIDs []int) error {
	wanted := make(map[int]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	kept := t.state.carts[:0]
	for _, entry := range t.state.carts {
		if entry.UserID == userID && wanted[entry.ProductID] {
			continue
		}
		kept = append(kept, entry)
	}
	t.state.carts = kept
	return nil
}

func (t *fakeOrderTx) InsertHistoryEntry(entry *domain.OrderHistoryEntry) error {
	entry.ID = len(t.state.history) + 1
	t.state.history = append(t.state.history, *entry)
	return nil
}

// fakeOrderRepo reads projections straight out of the fake store.
type fakeOrderRepo struct {
	store *fakeOrderStore
}

func (r *fakeOrderRepo) GetOrderByID(id int) (*domain.Order, error) {
	state := r.store.snapshot()
	order, ok := state.orders[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "order", IDs: []int{id}}
	}
	return order, nil
}

func (r *fakeOrderRepo) ListOrdersByUser(userID int, filter domain.StatusFilter) ([]domain.Order, error) {
	state := r.store.snapshot()
	orders := []domain.Order{}
	for id := state.nextOrderID - 1; id >= 1; id-- {
		order, ok := state.orders[id]
		if ok && order.UserID == userID && filter.Matches(order.Status) {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (r *fakeOrderRepo) ListAllOrders(filter domain.StatusFilter) ([]domain.Order, error) {
	state := r.store.snapshot()
	orders := []domain.Order{}
	for id := state.nextOrderID - 1; id >= 1; id-- {
		order, ok := state.orders[id]
		if ok && filter.Matches(order.Status) {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

type fakeUserRepo struct {
	users map[int]*domain.User
}

func (r *fakeUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	if user.ID == 0 {
		user.ID = len(r.users) + 1
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) GetUserByID(id int) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "user", IDs: []int{id}}
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "user"}
}

func (r *fakeUserRepo) GetUserByToken(token string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Token != "" && user.Token == token {
			return user, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "session"}
}

func (r *fakeUserRepo) ListUsers(string) ([]domain.User, error) {
	users := []domain.User{}
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

func (r *fakeUserRepo) UpdateUser(user *domain.User) (*domain.User, error) {
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) SetToken(id int, token string) error {
	user, ok := r.users[id]
	if !ok {
		return &domain.NotFoundError{Resource: "user", IDs: []int{id}}
	}
	user.Token = token
	return nil
}

func (r *fakeUserRepo) ClearToken(id int) error {
	user, ok := r.users[id]
	if !ok {
		return &domain.NotFoundError{Resource: "user", IDs: []int{id}}
	}
	user.Token = ""
	return nil
}

func (r *fakeUserRepo) DeleteUser(id int) error {
	delete(r.users, id)
	return nil
}

type fakeArtifactStore struct {
	stored []string
}

func (s *fakeArtifactStore) Store(_ context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.NewValidationError("payment proof is empty")
	}
	ref := "artifacts/" + filename
	s.stored = append(s.stored, ref)
	return ref, nil
}

type orderFixture struct {
	store     *fakeOrderStore
	artifacts *fakeArtifactStore
	useCase   domain.OrderUseCase
}

func proof() *domain.PaymentArtifact {
	return &domain.PaymentArtifact{Filename: "receipt.png", Data: []byte("png")}
}

// newOrderFixture seeds two customers, two products and matching cart entries.
func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	store := newFakeOrderStore()
	store.state.products[1] = domain.Product{ID: 1, Name: "Keyboard", Price: 25.5, Stock: 5}
	store.state.products[2] = domain.Product{ID: 2, Name: "Monitor", Price: 120, Stock: 2}
	store.state.carts = []domain.CartEntry{
		{ID: 1, UserID: 10, ProductID: 1, Quantity: 3},
		{ID: 2, UserID: 10, ProductID: 2, Quantity: 1},
		{ID: 3, UserID: 11, ProductID: 1, Quantity: 1},
	}

	users := &fakeUserRepo{users: map[int]*domain.User{
		10: {ID: 10, Name: "Alice", Email: "alice@example.com", Address: "Main St 1", Role: domain.RoleCustomer},
		11: {ID: 11, Name: "Bob", Email: "bob@example.com", Address: "Main St 2", Role: domain.RoleCustomer},
	}}
	artifacts := &fakeArtifactStore{}

	return &orderFixture{
		store:     store,
		artifacts: artifacts,
		useCase:   NewOrderUseCase(store, &fakeOrderRepo{store: store}, users, artifacts, true, testLogger()),
	}
}

func (f *orderFixture) createOrder(t *testing.T, userID int, lines ...domain.RequestedLine) *domain.Order {
	t.Helper()
	order, err := f.useCase.CreateOrder(context.Background(), domain.CreateOrderRequest{
		UserID:         userID,
		Lines:          lines,
		ProofOfPayment: proof(),
		CallerRole:     domain.RoleCustomer,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder_ReservesStockAndFreezesPrices(t *testing.T) {
	f := newOrderFixture(t)

	order := f.createOrder(t, 10,
		domain.RequestedLine{ProductID: 1, Quantity: 3},
		domain.RequestedLine{ProductID: 2, Quantity: 1},
	)

	assert.Equal(t, domain.StatusPending, order.Status)
	assert.InDelta(t, 3*25.5+120, order.TotalPrice, 1e-9)
	assert.Equal(t, "artifacts/receipt.png", order.ProofOfPayment)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, "Keyboard", order.Lines[0].ProductName)
	assert.InDelta(t, 25.5, order.Lines[0].Price, 1e-9)

	state := f.store.snapshot()
	assert.Equal(t, 2, state.products[1].Stock)
	assert.Equal(t, 1, state.products[2].Stock)
	// Cart entries survive until a terminal transition.
	assert.Len(t, state.carts, 3)
}

func TestCreateOrder_AllOrNothingOnShortage(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.useCase.CreateOrder(context.Background(), domain.CreateOrderRequest{
		UserID: 10,
		Lines: []domain.RequestedLine{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 3},
		},
		ProofOfPayment: proof(),
		CallerRole:     domain.RoleCustomer,
	})
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	require.Len(t, insufficient.Shortages, 1)
	assert.Equal(t, 2, insufficient.Shortages[0].ProductID)
	assert.Equal(t, "Monitor", insufficient.Shortages[0].ProductName)
	assert.Equal(t, 3, insufficient.Shortages[0].Requested)
	assert.Equal(t, 2, insufficient.Shortages[0].Available)

	// Even the satisfiable line must leave stock untouched.
	state := f.store.snapshot()
	assert.Equal(t, 5, state.products[1].Stock)
	assert.Equal(t, 2, state.products[2].Stock)
	assert.Empty(t, state.orders)
}

func TestCreateOrder_EnumeratesAllShortages(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.useCase.CreateOrder(context.Background(), domain.CreateOrderRequest{
		UserID: 10,
		Lines: []domain.RequestedLine{
			{ProductID: 1, Quantity: 6},
			{ProductID: 2, Quantity: 3},
		},
		ProofOfPayment: proof(),
		CallerRole:     domain.RoleCustomer,
	})

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Len(t, insufficient.Shortages, 2)
}

func TestCreateOrder_RejectsProductsMissingFromCart(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.useCase.CreateOrder(context.Background(), domain.CreateOrderRequest{
		UserID: 11,
		Lines: []domain.RequestedLine{
			{ProductID: 1, Quantity: 1},
			{ProductID: 2, Quantity: 1},
		},
		ProofOfPayment: proof(),
		CallerRole:     domain.RoleCustomer,
	})
	require.Error(t, err)

	var notFound *domain.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "cart entry", notFound.Resource)
	assert.Equal(t, []int{2}, notFound.IDs)
}

func TestCreateOrder_ValidatesRequest(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   domain.CreateOrderRequest
		match string
	}{
		{
			name:  "no lines",
			req:   domain.CreateOrderRequest{UserID: 10, ProofOfPayment: proof(), CallerRole: domain.RoleCustomer},
			match: "at least one",
		},
		{
			name: "zero quantity",
			req: domain.CreateOrderRequest{
				UserID:         10,
				Lines:          []domain.RequestedLine{{ProductID: 1, Quantity: 0}},
				ProofOfPayment: proof(),
				CallerRole:     domain.RoleCustomer,
			},
			match: "at least 1",
		},
		{
			name: "duplicate product",
			req: domain.CreateOrderRequest{
				UserID: 10,
				Lines: []domain.RequestedLine{
					{ProductID: 1, Quantity: 1},
					{ProductID: 1, Quantity: 2},
				},
				ProofOfPayment: proof(),
				CallerRole:     domain.RoleCustomer,
			},
			match: "duplicate",
		},
		{
			name: "missing proof",
			req: domain.CreateOrderRequest{
				UserID:     10,
				Lines:      []domain.RequestedLine{{ProductID: 1, Quantity: 1}},
				CallerRole: domain.RoleCustomer,
			},
			match: "proof of payment",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.useCase.CreateOrder(ctx, tc.req)
			require.Error(t, err)
			var validation *domain.ValidationError
			require.True(t, errors.As(err, &validation))
			assert.Contains(t, err.Error(), tc.match)
		})
	}

	state := f.store.snapshot()
	assert.Empty(t, state.orders)
	assert.Equal(t, 5, state.products[1].Stock)
}

func TestCreateOrder_ProofOptionalWhenNotRequired(t *testing.T) {
	f := newOrderFixture(t)
	relaxed := NewOrderUseCase(f.store, &fakeOrderRepo{store: f.store},
		&fakeUserRepo{users: map[int]*domain.User{10: {ID: 10, Name: "Alice", Role: domain.RoleCustomer}}},
		f.artifacts, false, testLogger())

	order, err := relaxed.CreateOrder(context.Background(), domain.CreateOrderRequest{
		UserID:     10,
		Lines:      []domain.RequestedLine{{ProductID: 1, Quantity: 1}},
		CallerRole: domain.RoleCustomer,
	})
	require.NoError(t, err)
	assert.Empty(t, order.ProofOfPayment)
	assert.Empty(t, f.artifacts.stored)
}

func TestCreateOrder_UnknownUser(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.useCase.CreateOrder(context.Background(), domain.CreateOrderRequest{
		UserID:         99,
		Lines:          []domain.RequestedLine{{ProductID: 1, Quantity: 1}},
		ProofOfPayment: proof(),
		CallerRole:     domain.RoleCustomer,
	})

	var notFound *domain.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "user", notFound.Resource)
}

func TestCreateOrder_ConcurrentRequestsOnLastUnit(t *testing.T) {
	f := newOrderFixture(t)
	f.store.state.products[3] = domain.Product{ID: 3, Name: "Dock", Price: 80, Stock: 1}
	f.store.state.carts = append(f.store.state.carts,
		domain.CartEntry{ID: 4, UserID: 10, ProductID: 3, Quantity: 1},
		domain.CartEntry{ID: 5, UserID: 11, ProductID: 3, Quantity: 1},
	)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, userID := range []int{10, 11} {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			_, err := f.useCase.CreateOrder(context.Background(), domain.CreateOrderRequest{
				UserID:         userID,
				Lines:          []domain.RequestedLine{{ProductID: 3, Quantity: 1}},
				ProofOfPayment: proof(),
				CallerRole:     domain.RoleCustomer,
			})
			results <- err
		}(userID)
	}
	wg.Wait()
	close(results)

	successes, failures := 0, 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		failures++
		var insufficient *domain.InsufficientStockError
		assert.True(t, errors.As(err, &insufficient))
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)
	state := f.store.snapshot()
	assert.Equal(t, 0, state.products[3].Stock)
	assert.Len(t, state.orders, 1)
}

func TestAcceptOrder_FinalizesWithoutTouchingStock(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, 10, domain.RequestedLine{ProductID: 1, Quantity: 3})

	accepted, err := f.useCase.AcceptOrder(context.Background(), order.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, accepted.Status)

	state := f.store.snapshot()
	// Stock was reserved at creation; accepting must not decrement again.
	assert.Equal(t, 2, state.products[1].Stock)
	assert.Equal(t, domain.StatusDone, state.orders[order.ID].Status)

	require.Len(t, state.history, 1)
	assert.Equal(t, order.ID, state.history[0].OrderID)
	assert.Equal(t, domain.StatusDone, state.history[0].Status)
	assert.Equal(t, "Alice", state.history[0].UserName)
	require.Len(t, state.history[0].Lines, 1)
	assert.Equal(t, "Keyboard", state.history[0].Lines[0].ProductName)

	// Ordered products leave the cart; unrelated entries stay.
	for _, entry := range state.carts {
		assert.False(t, entry.UserID == 10 && entry.ProductID == 1)
	}
	assert.Len(t, state.carts, 2)
}

func TestAcceptOrder_RequiresAdmin(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, 10, domain.RequestedLine{ProductID: 1, Quantity: 1})

	_, err := f.useCase.AcceptOrder(context.Background(), order.ID, domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCancelOrder_RestoresReservedStock(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, 10, domain.RequestedLine{ProductID: 1, Quantity: 3})

	state := f.store.snapshot()
	require.Equal(t, 2, state.products[1].Stock)

	cancelled, err := f.useCase.CancelOrder(context.Background(), order.ID, 10, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	state = f.store.snapshot()
	assert.Equal(t, 5, state.products[1].Stock)
	require.Len(t, state.history, 1)
	assert.Equal(t, domain.StatusCancelled, state.history[0].Status)
}

func TestCancelOrder_ReleasesFrozenQuantityNotLiveDelta(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, 10, domain.RequestedLine{ProductID: 1, Quantity: 3})

	// Restock happening between creation and cancellation must not change
	// what the cancellation releases.
	f.store.mu.Lock()
	product := f.store.state.products[1]
	product.Stock = 10
	f.store.state.products[1] = product
	f.store.mu.Unlock()

	_, err := f.useCase.CancelOrder(context.Background(), order.ID, 10, domain.RoleCustomer)
	require.NoError(t, err)

	state := f.store.snapshot()
	assert.Equal(t, 13, state.products[1].Stock)
}

func TestCancelOrder_SecondAttemptIsRejectedWithoutDoubleRelease(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, 10, domain.RequestedLine{ProductID: 1, Quantity: 3})

	_, err := f.useCase.CancelOrder(context.Background(), order.ID, 10, domain.RoleCustomer)
	require.NoError(t, err)

	_, err = f.useCase.CancelOrder(context.Background(), order.ID, 10, domain.RoleCustomer)
	require.Error(t, err)
	var transition *domain.InvalidTransitionError
	require.True(t, errors.As(err, &transition))
	assert.Contains(t, err.Error(), "already cancelled")

	state := f.store.snapshot()
	assert.Equal(t, 5, state.products[1].Stock)
	assert.Len(t, state.history, 1)
}

func TestCancelOrder_AfterAcceptIsRejected(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, 10, domain.RequestedLine{ProductID: 1, Quantity: 3})

	_, err := f.useCase.AcceptOrder(context.Background(), order.ID, domain.RoleAdmin)
	require.NoError(t, err)

	_, err = f.useCase.CancelOrder(context.Background(), order.ID, 10, domain.RoleCustomer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already done")

	// The sold stock stays sold.
	state := f.store.snapshot()
	assert.Equal(t, 2, state.products[1].Stock)
}

func TestAcceptOrder_AfterCancelIsRejected(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, 10, domain.RequestedLine{ProductID: 1, Quantity: 1})

	_, err := f.useCase.CancelOrder(context.Background(), order.ID, 10, domain.RoleCustomer)
	require.NoError(t, err)

	_, err = f.useCase.AcceptOrder(context.Background(), order.ID, domain.RoleAdmin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already cancelled")
}

func TestCancelOrder_OwnershipEnforced(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, 10, domain.RequestedLine{ProductID: 1, Quantity: 1})

	_, err := f.useCase.CancelOrder(context.Background(), order.ID, 11, domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// An admin may cancel any pending order.
	cancelled, err := f.useCase.CancelOrder(context.Background(), order.ID, 99, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
}

func TestGetOrder_TotalStaysFrozenAfterPriceChange(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, 10, domain.RequestedLine{ProductID: 1, Quantity: 2})
	require.InDelta(t, 51.0, order.TotalPrice, 1e-9)

	f.store.mu.Lock()
	product := f.store.state.products[1]
	product.Price = 999
	f.store.state.products[1] = product
	f.store.mu.Unlock()

	fetched, err := f.useCase.GetOrder(order.ID, 10, domain.RoleCustomer)
	require.NoError(t, err)
	assert.InDelta(t, 51.0, fetched.TotalPrice, 1e-9)
	assert.InDelta(t, 25.5, fetched.Lines[0].Price, 1e-9)
}

func TestGetOrder_OwnershipEnforced(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t, 10, domain.RequestedLine{ProductID: 1, Quantity: 1})

	_, err := f.useCase.GetOrder(order.ID, 11, domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	fetched, err := f.useCase.GetOrder(order.ID, 99, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
}

func TestListOrders_FiltersAndOrdering(t *testing.T) {
	f := newOrderFixture(t)
	first := f.createOrder(t, 10, domain.RequestedLine{ProductID: 1, Quantity: 1})
	second := f.createOrder(t, 10, domain.RequestedLine{ProductID: 2, Quantity: 1})

	_, err := f.useCase.AcceptOrder(context.Background(), first.ID, domain.RoleAdmin)
	require.NoError(t, err)

	all, err := f.useCase.ListOrdersForUser(10, domain.FilterAll, domain.RoleCustomer)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first.
	assert.Equal(t, second.ID, all[0].ID)

	pending, err := f.useCase.ListOrdersForUser(10, domain.FilterPending, domain.RoleCustomer)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	// "done" covers every order no longer pending.
	done, err := f.useCase.ListOrdersForUser(10, domain.FilterDone, domain.RoleCustomer)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, first.ID, done[0].ID)

	_, err = f.useCase.ListAllOrders(domain.FilterAll, domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	adminView, err := f.useCase.ListAllOrders(domain.FilterAccepted, domain.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, adminView, 1)
	assert.Equal(t, first.ID, adminView[0].ID)
}
