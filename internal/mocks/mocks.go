package mocks

import (
	"context"

	"shop-service/internal/domain"
	"shop-service/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

type MockProductRepository struct {
	mock.Mock
}

type MockCartRepository struct {
	mock.Mock
}

type MockOrderRepository struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockProductCache struct {
	mock.Mock
}

// MockStore hands out the mock repositories. WithTx runs fn against the same
// store; TxCalls counts how many transactions were opened.
type MockStore struct {
	UserRepo    *MockUserRepository
	ProductRepo *MockProductRepository
	CartRepo    *MockCartRepository
	OrderRepo   *MockOrderRepository
	TxCalls     int
	PingErr     error
}

func NewMockStore() *MockStore {
	return &MockStore{
		UserRepo:    new(MockUserRepository),
		ProductRepo: new(MockProductRepository),
		CartRepo:    new(MockCartRepository),
		OrderRepo:   new(MockOrderRepository),
	}
}

func (m *MockStore) Users() repository.UserRepository       { return m.UserRepo }
func (m *MockStore) Products() repository.ProductRepository { return m.ProductRepo }
func (m *MockStore) Carts() repository.CartRepository       { return m.CartRepo }
func (m *MockStore) Orders() repository.OrderRepository     { return m.OrderRepo }

func (m *MockStore) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	m.TxCalls++
	return fn(m)
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockStore) AssertExpectations(t mock.TestingT) {
	m.UserRepo.AssertExpectations(t)
	m.ProductRepo.AssertExpectations(t)
	m.CartRepo.AssertExpectations(t)
	m.OrderRepo.AssertExpectations(t)
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

// GetOrLoad returns the configured listing on a hit. Returning nil from the
// expectation simulates a miss and calls load.
func (m *MockProductCache) GetOrLoad(ctx context.Context, load func(context.Context) ([]domain.Product, error)) ([]domain.Product, error) {
	args := m.Called(ctx)
	if cached, ok := args.Get(0).([]domain.Product); ok {
		return cached, nil
	}
	return load(ctx)
}

func (m *MockProductCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uint64, by int) error {
	args := m.Called(ctx, id, by)
	return args.Error(0)
}

func (m *MockCartRepository) FindByUserID(ctx context.Context, userID uint64) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByUserIDForUpdate(ctx context.Context, userID uint64) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartRepository) GetOrCreate(ctx context.Context, userID uint64) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartRepository) AddItem(ctx context.Context, item *domain.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) HasProduct(ctx context.Context, cartID, productID uint64) (bool, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) ClearItems(ctx context.Context, cartID uint64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteItemsByProduct(ctx context.Context, productID uint64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserID(ctx context.Context, userID uint64) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}
