package usecase

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mock: BookRepository
// =====================

type BookRepoMock struct{ mock.Mock }

func (m *BookRepoMock) ListAll(ctx context.Context) ([]model.Book, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]model.Book)
	return b, args.Error(1)
}

func (m *BookRepoMock) List(ctx context.Context, q repo.BookListQuery) ([]model.Book, int64, error) {
	args := m.Called(ctx, q)
	b, _ := args.Get(0).([]model.Book)
	return b, args.Get(1).(int64), args.Error(2)
}

func (m *BookRepoMock) FindByID(ctx context.Context, id int64) (model.Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *BookRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *BookRepoMock) FindByName(ctx context.Context, name string) (model.Book, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *BookRepoMock) Create(ctx context.Context, b model.Book) (model.Book, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *BookRepoMock) Update(ctx context.Context, b model.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *BookRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// =====================
// Mock: InventoryRepository
// =====================

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseIfEnough(ctx context.Context, bookID int64, qty int64) (bool, error) {
	args := m.Called(ctx, bookID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) Increase(ctx context.Context, bookID int64, qty int64) error {
	return m.Called(ctx, bookID, qty).Error(0)
}

func (m *InventoryRepoMock) SetQuantity(ctx context.Context, bookID int64, qty int64) error {
	return m.Called(ctx, bookID, qty).Error(0)
}

func (m *InventoryRepoMock) RecordMovement(ctx context.Context, mv model.StockMovement) error {
	return m.Called(ctx, mv).Error(0)
}

func (m *InventoryRepoMock) ListMovements(ctx context.Context, bookID int64) ([]model.StockMovement, error) {
	args := m.Called(ctx, bookID)
	l, _ := args.Get(0).([]model.StockMovement)
	return l, args.Error(1)
}

// =====================
// Mock: CartRepository
// =====================

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) Create(ctx context.Context, c model.Cart) (model.Cart, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *CartRepoMock) FindByIDAndUser(ctx context.Context, id int64, userID int64) (model.Cart, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *CartRepoMock) ExistsUnordered(ctx context.Context, userID int64, bookID int64) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *CartRepoMock) UpdateQuantity(ctx context.Context, id int64, userID int64, qty int64) error {
	return m.Called(ctx, id, userID, qty).Error(0)
}

func (m *CartRepoMock) Delete(ctx context.Context, id int64, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *CartRepoMock) ListLines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	l, _ := args.Get(0).([]model.CartLine)
	return l, args.Error(1)
}

// =====================
// Mock: AddressRepository
// =====================

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, a model.Address) (model.Address, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(model.Address), args.Error(1)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	l, _ := args.Get(0).([]model.Address)
	return l, args.Error(1)
}

func (m *AddressRepoMock) FindByIDAndUser(ctx context.Context, addressID int64, userID int64) (model.Address, error) {
	args := m.Called(ctx, addressID, userID)
	return args.Get(0).(model.Address), args.Error(1)
}

func (m *AddressRepoMock) Update(ctx context.Context, a model.Address) error {
	return m.Called(ctx, a).Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID int64, userID int64) error {
	return m.Called(ctx, addressID, userID).Error(0)
}

// =====================
// Mock: OrderRepository
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, o model.Order) (model.Order, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *OrderRepoMock) FindByCartID(ctx context.Context, cartID int64) (model.Order, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *OrderRepoMock) FindByCodeAndUser(ctx context.Context, code string, userID int64) (model.Order, error) {
	args := m.Called(ctx, code, userID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *OrderRepoMock) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	l, _ := args.Get(0).([]model.Order)
	return l, args.Error(1)
}

func (m *OrderRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// =====================
// Mock: UserRepository
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

// =====================
// Mock: Rating / Feedback
// =====================

type RatingRepoMock struct{ mock.Mock }

func (m *RatingRepoMock) Create(ctx context.Context, r model.Rating) error {
	return m.Called(ctx, r).Error(0)
}

func (m *RatingRepoMock) Exists(ctx context.Context, orderID int64, userID int64, bookID int64) (bool, error) {
	args := m.Called(ctx, orderID, userID, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *RatingRepoMock) AverageByBookID(ctx context.Context, bookID int64) (float64, int64, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

type FeedbackRepoMock struct{ mock.Mock }

func (m *FeedbackRepoMock) Create(ctx context.Context, f model.Feedback) error {
	return m.Called(ctx, f).Error(0)
}

func (m *FeedbackRepoMock) ExistsByUserID(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// =====================
// Fake: TransactionManager
// =====================

// モックのrepoをそのまま渡す（commit/rollbackはしない）
type fakeTx struct {
	books     *BookRepoMock
	inventory *InventoryRepoMock
	carts     *CartRepoMock
	addresses *AddressRepoMock
	orders    *OrderRepoMock
}

func (f *fakeTx) Books() repo.BookRepository          { return f.books }
func (f *fakeTx) Inventory() repo.InventoryRepository { return f.inventory }
func (f *fakeTx) Carts() repo.CartRepository          { return f.carts }
func (f *fakeTx) Addresses() repo.AddressRepository   { return f.addresses }
func (f *fakeTx) Orders() repo.OrderRepository        { return f.orders }

func (f *fakeTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(f)
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		books:     &BookRepoMock{},
		inventory: &InventoryRepoMock{},
		carts:     &CartRepoMock{},
		addresses: &AddressRepoMock{},
		orders:    &OrderRepoMock{},
	}
}

// =====================
// Fake: Cache
// =====================

// JSONで保存するのでredisと同じく値はコピーになる
type memCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{items: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = b
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// =====================
// Mock: collaborators
// =====================

type SchedulerMock struct{ mock.Mock }

func (m *SchedulerMock) Schedule(ctx context.Context, n Notification) error {
	return m.Called(ctx, n).Error(0)
}

type EventsMock struct{ mock.Mock }

func (m *EventsMock) PublishOrderEvent(ctx context.Context, e OrderEvent) error {
	return m.Called(ctx, e).Error(0)
}

type ImageStoreMock struct{ mock.Mock }

func (m *ImageStoreMock) Save(ctx context.Context, filename string, body io.Reader) (string, error) {
	args := m.Called(ctx, filename, body)
	return args.String(0), args.Error(1)
}

func (m *ImageStoreMock) Delete(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

type countingMetrics struct {
	mu                        sync.Mutex
	placed, cancelled, reject int
}

func (c *countingMetrics) OrderPlaced()    { c.mu.Lock(); c.placed++; c.mu.Unlock() }
func (c *countingMetrics) OrderCancelled() { c.mu.Lock(); c.cancelled++; c.mu.Unlock() }
func (c *countingMetrics) StockRejected()  { c.mu.Lock(); c.reject++; c.mu.Unlock() }
