package service

import (
	"context"
	"time"

	"mercadito/internal/model"
	"mercadito/internal/notify"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockCatalogRepository is a mock implementation of repository.CatalogRepository.
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]model.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetStore(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Store), args.Error(1)
}

func (m *MockCatalogRepository) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func (m *MockCatalogRepository) GetRoute(ctx context.Context, id uuid.UUID) (*model.SupplierRoute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupplierRoute), args.Error(1)
}

// MockStockRepository is a mock implementation of repository.StockRepository.
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) ReserveStoreStock(ctx context.Context, tx pgx.Tx, storeID, productID uuid.UUID, qty int64) (int64, error) {
	args := m.Called(ctx, tx, storeID, productID, qty)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockRepository) ReserveSupplierStock(ctx context.Context, tx pgx.Tx, supplierID, productID uuid.UUID, qty int64) (int64, error) {
	args := m.Called(ctx, tx, supplierID, productID, qty)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockRepository) ReleaseStoreStock(ctx context.Context, tx pgx.Tx, storeID, productID uuid.UUID, qty int64) error {
	args := m.Called(ctx, tx, storeID, productID, qty)
	return args.Error(0)
}

func (m *MockStockRepository) ReleaseSupplierStock(ctx context.Context, tx pgx.Tx, supplierID, productID uuid.UUID, qty int64) error {
	args := m.Called(ctx, tx, supplierID, productID, qty)
	return args.Error(0)
}

func (m *MockStockRepository) CreditStoreStock(ctx context.Context, tx pgx.Tx, storeID, productID uuid.UUID, qty, basePriceCents int64, markupPercent int) error {
	args := m.Called(ctx, tx, storeID, productID, qty, basePriceCents, markupPercent)
	return args.Error(0)
}

func (m *MockStockRepository) GetStoreStock(ctx context.Context, storeID, productID uuid.UUID) (*model.StoreStock, error) {
	args := m.Called(ctx, storeID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoreStock), args.Error(1)
}

func (m *MockStockRepository) GetSupplierStock(ctx context.Context, supplierID, productID uuid.UUID) (*model.SupplierStock, error) {
	args := m.Called(ctx, supplierID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupplierStock), args.Error(1)
}

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockOrderRepository) InsertCustomerOrder(ctx context.Context, tx pgx.Tx, order *model.CustomerOrder) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) InsertRestockOrder(ctx context.Context, tx pgx.Tx, order *model.RestockOrder) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetCustomerOrder(ctx context.Context, id uuid.UUID) (*model.CustomerOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomerOrder), args.Error(1)
}

func (m *MockOrderRepository) GetRestockOrder(ctx context.Context, id uuid.UUID) (*model.RestockOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RestockOrder), args.Error(1)
}

func (m *MockOrderRepository) UpdateCustomerOrderStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.CustomerOrderStatus, expectedVersion int64, deliveredAt *time.Time) error {
	args := m.Called(ctx, tx, id, status, expectedVersion, deliveredAt)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateRestockOrderStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.RestockOrderStatus, expectedVersion int64, deliveredAt *time.Time) error {
	args := m.Called(ctx, tx, id, status, expectedVersion, deliveredAt)
	return args.Error(0)
}

func (m *MockOrderRepository) AppendHistory(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, entry model.HistoryEntry) error {
	args := m.Called(ctx, tx, orderID, entry)
	return args.Error(0)
}

// MockPromoValidator is a mock implementation of promo.Validator.
type MockPromoValidator struct {
	mock.Mock
}

func (m *MockPromoValidator) Validate(ctx context.Context, code string) (int, error) {
	args := m.Called(ctx, code)
	return args.Int(0), args.Error(1)
}

func (m *MockPromoValidator) Close() error {
	args := m.Called()
	return args.Error(0)
}

// recordingNotifier captures published events so tests can assert on them
// without testify expectations for every fire-and-forget publish.
type recordingNotifier struct {
	events []notify.Event
}

func (n *recordingNotifier) Publish(event notify.Event) {
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Close() error { return nil }

// MockTx is a mock pgx.Tx for transaction lifecycle assertions.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
