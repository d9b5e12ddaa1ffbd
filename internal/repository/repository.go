package repository

import (
	"context"
	"time"

	"mercadito/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CatalogRepository reads catalog records. The catalog is owned by another
// service; this engine consults it to validate references and take
// snapshots, never to write.
type CatalogRepository interface {
	// GetProducts retrieves the products with the given IDs, keyed by ID.
	// Missing or inactive products are simply absent from the result.
	GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Product, error)

	// GetStore retrieves a store by ID. Returns nil when not found.
	GetStore(ctx context.Context, id uuid.UUID) (*model.Store, error)

	// GetSupplier retrieves a supplier by ID. Returns nil when not found.
	GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error)

	// GetRoute retrieves a supplier delivery route by ID. Returns nil when not found.
	GetRoute(ctx context.Context, id uuid.UUID) (*model.SupplierRoute, error)
}

// StockRepository is the inventory ledger over the two stock pools. Every
// mutating method runs inside the caller's transaction so a multi-line
// reservation commits or rolls back as a unit.
//
// Reserve methods perform a single conditional check-and-decrement statement;
// two concurrent reservations against the same row serialize in the database,
// never at the application layer.
type StockRepository interface {
	// ReserveStoreStock atomically decrements store stock and returns the
	// row's current customer-facing unit price in cents.
	ReserveStoreStock(ctx context.Context, tx pgx.Tx, storeID, productID uuid.UUID, qty int64) (int64, error)

	// ReserveSupplierStock atomically decrements supplier stock and returns
	// the row's current unit price in cents.
	ReserveSupplierStock(ctx context.Context, tx pgx.Tx, supplierID, productID uuid.UUID, qty int64) (int64, error)

	// ReleaseStoreStock credits qty back to store stock. A release never
	// fails the caller: if the row was removed it is a no-op.
	ReleaseStoreStock(ctx context.Context, tx pgx.Tx, storeID, productID uuid.UUID, qty int64) error

	// ReleaseSupplierStock credits qty back to supplier stock; no-op if the
	// row was removed.
	ReleaseSupplierStock(ctx context.Context, tx pgx.Tx, supplierID, productID uuid.UUID, qty int64) error

	// CreditStoreStock applies the credit side of a supplier-to-store
	// transfer. If the store has no record for the product one is created
	// with basePriceCents as cost and a final price derived from the store's
	// markup percent.
	CreditStoreStock(ctx context.Context, tx pgx.Tx, storeID, productID uuid.UUID, qty, basePriceCents int64, markupPercent int) error

	// GetStoreStock reads a store stock row. Returns nil when not found.
	GetStoreStock(ctx context.Context, storeID, productID uuid.UUID) (*model.StoreStock, error)

	// GetSupplierStock reads a supplier stock row. Returns nil when not found.
	GetSupplierStock(ctx context.Context, supplierID, productID uuid.UUID) (*model.SupplierStock, error)
}

// OrderRepository persists both order types. Orders are inserted with their
// lines and initial history row in one transaction and never deleted.
// Status updates are compare-and-swap on the version column; the losing
// side of a concurrent update gets model.ErrVersionConflict.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// InsertCustomerOrder inserts the order, its lines and its history rows.
	InsertCustomerOrder(ctx context.Context, tx pgx.Tx, order *model.CustomerOrder) error

	// InsertRestockOrder inserts the order, its lines and its history rows.
	InsertRestockOrder(ctx context.Context, tx pgx.Tx, order *model.RestockOrder) error

	// GetCustomerOrder loads an order with lines and history. Returns nil
	// when not found.
	GetCustomerOrder(ctx context.Context, id uuid.UUID) (*model.CustomerOrder, error)

	// GetRestockOrder loads an order with lines and history. Returns nil
	// when not found.
	GetRestockOrder(ctx context.Context, id uuid.UUID) (*model.RestockOrder, error)

	// UpdateCustomerOrderStatus applies a status CAS against the expected
	// version, optionally stamping delivered_at.
	UpdateCustomerOrderStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.CustomerOrderStatus, expectedVersion int64, deliveredAt *time.Time) error

	// UpdateRestockOrderStatus applies a status CAS against the expected
	// version, optionally stamping delivered_at.
	UpdateRestockOrderStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.RestockOrderStatus, expectedVersion int64, deliveredAt *time.Time) error

	// AppendHistory appends one audit row; seq is assigned in the database.
	AppendHistory(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, entry model.HistoryEntry) error
}
