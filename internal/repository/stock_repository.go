package repository

import (
	"context"
	"fmt"

	"mercadito/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// stockRepository implements StockRepository using PostgreSQL. Reservations
// are a single conditional UPDATE so the check-and-decrement is atomic per
// row; the database, not the application, serializes competing requests.
type stockRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewStockRepository creates a new PostgreSQL-backed stock repository.
func NewStockRepository(pool *pgxpool.Pool, logger zerolog.Logger) StockRepository {
	return &stockRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "stock").Logger(),
	}
}

// ReserveStoreStock atomically decrements store stock within tx.
func (r *stockRepository) ReserveStoreStock(ctx context.Context, tx pgx.Tx, storeID, productID uuid.UUID, qty int64) (int64, error) {
	query := `
		UPDATE store_stock
		SET available_quantity = available_quantity - $3, updated_at = now()
		WHERE store_id = $1 AND product_id = $2 AND active AND available_quantity >= $3
		RETURNING final_price_cents
	`

	var price int64
	err := tx.QueryRow(ctx, query, storeID, productID, qty).Scan(&price)
	if err == pgx.ErrNoRows {
		return 0, r.classifyReserveFailure(ctx, tx,
			`SELECT active FROM store_stock WHERE store_id = $1 AND product_id = $2`,
			storeID, productID)
	}
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("store_id", storeID.String()).
			Str("product_id", productID.String()).
			Msg("failed to reserve store stock")
		return 0, fmt.Errorf("failed to reserve store stock: %w", err)
	}

	r.logger.Debug().
		Str("store_id", storeID.String()).
		Str("product_id", productID.String()).
		Int64("quantity", qty).
		Msg("store stock reserved")

	return price, nil
}

// ReserveSupplierStock atomically decrements supplier stock within tx.
func (r *stockRepository) ReserveSupplierStock(ctx context.Context, tx pgx.Tx, supplierID, productID uuid.UUID, qty int64) (int64, error) {
	query := `
		UPDATE supplier_stock
		SET available_quantity = available_quantity - $3, updated_at = now()
		WHERE supplier_id = $1 AND product_id = $2 AND active AND available_quantity >= $3
		RETURNING final_price_cents
	`

	var price int64
	err := tx.QueryRow(ctx, query, supplierID, productID, qty).Scan(&price)
	if err == pgx.ErrNoRows {
		return 0, r.classifyReserveFailure(ctx, tx,
			`SELECT active FROM supplier_stock WHERE supplier_id = $1 AND product_id = $2`,
			supplierID, productID)
	}
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("supplier_id", supplierID.String()).
			Str("product_id", productID.String()).
			Msg("failed to reserve supplier stock")
		return 0, fmt.Errorf("failed to reserve supplier stock: %w", err)
	}

	r.logger.Debug().
		Str("supplier_id", supplierID.String()).
		Str("product_id", productID.String()).
		Int64("quantity", qty).
		Msg("supplier stock reserved")

	return price, nil
}

// classifyReserveFailure tells a missing/inactive pool row apart from plain
// insufficient quantity after a conditional decrement matched nothing.
func (r *stockRepository) classifyReserveFailure(ctx context.Context, tx pgx.Tx, query string, ownerID, productID uuid.UUID) error {
	var active bool
	err := tx.QueryRow(ctx, query, ownerID, productID).Scan(&active)
	if err == pgx.ErrNoRows {
		return model.ErrStockNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to inspect stock record: %w", err)
	}
	if !active {
		return model.ErrStockNotFound
	}
	return model.ErrInsufficientStock
}

// ReleaseStoreStock credits qty back to store stock; no-op if the row is gone.
func (r *stockRepository) ReleaseStoreStock(ctx context.Context, tx pgx.Tx, storeID, productID uuid.UUID, qty int64) error {
	query := `
		UPDATE store_stock
		SET available_quantity = available_quantity + $3, updated_at = now()
		WHERE store_id = $1 AND product_id = $2
	`

	ct, err := tx.Exec(ctx, query, storeID, productID, qty)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("store_id", storeID.String()).
			Str("product_id", productID.String()).
			Msg("failed to release store stock")
		return fmt.Errorf("failed to release store stock: %w", err)
	}

	if ct.RowsAffected() == 0 {
		// The pool record was removed since the reservation. The refund is
		// forfeited rather than failing the void.
		r.logger.Warn().
			Str("store_id", storeID.String()).
			Str("product_id", productID.String()).
			Int64("quantity", qty).
			Msg("store stock record missing on release, skipping refund")
	}

	return nil
}

// ReleaseSupplierStock credits qty back to supplier stock; no-op if the row is gone.
func (r *stockRepository) ReleaseSupplierStock(ctx context.Context, tx pgx.Tx, supplierID, productID uuid.UUID, qty int64) error {
	query := `
		UPDATE supplier_stock
		SET available_quantity = available_quantity + $3, updated_at = now()
		WHERE supplier_id = $1 AND product_id = $2
	`

	ct, err := tx.Exec(ctx, query, supplierID, productID, qty)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("supplier_id", supplierID.String()).
			Str("product_id", productID.String()).
			Msg("failed to release supplier stock")
		return fmt.Errorf("failed to release supplier stock: %w", err)
	}

	if ct.RowsAffected() == 0 {
		r.logger.Warn().
			Str("supplier_id", supplierID.String()).
			Str("product_id", productID.String()).
			Int64("quantity", qty).
			Msg("supplier stock record missing on release, skipping refund")
	}

	return nil
}

// CreditStoreStock applies the credit side of a supplier-to-store transfer.
// The debit side was already applied when the restock order reserved the
// supplier stock, so only the store row is touched here. A missing store row
// is created with the delivered unit price as base cost and a final price
// derived from the store's markup policy.
func (r *stockRepository) CreditStoreStock(ctx context.Context, tx pgx.Tx, storeID, productID uuid.UUID, qty, basePriceCents int64, markupPercent int) error {
	finalPrice := basePriceCents * int64(100+markupPercent) / 100

	query := `
		INSERT INTO store_stock (store_id, product_id, available_quantity, base_price_cents, final_price_cents, active, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, now())
		ON CONFLICT (store_id, product_id) DO UPDATE
		SET available_quantity = store_stock.available_quantity + EXCLUDED.available_quantity,
		    updated_at = now()
	`

	if _, err := tx.Exec(ctx, query, storeID, productID, qty, basePriceCents, finalPrice); err != nil {
		r.logger.Error().
			Err(err).
			Str("store_id", storeID.String()).
			Str("product_id", productID.String()).
			Msg("failed to credit store stock")
		return fmt.Errorf("failed to credit store stock: %w", err)
	}

	r.logger.Debug().
		Str("store_id", storeID.String()).
		Str("product_id", productID.String()).
		Int64("quantity", qty).
		Msg("store stock credited")

	return nil
}

// GetStoreStock reads a store stock row.
func (r *stockRepository) GetStoreStock(ctx context.Context, storeID, productID uuid.UUID) (*model.StoreStock, error) {
	query := `
		SELECT store_id, product_id, available_quantity, base_price_cents, final_price_cents, active, updated_at
		FROM store_stock
		WHERE store_id = $1 AND product_id = $2
	`

	var s model.StoreStock
	err := r.pool.QueryRow(ctx, query, storeID, productID).Scan(
		&s.StoreID, &s.ProductID, &s.AvailableQuantity, &s.BasePriceCents, &s.FinalPriceCents, &s.Active, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query store stock: %w", err)
	}

	return &s, nil
}

// GetSupplierStock reads a supplier stock row.
func (r *stockRepository) GetSupplierStock(ctx context.Context, supplierID, productID uuid.UUID) (*model.SupplierStock, error) {
	query := `
		SELECT supplier_id, product_id, available_quantity, final_price_cents, active, updated_at
		FROM supplier_stock
		WHERE supplier_id = $1 AND product_id = $2
	`

	var s model.SupplierStock
	err := r.pool.QueryRow(ctx, query, supplierID, productID).Scan(
		&s.SupplierID, &s.ProductID, &s.AvailableQuantity, &s.FinalPriceCents, &s.Active, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query supplier stock: %w", err)
	}

	return &s, nil
}
