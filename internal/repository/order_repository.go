package repository

import (
	"context"
	"fmt"
	"time"

	"mercadito/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements OrderRepository using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// InsertCustomerOrder inserts the order, its lines and its history rows
// within the provided transaction.
func (r *orderRepository) InsertCustomerOrder(ctx context.Context, tx pgx.Tx, order *model.CustomerOrder) error {
	query := `
		INSERT INTO customer_orders (
			id, customer_id, store_id, status,
			subtotal_cents, tax_cents, delivery_fee_cents, discount_cents, total_cents,
			fulfillment_type, fulfillment_address, delivered_at,
			payment_method, payment_status, promo_code,
			version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.CustomerID, order.StoreID, order.Status,
		order.Totals.SubtotalCents, order.Totals.TaxCents, order.Totals.DeliveryFeeCents,
		order.Totals.DiscountCents, order.Totals.TotalCents,
		order.Fulfillment.Type, order.Fulfillment.Address, order.Fulfillment.DeliveredAt,
		order.Payment.Method, order.Payment.Status, order.PromoCode,
		order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to insert customer order")
		return fmt.Errorf("failed to insert customer order: %w", err)
	}

	if err := r.insertLines(ctx, tx, order.Lines); err != nil {
		return err
	}

	for _, entry := range order.History {
		if err := r.AppendHistory(ctx, tx, order.ID, entry); err != nil {
			return err
		}
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int("line_count", len(order.Lines)).
		Msg("customer order inserted")

	return nil
}

// InsertRestockOrder inserts the order, its lines and its history rows
// within the provided transaction.
func (r *orderRepository) InsertRestockOrder(ctx context.Context, tx pgx.Tx, order *model.RestockOrder) error {
	query := `
		INSERT INTO restock_orders (
			id, store_id, supplier_id, route_id, status,
			subtotal_cents, tax_cents, delivery_fee_cents, discount_cents, total_cents,
			requested_date, estimated_date, delivered_at, delivery_notes,
			delivery_code_hash, version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.StoreID, order.SupplierID, order.RouteID, order.Status,
		order.Totals.SubtotalCents, order.Totals.TaxCents, order.Totals.DeliveryFeeCents,
		order.Totals.DiscountCents, order.Totals.TotalCents,
		order.Delivery.RequestedDate, order.Delivery.EstimatedDate, order.Delivery.DeliveredAt,
		order.Delivery.Notes, order.DeliveryCodeHash,
		order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to insert restock order")
		return fmt.Errorf("failed to insert restock order: %w", err)
	}

	if err := r.insertLines(ctx, tx, order.Lines); err != nil {
		return err
	}

	for _, entry := range order.History {
		if err := r.AppendHistory(ctx, tx, order.ID, entry); err != nil {
			return err
		}
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int("line_count", len(order.Lines)).
		Msg("restock order inserted")

	return nil
}

// insertLines batch-inserts write-once order lines.
func (r *orderRepository) insertLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_lines (
			id, order_id, product_id,
			product_name, product_unit, product_company, product_category,
			quantity, unit_price_cents, subtotal_cents
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query,
			line.ID, line.OrderID, line.ProductID,
			line.Product.Name, line.Product.Unit, line.Product.Company, line.Product.Category,
			line.Quantity, line.UnitPriceCents, line.SubtotalCents,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(lines); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", lines[i].OrderID.String()).
				Str("product_id", lines[i].ProductID.String()).
				Msg("failed to insert order line")
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	return nil
}

// AppendHistory appends one audit row; seq is assigned in the database so
// the trail stays dense and ordered.
func (r *orderRepository) AppendHistory(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, entry model.HistoryEntry) error {
	query := `
		INSERT INTO order_history (order_id, seq, status, at, by_user_id, reason)
		SELECT $1, COALESCE(MAX(seq), 0) + 1, $2, $3, $4, $5
		FROM order_history
		WHERE order_id = $1
	`

	_, err := tx.Exec(ctx, query, orderID, entry.Status, entry.At, entry.ByUserID, nullableReason(entry.Reason))
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to append order history")
		return fmt.Errorf("failed to append order history: %w", err)
	}

	return nil
}

func nullableReason(reason string) *string {
	if reason == "" {
		return nil
	}
	return &reason
}

// GetCustomerOrder loads an order with its lines and history.
func (r *orderRepository) GetCustomerOrder(ctx context.Context, id uuid.UUID) (*model.CustomerOrder, error) {
	query := `
		SELECT id, customer_id, store_id, status,
		       subtotal_cents, tax_cents, delivery_fee_cents, discount_cents, total_cents,
		       fulfillment_type, fulfillment_address, delivered_at,
		       payment_method, payment_status, promo_code,
		       version, created_at, updated_at
		FROM customer_orders
		WHERE id = $1
	`

	var order model.CustomerOrder
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.CustomerID, &order.StoreID, &order.Status,
		&order.Totals.SubtotalCents, &order.Totals.TaxCents, &order.Totals.DeliveryFeeCents,
		&order.Totals.DiscountCents, &order.Totals.TotalCents,
		&order.Fulfillment.Type, &order.Fulfillment.Address, &order.Fulfillment.DeliveredAt,
		&order.Payment.Method, &order.Payment.Status, &order.PromoCode,
		&order.Version, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query customer order")
		return nil, fmt.Errorf("failed to query customer order: %w", err)
	}

	if order.Lines, err = r.getLines(ctx, id); err != nil {
		return nil, err
	}
	if order.History, err = r.getHistory(ctx, id); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetRestockOrder loads an order with its lines and history.
func (r *orderRepository) GetRestockOrder(ctx context.Context, id uuid.UUID) (*model.RestockOrder, error) {
	query := `
		SELECT id, store_id, supplier_id, route_id, status,
		       subtotal_cents, tax_cents, delivery_fee_cents, discount_cents, total_cents,
		       requested_date, estimated_date, delivered_at, delivery_notes,
		       delivery_code_hash, version, created_at, updated_at
		FROM restock_orders
		WHERE id = $1
	`

	var order model.RestockOrder
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.StoreID, &order.SupplierID, &order.RouteID, &order.Status,
		&order.Totals.SubtotalCents, &order.Totals.TaxCents, &order.Totals.DeliveryFeeCents,
		&order.Totals.DiscountCents, &order.Totals.TotalCents,
		&order.Delivery.RequestedDate, &order.Delivery.EstimatedDate, &order.Delivery.DeliveredAt,
		&order.Delivery.Notes, &order.DeliveryCodeHash,
		&order.Version, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query restock order")
		return nil, fmt.Errorf("failed to query restock order: %w", err)
	}

	if order.Lines, err = r.getLines(ctx, id); err != nil {
		return nil, err
	}
	if order.History, err = r.getHistory(ctx, id); err != nil {
		return nil, err
	}

	return &order, nil
}

// getLines loads the write-once lines of an order.
func (r *orderRepository) getLines(ctx context.Context, orderID uuid.UUID) ([]model.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id,
		       product_name, product_unit, product_company, product_category,
		       quantity, unit_price_cents, subtotal_cents
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order lines")
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []model.OrderLine
	for rows.Next() {
		var line model.OrderLine
		err := rows.Scan(
			&line.ID, &line.OrderID, &line.ProductID,
			&line.Product.Name, &line.Product.Unit, &line.Product.Company, &line.Product.Category,
			&line.Quantity, &line.UnitPriceCents, &line.SubtotalCents,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return lines, nil
}

// getHistory loads the append-only audit trail of an order in seq order.
func (r *orderRepository) getHistory(ctx context.Context, orderID uuid.UUID) ([]model.HistoryEntry, error) {
	query := `
		SELECT seq, status, at, by_user_id, reason
		FROM order_history
		WHERE order_id = $1
		ORDER BY seq
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order history")
		return nil, fmt.Errorf("failed to query order history: %w", err)
	}
	defer rows.Close()

	var history []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		var reason *string
		if err := rows.Scan(&entry.Seq, &entry.Status, &entry.At, &entry.ByUserID, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if reason != nil {
			entry.Reason = *reason
		}
		history = append(history, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order history: %w", err)
	}

	return history, nil
}

// UpdateCustomerOrderStatus applies a status CAS against the expected version.
func (r *orderRepository) UpdateCustomerOrderStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.CustomerOrderStatus, expectedVersion int64, deliveredAt *time.Time) error {
	// Entering PAGADA also flips the declared payment status; payment is
	// recorded, never processed.
	query := `
		UPDATE customer_orders
		SET status = $2,
		    delivered_at = COALESCE($3, delivered_at),
		    payment_status = CASE WHEN $2 = 'PAGADA' THEN 'PAGADO' ELSE payment_status END,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $1 AND version = $4
	`

	ct, err := tx.Exec(ctx, query, id, status, deliveredAt, expectedVersion)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update customer order status")
		return fmt.Errorf("failed to update customer order status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return model.ErrVersionConflict
	}

	return nil
}

// UpdateRestockOrderStatus applies a status CAS against the expected version.
func (r *orderRepository) UpdateRestockOrderStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.RestockOrderStatus, expectedVersion int64, deliveredAt *time.Time) error {
	query := `
		UPDATE restock_orders
		SET status = $2,
		    delivered_at = COALESCE($3, delivered_at),
		    version = version + 1,
		    updated_at = now()
		WHERE id = $1 AND version = $4
	`

	ct, err := tx.Exec(ctx, query, id, status, deliveredAt, expectedVersion)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update restock order status")
		return fmt.Errorf("failed to update restock order status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return model.ErrVersionConflict
	}

	return nil
}
