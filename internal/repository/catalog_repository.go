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

// catalogRepository implements CatalogRepository using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

// GetProducts retrieves active products by ID, keyed by ID.
func (r *catalogRepository) GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]model.Product{}, nil
	}

	query := `
		SELECT id, name, category, company, unit, active
		FROM products
		WHERE id = ANY($1) AND active
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("id_count", len(ids)).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make(map[uuid.UUID]model.Product, len(ids))
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Company, &p.Unit, &p.Active); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[p.ID] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetStore retrieves a store by ID.
func (r *catalogRepository) GetStore(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	query := `
		SELECT id, name, active, delivery_fee_cents, restock_markup_percent, commission_percent
		FROM stores
		WHERE id = $1
	`

	var s model.Store
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Active, &s.DeliveryFeeCents, &s.RestockMarkupPercent, &s.CommissionPercent,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("store_id", id.String()).Msg("failed to query store")
		return nil, fmt.Errorf("failed to query store: %w", err)
	}

	return &s, nil
}

// GetSupplier retrieves a supplier by ID.
func (r *catalogRepository) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	query := `SELECT id, name, active FROM suppliers WHERE id = $1`

	var s model.Supplier
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Active)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("supplier_id", id.String()).Msg("failed to query supplier")
		return nil, fmt.Errorf("failed to query supplier: %w", err)
	}

	return &s, nil
}

// GetRoute retrieves a supplier delivery route by ID.
func (r *catalogRepository) GetRoute(ctx context.Context, id uuid.UUID) (*model.SupplierRoute, error) {
	query := `SELECT id, supplier_id, name, active FROM supplier_routes WHERE id = $1`

	var route model.SupplierRoute
	err := r.pool.QueryRow(ctx, query, id).Scan(&route.ID, &route.SupplierID, &route.Name, &route.Active)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("route_id", id.String()).Msg("failed to query route")
		return nil, fmt.Errorf("failed to query route: %w", err)
	}

	return &route, nil
}
