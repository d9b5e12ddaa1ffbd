package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// Catalog holds the ids of the seeded catalog fixture.
type Catalog struct {
	StoreID    uuid.UUID
	SupplierID uuid.UUID
	RouteID    uuid.UUID
	ProductA   uuid.UUID
	ProductB   uuid.UUID
}

// SetupTestDB creates a PostgreSQL test container, connection pool and schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema applies the production schema file.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	schema, err := os.ReadFile("../../migrations/schema.sql")
	if err != nil {
		t.Fatalf("failed to read schema file: %v", err)
	}

	if _, err := pool.Exec(context.Background(), string(schema)); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedCatalog inserts a store, a supplier with a route, two products and
// stock in both pools: supplier holds 50 of each, the store holds 10 of
// product A at 1500 cents.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) Catalog {
	t.Helper()

	ctx := context.Background()
	c := Catalog{
		StoreID:    uuid.New(),
		SupplierID: uuid.New(),
		RouteID:    uuid.New(),
		ProductA:   uuid.New(),
		ProductB:   uuid.New(),
	}

	stmts := []struct {
		query string
		args  []any
	}{
		{
			`INSERT INTO stores (id, name, active, delivery_fee_cents, restock_markup_percent, commission_percent)
			 VALUES ($1, 'Tienda Central', TRUE, 500, 30, 5)`,
			[]any{c.StoreID},
		},
		{
			`INSERT INTO suppliers (id, name, active) VALUES ($1, 'Distribuidora Norte', TRUE)`,
			[]any{c.SupplierID},
		},
		{
			`INSERT INTO supplier_routes (id, supplier_id, name, active) VALUES ($1, $2, 'Ruta lunes', TRUE)`,
			[]any{c.RouteID, c.SupplierID},
		},
		{
			`INSERT INTO products (id, name, category, company, unit, active)
			 VALUES ($1, 'Arroz 1kg', 'granos', 'Molinos SA', 'kg', TRUE)`,
			[]any{c.ProductA},
		},
		{
			`INSERT INTO products (id, name, category, company, unit, active)
			 VALUES ($1, 'Leche entera', 'lacteos', 'Lacteos SA', 'l', TRUE)`,
			[]any{c.ProductB},
		},
		{
			`INSERT INTO supplier_stock (supplier_id, product_id, available_quantity, final_price_cents, active)
			 VALUES ($1, $2, 50, 900, TRUE)`,
			[]any{c.SupplierID, c.ProductA},
		},
		{
			`INSERT INTO supplier_stock (supplier_id, product_id, available_quantity, final_price_cents, active)
			 VALUES ($1, $2, 50, 2500, TRUE)`,
			[]any{c.SupplierID, c.ProductB},
		},
		{
			`INSERT INTO store_stock (store_id, product_id, available_quantity, base_price_cents, final_price_cents, active)
			 VALUES ($1, $2, 10, 900, 1500, TRUE)`,
			[]any{c.StoreID, c.ProductA},
		},
	}

	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s.query, s.args...); err != nil {
			t.Fatalf("failed to seed catalog: %v", err)
		}
	}

	return c
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"order_history", "order_lines", "customer_orders", "restock_orders",
		"store_stock", "supplier_stock", "supplier_routes",
		"products", "suppliers", "stores",
	}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
