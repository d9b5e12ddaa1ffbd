package model

import "github.com/google/uuid"

// Product is a catalog entry. The catalog is owned by another service;
// this engine only reads it to validate references and take snapshots.
type Product struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Category string    `json:"category" db:"category"`
	Company  string    `json:"company" db:"company"`
	Unit     string    `json:"unit" db:"unit"`
	Active   bool      `json:"active" db:"active"`
}

// ProductSnapshot is the immutable copy of catalog fields embedded in an
// order line at creation time, so historical orders stay readable after
// catalog edits.
type ProductSnapshot struct {
	Name     string `json:"name" db:"product_name"`
	Unit     string `json:"unit" db:"product_unit"`
	Company  string `json:"company" db:"product_company"`
	Category string `json:"category" db:"product_category"`
}

// Snapshot captures the product's catalog fields.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		Name:     p.Name,
		Unit:     p.Unit,
		Company:  p.Company,
		Category: p.Category,
	}
}

// Store is a marketplace store (read-only here).
type Store struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	Name                 string    `json:"name" db:"name"`
	Active               bool      `json:"active" db:"active"`
	DeliveryFeeCents     int64     `json:"deliveryFeeCents" db:"delivery_fee_cents"`
	RestockMarkupPercent int       `json:"restockMarkupPercent" db:"restock_markup_percent"`
	CommissionPercent    int       `json:"commissionPercent" db:"commission_percent"`
}

// Supplier is a marketplace supplier (read-only here).
type Supplier struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Name   string    `json:"name" db:"name"`
	Active bool      `json:"active" db:"active"`
}

// SupplierRoute is a delivery route offered by a supplier.
type SupplierRoute struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SupplierID uuid.UUID `json:"supplierId" db:"supplier_id"`
	Name       string    `json:"name" db:"name"`
	Active     bool      `json:"active" db:"active"`
}
