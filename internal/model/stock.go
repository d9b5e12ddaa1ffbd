package model

import (
	"time"

	"github.com/google/uuid"
)

// SupplierStock is the per-(supplier, product) pool of units a supplier can
// sell to stores. AvailableQuantity never goes negative.
type SupplierStock struct {
	SupplierID        uuid.UUID `json:"supplierId" db:"supplier_id"`
	ProductID         uuid.UUID `json:"productId" db:"product_id"`
	AvailableQuantity int64     `json:"availableQuantity" db:"available_quantity"`
	FinalPriceCents   int64     `json:"finalPriceCents" db:"final_price_cents"`
	Active            bool      `json:"active" db:"active"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// StoreStock is the per-(store, product) pool of units a store can sell to
// customers. BasePriceCents is the store's acquisition cost; FinalPriceCents
// is the customer-facing price.
type StoreStock struct {
	StoreID           uuid.UUID `json:"storeId" db:"store_id"`
	ProductID         uuid.UUID `json:"productId" db:"product_id"`
	AvailableQuantity int64     `json:"availableQuantity" db:"available_quantity"`
	BasePriceCents    int64     `json:"basePriceCents" db:"base_price_cents"`
	FinalPriceCents   int64     `json:"finalPriceCents" db:"final_price_cents"`
	Active            bool      `json:"active" db:"active"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}
