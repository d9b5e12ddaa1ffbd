package model

import (
	"time"

	"github.com/google/uuid"
)

// FulfillmentType indicates how a customer order is handed over.
type FulfillmentType string

const (
	FulfillmentPickup   FulfillmentType = "PICKUP"
	FulfillmentDelivery FulfillmentType = "DELIVERY"
)

// Valid reports whether t is a known fulfillment type.
func (t FulfillmentType) Valid() bool {
	return t == FulfillmentPickup || t == FulfillmentDelivery
}

// PaymentStatus values. Payment is declared, not processed: the engine
// records the method and status, a payment gateway is out of scope.
const (
	PaymentPendiente = "PENDIENTE"
	PaymentPagado    = "PAGADO"
)

// OrderLine is a single line of either order type. Lines are write-once:
// the product snapshot and unit price are captured at creation and never
// refreshed. All money is integer cents.
type OrderLine struct {
	ID             uuid.UUID       `json:"-" db:"id"`
	OrderID        uuid.UUID       `json:"-" db:"order_id"`
	ProductID      uuid.UUID       `json:"productId" db:"product_id"`
	Product        ProductSnapshot `json:"product"`
	Quantity       int64           `json:"quantity" db:"quantity"`
	UnitPriceCents int64           `json:"unitPriceCents" db:"unit_price_cents"`
	SubtotalCents  int64           `json:"subtotalCents" db:"subtotal_cents"`
}

// Totals is the money summary of an order.
// Total = Subtotal + Tax + DeliveryFee - Discount.
type Totals struct {
	SubtotalCents    int64 `json:"subtotalCents" db:"subtotal_cents"`
	TaxCents         int64 `json:"taxCents" db:"tax_cents"`
	DeliveryFeeCents int64 `json:"deliveryFeeCents" db:"delivery_fee_cents"`
	DiscountCents    int64 `json:"discountCents" db:"discount_cents"`
	TotalCents       int64 `json:"totalCents" db:"total_cents"`
}

// Fulfillment describes how a customer order is handed over.
type Fulfillment struct {
	Type        FulfillmentType `json:"type" db:"fulfillment_type"`
	Address     *string         `json:"address,omitempty" db:"fulfillment_address"`
	DeliveredAt *time.Time      `json:"deliveredAt,omitempty" db:"delivered_at"`
}

// Payment records the declared payment method and its status.
type Payment struct {
	Method string `json:"method" db:"payment_method"`
	Status string `json:"status" db:"payment_status"`
}

// Delivery holds restock delivery scheduling details.
type Delivery struct {
	RequestedDate *time.Time `json:"requestedDate,omitempty" db:"requested_date"`
	EstimatedDate *time.Time `json:"estimatedDate,omitempty" db:"estimated_date"`
	DeliveredAt   *time.Time `json:"deliveredAt,omitempty" db:"delivered_at"`
	Notes         string     `json:"notes,omitempty" db:"delivery_notes"`
}

// HistoryEntry is one row of an order's append-only audit trail.
type HistoryEntry struct {
	Seq      int64      `json:"-" db:"seq"`
	Status   string     `json:"status" db:"status"`
	At       time.Time  `json:"at" db:"at"`
	ByUserID *uuid.UUID `json:"byUserId,omitempty" db:"by_user_id"`
	Reason   string     `json:"reason,omitempty" db:"reason"`
}

// CustomerOrder is the durable record of a customer purchase. It is created
// in one atomic validation+reservation step, mutated only through status
// transitions and never physically deleted.
type CustomerOrder struct {
	ID          uuid.UUID           `json:"id" db:"id"`
	CustomerID  uuid.UUID           `json:"customerId" db:"customer_id"`
	StoreID     uuid.UUID           `json:"storeId" db:"store_id"`
	Lines       []OrderLine         `json:"lines"`
	Totals      Totals              `json:"totals"`
	Fulfillment Fulfillment         `json:"fulfillment"`
	Payment     Payment             `json:"payment"`
	PromoCode   *string             `json:"promoCode,omitempty" db:"promo_code"`
	Status      CustomerOrderStatus `json:"status" db:"status"`
	History     []HistoryEntry      `json:"history"`
	Version     int64               `json:"-" db:"version"`
	CreatedAt   time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time           `json:"updatedAt" db:"updated_at"`
}

// RestockOrder is the durable record of a store replenishment bought from a
// supplier. The delivery code is stored only as a bcrypt hash; the plaintext
// is returned to the caller exactly once at creation.
type RestockOrder struct {
	ID               uuid.UUID          `json:"id" db:"id"`
	StoreID          uuid.UUID          `json:"storeId" db:"store_id"`
	SupplierID       uuid.UUID          `json:"supplierId" db:"supplier_id"`
	RouteID          uuid.UUID          `json:"routeId" db:"route_id"`
	Lines            []OrderLine        `json:"lines"`
	Totals           Totals             `json:"totals"`
	Delivery         Delivery           `json:"delivery"`
	DeliveryCodeHash string             `json:"-" db:"delivery_code_hash"`
	Status           RestockOrderStatus `json:"status" db:"status"`
	History          []HistoryEntry     `json:"history"`
	Version          int64              `json:"-" db:"version"`
	CreatedAt        time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time          `json:"updatedAt" db:"updated_at"`
}

// LineRequest is a single requested line in a create request.
type LineRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int64     `json:"quantity"`
}

// CustomerOrderRequest is the payload for creating a customer order.
type CustomerOrderRequest struct {
	CustomerID      uuid.UUID       `json:"customerId"`
	StoreID         uuid.UUID       `json:"storeId"`
	Lines           []LineRequest   `json:"lines"`
	FulfillmentType FulfillmentType `json:"fulfillmentType"`
	Address         *string         `json:"address,omitempty"`
	PaymentMethod   string          `json:"paymentMethod"`
	PromoCode       *string         `json:"promoCode,omitempty"`
}

// RestockOrderRequest is the payload for creating a restock order.
type RestockOrderRequest struct {
	StoreID       uuid.UUID     `json:"storeId"`
	SupplierID    uuid.UUID     `json:"supplierId"`
	RouteID       uuid.UUID     `json:"routeId"`
	Lines         []LineRequest `json:"lines"`
	RequestedDate *time.Time    `json:"requestedDate,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// RestockOrderResponse is the creation response carrying the one-time
// plaintext delivery code. The code is never returned again.
type RestockOrderResponse struct {
	Order        *RestockOrder `json:"order"`
	DeliveryCode string        `json:"deliveryCode"`
}

// StatusChangeRequest is the payload for a status transition.
type StatusChangeRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ConfirmDeliveryRequest carries the delivery code supplied on receipt.
type ConfirmDeliveryRequest struct {
	Code string `json:"code"`
}
