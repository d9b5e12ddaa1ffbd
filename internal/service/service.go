package service

import (
	"context"

	"mercadito/internal/model"

	"github.com/google/uuid"
)

// CustomerOrderService drives customer orders through their lifecycle.
// Role gating is the caller's responsibility: the actor id passed in is
// trusted and recorded in the audit trail.
type CustomerOrderService interface {
	// Create validates the request, reserves store stock for every line in
	// one atomic step and persists the order with snapshots and totals.
	Create(ctx context.Context, req *model.CustomerOrderRequest) (*model.CustomerOrder, error)

	// GetByID retrieves an order with lines and history. Returns nil when
	// not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.CustomerOrder, error)

	// UpdateStatus applies a status transition, appending to the audit
	// trail and triggering ledger side effects where the target status
	// requires them. Re-applying the current terminal status is a no-op.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.CustomerOrderStatus, reason string, actorID *uuid.UUID) (*model.CustomerOrder, error)

	// Cancel voids a non-delivered order, releasing every line's reserved
	// stock back to the store pool.
	Cancel(ctx context.Context, id uuid.UUID, reason string, actorID *uuid.UUID) (*model.CustomerOrder, error)
}

// RestockOrderService drives restock orders through their lifecycle,
// settling the supplier-to-store stock transfer on delivery.
type RestockOrderService interface {
	// Create validates the request, reserves supplier stock for every line
	// and persists the order. The response carries the plaintext delivery
	// code exactly once.
	Create(ctx context.Context, req *model.RestockOrderRequest) (*model.RestockOrderResponse, error)

	// GetByID retrieves an order with lines and history. Returns nil when
	// not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.RestockOrder, error)

	// UpdateStatus applies a status transition with its ledger side
	// effects. A direct transition to ENTREGADA is the administrative
	// override for lost delivery codes.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.RestockOrderStatus, reason string, actorID *uuid.UUID) (*model.RestockOrder, error)

	// Accept marks the order accepted by the supplier. Only valid while the
	// order is CREADA or ENVIADA.
	Accept(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*model.RestockOrder, error)

	// Reject refuses the order, refunding every line to supplier stock.
	// Only valid while the order is CREADA or ENVIADA.
	Reject(ctx context.Context, id uuid.UUID, reason string, actorID *uuid.UUID) (*model.RestockOrder, error)

	// Cancel voids a non-terminal order, refunding every line to supplier
	// stock.
	Cancel(ctx context.Context, id uuid.UUID, reason string, actorID *uuid.UUID) (*model.RestockOrder, error)

	// ConfirmDelivery verifies the one-time delivery code and, on match,
	// drives the ENTREGADA transition including the supplier-to-store
	// transfer. The order must be EN_RUTA.
	ConfirmDelivery(ctx context.Context, id uuid.UUID, code string, actorID *uuid.UUID) (*model.RestockOrder, error)
}
