package service

import (
	"context"
	"fmt"
	"time"

	"mercadito/internal/deliverycode"
	"mercadito/internal/model"
	"mercadito/internal/notify"
	"mercadito/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// restockOrderService implements RestockOrderService.
type restockOrderService struct {
	orderRepo   repository.OrderRepository
	stockRepo   repository.StockRepository
	catalogRepo repository.CatalogRepository
	notifier    notify.Notifier
	logger      zerolog.Logger
}

// NewRestockOrderService creates a new restock order service.
func NewRestockOrderService(
	orderRepo repository.OrderRepository,
	stockRepo repository.StockRepository,
	catalogRepo repository.CatalogRepository,
	notifier notify.Notifier,
	logger zerolog.Logger,
) RestockOrderService {
	return &restockOrderService{
		orderRepo:   orderRepo,
		stockRepo:   stockRepo,
		catalogRepo: catalogRepo,
		notifier:    notifier,
		logger:      logger.With().Str("service", "restock_order").Logger(),
	}
}

// Create validates the request, reserves supplier stock for every line in
// one transaction and persists the order. The supplier pool is debited now;
// the store pool is credited only when the order reaches ENTREGADA.
func (s *restockOrderService) Create(ctx context.Context, req *model.RestockOrderRequest) (*model.RestockOrderResponse, error) {
	if err := validateLines(req.Lines); err != nil {
		return nil, err
	}

	store, err := s.catalogRepo.GetStore(ctx, req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to create restock order: %w", err)
	}
	if store == nil || !store.Active {
		s.logger.Warn().Str("store_id", req.StoreID.String()).Msg("store missing or inactive")
		return nil, model.ErrStoreNotFound
	}

	supplier, err := s.catalogRepo.GetSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to create restock order: %w", err)
	}
	if supplier == nil || !supplier.Active {
		s.logger.Warn().Str("supplier_id", req.SupplierID.String()).Msg("supplier missing or inactive")
		return nil, model.ErrSupplierNotFound
	}

	route, err := s.catalogRepo.GetRoute(ctx, req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("failed to create restock order: %w", err)
	}
	if route == nil || !route.Active || route.SupplierID != req.SupplierID {
		s.logger.Warn().
			Str("route_id", req.RouteID.String()).
			Str("supplier_id", req.SupplierID.String()).
			Msg("route missing, inactive or not owned by supplier")
		return nil, model.ErrRouteNotFound
	}

	products, err := s.lookupProducts(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	// The plaintext code exists only in this response; the order stores the
	// hash.
	code, codeHash, err := deliverycode.Generate()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate delivery code")
		return nil, fmt.Errorf("failed to create restock order: %w", err)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create restock order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now().UTC()
	orderID := uuid.New()

	lines := make([]model.OrderLine, 0, len(req.Lines))
	var subtotal int64
	for _, lr := range req.Lines {
		var unitPrice int64
		unitPrice, err = s.stockRepo.ReserveSupplierStock(ctx, tx, req.SupplierID, lr.ProductID, lr.Quantity)
		if err != nil {
			s.logger.Warn().
				Str("supplier_id", req.SupplierID.String()).
				Str("product_id", lr.ProductID.String()).
				Int64("quantity", lr.Quantity).
				Err(err).
				Msg("supplier stock reservation failed")
			return nil, err
		}

		product := products[lr.ProductID]
		line := model.OrderLine{
			ID:             uuid.New(),
			OrderID:        orderID,
			ProductID:      lr.ProductID,
			Product:        product.Snapshot(),
			Quantity:       lr.Quantity,
			UnitPriceCents: unitPrice,
			SubtotalCents:  unitPrice * lr.Quantity,
		}
		subtotal += line.SubtotalCents
		lines = append(lines, line)
	}

	order := &model.RestockOrder{
		ID:         orderID,
		StoreID:    req.StoreID,
		SupplierID: req.SupplierID,
		RouteID:    req.RouteID,
		Lines:      lines,
		Totals: model.Totals{
			SubtotalCents: subtotal,
			TotalCents:    subtotal,
		},
		Delivery: model.Delivery{
			RequestedDate: req.RequestedDate,
			Notes:         req.Notes,
		},
		DeliveryCodeHash: codeHash,
		Status:           model.RestockEnviada,
		History: []model.HistoryEntry{
			{Status: string(model.RestockEnviada), At: now},
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = s.orderRepo.InsertRestockOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to insert restock order")
		return nil, fmt.Errorf("failed to create restock order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create restock order: %w", err)
	}

	s.notifier.Publish(notify.NewEvent(
		notify.EventRestockOrderCreated, "restock", orderID, string(order.Status), nil, "",
	))

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("supplier_id", req.SupplierID.String()).
		Int("line_count", len(lines)).
		Msg("restock order created")

	return &model.RestockOrderResponse{Order: order, DeliveryCode: code}, nil
}

// GetByID retrieves an order with lines and history.
func (s *restockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.RestockOrder, error) {
	order, err := s.orderRepo.GetRestockOrder(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get restock order")
		return nil, fmt.Errorf("failed to get restock order: %w", err)
	}
	return order, nil
}

// UpdateStatus applies a status transition with its ledger side effects.
// Entering RECHAZADA or CANCELADA refunds supplier stock; entering
// ENTREGADA credits store stock (the supplier debit happened at creation)
// and stamps delivery.deliveredAt.
func (s *restockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.RestockOrderStatus, reason string, actorID *uuid.UUID) (*model.RestockOrder, error) {
	if !status.Valid() {
		return nil, model.NewDomainError(model.ErrCodeValidationFailure, "Unknown order status")
	}

	order, err := s.orderRepo.GetRestockOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return s.transition(ctx, order, status, reason, actorID)
}

// Accept marks the order accepted by the supplier.
func (s *restockOrderService) Accept(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*model.RestockOrder, error) {
	order, err := s.guardedLoad(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, order, model.RestockAceptada, "", actorID)
}

// Reject refuses the order, refunding every line to supplier stock.
func (s *restockOrderService) Reject(ctx context.Context, id uuid.UUID, reason string, actorID *uuid.UUID) (*model.RestockOrder, error) {
	order, err := s.orderRepo.GetRestockOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reject order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	// Idempotent terminal re-application short-circuits before the guard.
	if order.Status == model.RestockRechazada {
		return order, nil
	}
	if order.Status != model.RestockCreada && order.Status != model.RestockEnviada {
		return nil, model.ErrInvalidTransition
	}
	return s.transition(ctx, order, model.RestockRechazada, reason, actorID)
}

// guardedLoad loads an order and enforces the accept/reject precondition
// that it is still CREADA or ENVIADA.
func (s *restockOrderService) guardedLoad(ctx context.Context, id uuid.UUID) (*model.RestockOrder, error) {
	order, err := s.orderRepo.GetRestockOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if order.Status != model.RestockCreada && order.Status != model.RestockEnviada {
		return nil, model.ErrInvalidTransition
	}
	return order, nil
}

// Cancel voids a non-terminal order.
func (s *restockOrderService) Cancel(ctx context.Context, id uuid.UUID, reason string, actorID *uuid.UUID) (*model.RestockOrder, error) {
	return s.UpdateStatus(ctx, id, model.RestockCancelada, reason, actorID)
}

// ConfirmDelivery verifies the delivery code and drives ENTREGADA. The code
// is always checked before any state is inspected, so a wrong code is
// rejected even on an already-delivered order.
func (s *restockOrderService) ConfirmDelivery(ctx context.Context, id uuid.UUID, code string, actorID *uuid.UUID) (*model.RestockOrder, error) {
	order, err := s.orderRepo.GetRestockOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm delivery: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !deliverycode.Verify(code, order.DeliveryCodeHash) {
		s.logger.Warn().Str("order_id", id.String()).Msg("delivery code mismatch")
		return nil, model.ErrInvalidDeliveryCode
	}

	// Already delivered: idempotent success, the ledger is not touched again.
	if order.Status == model.RestockEntregada {
		return order, nil
	}

	if order.Status != model.RestockEnRuta {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("status", string(order.Status)).
			Msg("confirm delivery outside EN_RUTA")
		return nil, model.ErrInvalidTransition
	}

	return s.transition(ctx, order, model.RestockEntregada, "", actorID)
}

// transition applies a validated transition plus its ledger side effects in
// one transaction keyed on the order's version.
func (s *restockOrderService) transition(ctx context.Context, order *model.RestockOrder, status model.RestockOrderStatus, reason string, actorID *uuid.UUID) (*model.RestockOrder, error) {
	if order.Status == status && status.IsTerminal() {
		s.logger.Debug().
			Str("order_id", order.ID.String()).
			Str("status", string(status)).
			Msg("terminal status re-applied, no-op")
		return order, nil
	}

	if !order.Status.CanTransition(status) {
		s.logger.Warn().
			Str("order_id", order.ID.String()).
			Str("from", string(order.Status)).
			Str("to", string(status)).
			Msg("invalid transition")
		return nil, model.ErrInvalidTransition
	}

	var markupPercent int
	if status == model.RestockEntregada {
		store, err := s.catalogRepo.GetStore(ctx, order.StoreID)
		if err != nil {
			return nil, fmt.Errorf("failed to transition order: %w", err)
		}
		if store == nil {
			return nil, model.ErrStoreNotFound
		}
		markupPercent = store.RestockMarkupPercent
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to transition order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	switch status {
	case model.RestockRechazada, model.RestockCancelada:
		for _, line := range order.Lines {
			if err = s.stockRepo.ReleaseSupplierStock(ctx, tx, order.SupplierID, line.ProductID, line.Quantity); err != nil {
				return nil, fmt.Errorf("failed to release supplier stock: %w", err)
			}
		}
	case model.RestockEntregada:
		for _, line := range order.Lines {
			if err = s.stockRepo.CreditStoreStock(ctx, tx, order.StoreID, line.ProductID, line.Quantity, line.UnitPriceCents, markupPercent); err != nil {
				return nil, fmt.Errorf("failed to credit store stock: %w", err)
			}
		}
	}

	now := time.Now().UTC()
	var deliveredAt *time.Time
	if status == model.RestockEntregada {
		deliveredAt = &now
	}

	if err = s.orderRepo.UpdateRestockOrderStatus(ctx, tx, order.ID, status, order.Version, deliveredAt); err != nil {
		return nil, err
	}

	entry := model.HistoryEntry{Status: string(status), At: now, ByUserID: actorID, Reason: reason}
	if err = s.orderRepo.AppendHistory(ctx, tx, order.ID, entry); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to transition order: %w", err)
	}

	order.Status = status
	order.Version++
	order.UpdatedAt = now
	order.History = append(order.History, entry)
	if deliveredAt != nil {
		order.Delivery.DeliveredAt = deliveredAt
	}

	s.notifier.Publish(notify.NewEvent(
		notify.EventOrderTransitioned, "restock", order.ID, string(status), actorID, reason,
	))

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("status", string(status)).
		Msg("restock order transitioned")

	return order, nil
}

// lookupProducts resolves every requested product or fails the request.
func (s *restockOrderService) lookupProducts(ctx context.Context, lines []model.LineRequest) (map[uuid.UUID]model.Product, error) {
	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}

	products, err := s.catalogRepo.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up products: %w", err)
	}

	for _, id := range ids {
		if _, ok := products[id]; !ok {
			s.logger.Warn().Str("product_id", id.String()).Msg("product missing or inactive")
			return nil, model.ErrProductNotFound
		}
	}

	return products, nil
}
