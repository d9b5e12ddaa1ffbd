package service

import (
	"context"
	"fmt"
	"time"

	"mercadito/internal/model"
	"mercadito/internal/notify"
	"mercadito/internal/promo"
	"mercadito/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// customerOrderService implements CustomerOrderService.
type customerOrderService struct {
	orderRepo   repository.OrderRepository
	stockRepo   repository.StockRepository
	catalogRepo repository.CatalogRepository
	promo       promo.Validator
	notifier    notify.Notifier
	logger      zerolog.Logger
}

// NewCustomerOrderService creates a new customer order service.
func NewCustomerOrderService(
	orderRepo repository.OrderRepository,
	stockRepo repository.StockRepository,
	catalogRepo repository.CatalogRepository,
	promoValidator promo.Validator,
	notifier notify.Notifier,
	logger zerolog.Logger,
) CustomerOrderService {
	return &customerOrderService{
		orderRepo:   orderRepo,
		stockRepo:   stockRepo,
		catalogRepo: catalogRepo,
		promo:       promoValidator,
		notifier:    notifier,
		logger:      logger.With().Str("service", "customer_order").Logger(),
	}
}

// Create validates the request, reserves store stock line by line inside one
// transaction and persists the order. The first failing line aborts the
// whole request: the rollback undoes every earlier decrement, so a rejected
// order touches zero stock records.
func (s *customerOrderService) Create(ctx context.Context, req *model.CustomerOrderRequest) (*model.CustomerOrder, error) {
	if err := validateLines(req.Lines); err != nil {
		return nil, err
	}
	if !req.FulfillmentType.Valid() {
		return nil, model.NewDomainError(model.ErrCodeValidationFailure, "Unknown fulfillment type")
	}
	if req.FulfillmentType == model.FulfillmentDelivery && (req.Address == nil || *req.Address == "") {
		return nil, model.NewDomainError(model.ErrCodeValidationFailure, "Delivery orders require an address")
	}
	if req.PaymentMethod == "" {
		return nil, model.NewDomainError(model.ErrCodeValidationFailure, "Payment method is required")
	}

	store, err := s.catalogRepo.GetStore(ctx, req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if store == nil || !store.Active {
		s.logger.Warn().Str("store_id", req.StoreID.String()).Msg("store missing or inactive")
		return nil, model.ErrStoreNotFound
	}

	products, err := s.lookupProducts(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	discountPercent := 0
	if req.PromoCode != nil && *req.PromoCode != "" {
		discountPercent, err = s.promo.Validate(ctx, *req.PromoCode)
		if err != nil {
			s.logger.Warn().Str("promo_code", *req.PromoCode).Err(err).Msg("invalid promo code")
			return nil, err
		}
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Roll back on any error so no partial reservation survives
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
		unitPrice, err = s.stockRepo.ReserveStoreStock(ctx, tx, req.StoreID, lr.ProductID, lr.Quantity)
		if err != nil {
			s.logger.Warn().
				Str("store_id", req.StoreID.String()).
				Str("product_id", lr.ProductID.String()).
				Int64("quantity", lr.Quantity).
				Err(err).
				Msg("store stock reservation failed")
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

	var deliveryFee int64
	if req.FulfillmentType == model.FulfillmentDelivery {
		deliveryFee = store.DeliveryFeeCents
	}
	discount := subtotal * int64(discountPercent) / 100

	actor := req.CustomerID
	order := &model.CustomerOrder{
		ID:         orderID,
		CustomerID: req.CustomerID,
		StoreID:    req.StoreID,
		Lines:      lines,
		Totals: model.Totals{
			SubtotalCents:    subtotal,
			TaxCents:         0,
			DeliveryFeeCents: deliveryFee,
			DiscountCents:    discount,
			TotalCents:       subtotal + deliveryFee - discount,
		},
		Fulfillment: model.Fulfillment{
			Type:    req.FulfillmentType,
			Address: req.Address,
		},
		Payment: model.Payment{
			Method: req.PaymentMethod,
			Status: model.PaymentPendiente,
		},
		PromoCode: req.PromoCode,
		Status:    model.CustomerCreada,
		History: []model.HistoryEntry{
			{Status: string(model.CustomerCreada), At: now, ByUserID: &actor},
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = s.orderRepo.InsertCustomerOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to insert order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.notifier.Publish(notify.NewEvent(
		notify.EventCustomerOrderCreated, "customer", orderID, string(order.Status), &actor, "",
	))

	s.logger.Info().
		Str("order_id", orderID.String()).
		Int("line_count", len(lines)).
		Int64("total_cents", order.Totals.TotalCents).
		Msg("customer order created")

	return order, nil
}

// GetByID retrieves an order with lines and history.
func (s *customerOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.CustomerOrder, error) {
	order, err := s.orderRepo.GetCustomerOrder(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// UpdateStatus applies a status transition. Entering CANCELADA or
// REEMBOLSADA releases every line's reservation back to store stock;
// entering ENTREGADA stamps fulfillment.deliveredAt.
func (s *customerOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CustomerOrderStatus, reason string, actorID *uuid.UUID) (*model.CustomerOrder, error) {
	if !status.Valid() {
		return nil, model.NewDomainError(model.ErrCodeValidationFailure, "Unknown order status")
	}

	order, err := s.orderRepo.GetCustomerOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	// Re-applying a terminal status is idempotent: same final state, no
	// second ledger effect, no extra history row.
	if order.Status == status && status.IsTerminal() {
		s.logger.Debug().
			Str("order_id", id.String()).
			Str("status", string(status)).
			Msg("terminal status re-applied, no-op")
		return order, nil
	}

	if !order.Status.CanTransition(status) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(order.Status)).
			Str("to", string(status)).
			Msg("invalid transition")
		return nil, model.ErrInvalidTransition
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// Voiding statuses refund every line's reservation before the status
	// lands; the shared transaction keeps refund and status atomic.
	if status == model.CustomerCancelada || status == model.CustomerReembolsada {
		for _, line := range order.Lines {
			if err = s.stockRepo.ReleaseStoreStock(ctx, tx, order.StoreID, line.ProductID, line.Quantity); err != nil {
				return nil, fmt.Errorf("failed to release stock: %w", err)
			}
		}
	}

	now := time.Now().UTC()
	var deliveredAt *time.Time
	if status == model.CustomerEntregada {
		deliveredAt = &now
	}

	if err = s.orderRepo.UpdateCustomerOrderStatus(ctx, tx, id, status, order.Version, deliveredAt); err != nil {
		return nil, err
	}

	entry := model.HistoryEntry{Status: string(status), At: now, ByUserID: actorID, Reason: reason}
	if err = s.orderRepo.AppendHistory(ctx, tx, id, entry); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	order.Status = status
	order.Version++
	order.UpdatedAt = now
	order.History = append(order.History, entry)
	if deliveredAt != nil {
		order.Fulfillment.DeliveredAt = deliveredAt
	}
	if status == model.CustomerPagada {
		order.Payment.Status = model.PaymentPagado
	}

	s.notifier.Publish(notify.NewEvent(
		notify.EventOrderTransitioned, "customer", id, string(status), actorID, reason,
	))

	s.logger.Info().
		Str("order_id", id.String()).
		Str("status", string(status)).
		Msg("customer order transitioned")

	return order, nil
}

// Cancel voids a non-delivered order.
func (s *customerOrderService) Cancel(ctx context.Context, id uuid.UUID, reason string, actorID *uuid.UUID) (*model.CustomerOrder, error) {
	return s.UpdateStatus(ctx, id, model.CustomerCancelada, reason, actorID)
}

// lookupProducts resolves every requested product or fails the request.
func (s *customerOrderService) lookupProducts(ctx context.Context, lines []model.LineRequest) (map[uuid.UUID]model.Product, error) {
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

// validateLines rejects malformed line lists before any stock is touched.
func validateLines(lines []model.LineRequest) error {
	if len(lines) == 0 {
		return model.ErrEmptyOrder
	}
	for _, l := range lines {
		if l.ProductID == uuid.Nil {
			return model.NewDomainError(model.ErrCodeValidationFailure, "Line product ID is required")
		}
		if l.Quantity < 1 {
			return model.ErrInvalidQuantity
		}
	}
	return nil
}
