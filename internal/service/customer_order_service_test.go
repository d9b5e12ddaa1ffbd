package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mercadito/internal/model"
	"mercadito/internal/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCustomerFixture() (*MockOrderRepository, *MockStockRepository, *MockCatalogRepository, *MockPromoValidator, *recordingNotifier, CustomerOrderService) {
	orderRepo := new(MockOrderRepository)
	stockRepo := new(MockStockRepository)
	catalogRepo := new(MockCatalogRepository)
	validator := new(MockPromoValidator)
	notifier := &recordingNotifier{}
	svc := NewCustomerOrderService(orderRepo, stockRepo, catalogRepo, validator, notifier, zerolog.Nop())
	return orderRepo, stockRepo, catalogRepo, validator, notifier, svc
}

func activeStore(id uuid.UUID) *model.Store {
	return &model.Store{
		ID:                   id,
		Name:                 "Tienda Central",
		Active:               true,
		DeliveryFeeCents:     500,
		RestockMarkupPercent: 30,
		CommissionPercent:    5,
	}
}

func testCustomerOrder(status model.CustomerOrderStatus) *model.CustomerOrder {
	orderID := uuid.New()
	storeID := uuid.New()
	return &model.CustomerOrder{
		ID:         orderID,
		CustomerID: uuid.New(),
		StoreID:    storeID,
		Lines: []model.OrderLine{
			{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New(), Quantity: 2, UnitPriceCents: 1500, SubtotalCents: 3000},
			{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New(), Quantity: 1, UnitPriceCents: 800, SubtotalCents: 800},
		},
		Totals: model.Totals{SubtotalCents: 3800, TotalCents: 3800},
		Fulfillment: model.Fulfillment{
			Type: model.FulfillmentPickup,
		},
		Payment: model.Payment{Method: "EFECTIVO", Status: model.PaymentPendiente},
		Status:  status,
		History: []model.HistoryEntry{
			{Status: string(model.CustomerCreada), At: time.Now().UTC().Add(-time.Hour)},
		},
		Version:   3,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
		UpdatedAt: time.Now().UTC().Add(-time.Hour),
	}
}

func TestCustomerOrderService_Create_DeliveryWithPromo(t *testing.T) {
	ctx := context.Background()
	orderRepo, stockRepo, catalogRepo, validator, notifier, svc := newCustomerFixture()

	storeID := uuid.New()
	customerID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()
	address := "Calle 12 #34-56"
	promoCode := "VERANO2026"

	req := &model.CustomerOrderRequest{
		CustomerID: customerID,
		StoreID:    storeID,
		Lines: []model.LineRequest{
			{ProductID: productA, Quantity: 2},
			{ProductID: productB, Quantity: 1},
		},
		FulfillmentType: model.FulfillmentDelivery,
		Address:         &address,
		PaymentMethod:   "TARJETA",
		PromoCode:       &promoCode,
	}

	products := map[uuid.UUID]model.Product{
		productA: {ID: productA, Name: "Arroz 1kg", Unit: "kg", Company: "Molinos SA", Category: "granos", Active: true},
		productB: {ID: productB, Name: "Leche entera", Unit: "l", Company: "Lacteos SA", Category: "lacteos", Active: true},
	}

	mockTx := new(MockTx)
	catalogRepo.On("GetStore", ctx, storeID).Return(activeStore(storeID), nil)
	catalogRepo.On("GetProducts", ctx, []uuid.UUID{productA, productB}).Return(products, nil)
	validator.On("Validate", ctx, promoCode).Return(10, nil)
	orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	stockRepo.On("ReserveStoreStock", ctx, mockTx, storeID, productA, int64(2)).Return(int64(1500), nil)
	stockRepo.On("ReserveStoreStock", ctx, mockTx, storeID, productB, int64(1)).Return(int64(800), nil)
	orderRepo.On("InsertCustomerOrder", ctx, mockTx, mock.AnythingOfType("*model.CustomerOrder")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	order, err := svc.Create(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, model.CustomerCreada, order.Status)
	assert.Equal(t, int64(1), order.Version)

	// subtotal 2*1500 + 1*800 = 3800, fee 500, 10% discount = 380
	assert.Equal(t, int64(3800), order.Totals.SubtotalCents)
	assert.Equal(t, int64(0), order.Totals.TaxCents)
	assert.Equal(t, int64(500), order.Totals.DeliveryFeeCents)
	assert.Equal(t, int64(380), order.Totals.DiscountCents)
	assert.Equal(t, int64(3920), order.Totals.TotalCents)

	require.Len(t, order.Lines, 2)
	assert.Equal(t, "Arroz 1kg", order.Lines[0].Product.Name)
	assert.Equal(t, int64(3000), order.Lines[0].SubtotalCents)
	assert.Equal(t, model.PaymentPendiente, order.Payment.Status)

	require.Len(t, order.History, 1)
	assert.Equal(t, string(model.CustomerCreada), order.History[0].Status)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, notify.EventCustomerOrderCreated, notifier.events[0].EventType)
	assert.Equal(t, order.ID, notifier.events[0].OrderID)

	orderRepo.AssertExpectations(t)
	stockRepo.AssertExpectations(t)
	catalogRepo.AssertExpectations(t)
	validator.AssertExpectations(t)
	mockTx.AssertExpectations(t)
	assert.True(t, mockTx.committed)
}

func TestCustomerOrderService_Create_PickupSkipsDeliveryFee(t *testing.T) {
	ctx := context.Background()
	orderRepo, stockRepo, catalogRepo, validator, _, svc := newCustomerFixture()

	storeID := uuid.New()
	productA := uuid.New()

	req := &model.CustomerOrderRequest{
		CustomerID:      uuid.New(),
		StoreID:         storeID,
		Lines:           []model.LineRequest{{ProductID: productA, Quantity: 3}},
		FulfillmentType: model.FulfillmentPickup,
		PaymentMethod:   "EFECTIVO",
	}

	products := map[uuid.UUID]model.Product{
		productA: {ID: productA, Name: "Cafe molido", Unit: "g", Active: true},
	}

	mockTx := new(MockTx)
	catalogRepo.On("GetStore", ctx, storeID).Return(activeStore(storeID), nil)
	catalogRepo.On("GetProducts", ctx, []uuid.UUID{productA}).Return(products, nil)
	orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	stockRepo.On("ReserveStoreStock", ctx, mockTx, storeID, productA, int64(3)).Return(int64(1200), nil)
	orderRepo.On("InsertCustomerOrder", ctx, mockTx, mock.AnythingOfType("*model.CustomerOrder")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	order, err := svc.Create(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, int64(3600), order.Totals.SubtotalCents)
	assert.Equal(t, int64(0), order.Totals.DeliveryFeeCents)
	assert.Equal(t, int64(0), order.Totals.DiscountCents)
	assert.Equal(t, int64(3600), order.Totals.TotalCents)

	validator.AssertNotCalled(t, "Validate")
	orderRepo.AssertExpectations(t)
}

func TestCustomerOrderService_Create_ValidationFailures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *model.CustomerOrderRequest
		wantErr *model.DomainError
	}{
		{
			name: "empty lines",
			req: &model.CustomerOrderRequest{
				StoreID:         uuid.New(),
				FulfillmentType: model.FulfillmentPickup,
				PaymentMethod:   "EFECTIVO",
			},
			wantErr: model.ErrEmptyOrder,
		},
		{
			name: "zero quantity",
			req: &model.CustomerOrderRequest{
				StoreID:         uuid.New(),
				Lines:           []model.LineRequest{{ProductID: uuid.New(), Quantity: 0}},
				FulfillmentType: model.FulfillmentPickup,
				PaymentMethod:   "EFECTIVO",
			},
			wantErr: model.ErrInvalidQuantity,
		},
		{
			name: "negative quantity",
			req: &model.CustomerOrderRequest{
				StoreID:         uuid.New(),
				Lines:           []model.LineRequest{{ProductID: uuid.New(), Quantity: -2}},
				FulfillmentType: model.FulfillmentPickup,
				PaymentMethod:   "EFECTIVO",
			},
			wantErr: model.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo, _, _, _, _, svc := newCustomerFixture()

			order, err := svc.Create(ctx, tt.req)

			assert.Nil(t, order)
			assert.ErrorIs(t, err, tt.wantErr)
			orderRepo.AssertNotCalled(t, "BeginTx")
		})
	}
}

func TestCustomerOrderService_Create_DeliveryRequiresAddress(t *testing.T) {
	ctx := context.Background()
	orderRepo, _, _, _, _, svc := newCustomerFixture()

	req := &model.CustomerOrderRequest{
		CustomerID:      uuid.New(),
		StoreID:         uuid.New(),
		Lines:           []model.LineRequest{{ProductID: uuid.New(), Quantity: 1}},
		FulfillmentType: model.FulfillmentDelivery,
		PaymentMethod:   "EFECTIVO",
	}

	order, err := svc.Create(ctx, req)

	assert.Nil(t, order)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeValidationFailure, domainErr.Code)
	orderRepo.AssertNotCalled(t, "BeginTx")
}

func TestCustomerOrderService_Create_StoreInactive(t *testing.T) {
	ctx := context.Background()
	orderRepo, _, catalogRepo, _, _, svc := newCustomerFixture()

	storeID := uuid.New()
	store := activeStore(storeID)
	store.Active = false

	catalogRepo.On("GetStore", ctx, storeID).Return(store, nil)

	order, err := svc.Create(ctx, &model.CustomerOrderRequest{
		CustomerID:      uuid.New(),
		StoreID:         storeID,
		Lines:           []model.LineRequest{{ProductID: uuid.New(), Quantity: 1}},
		FulfillmentType: model.FulfillmentPickup,
		PaymentMethod:   "EFECTIVO",
	})

	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrStoreNotFound)
	orderRepo.AssertNotCalled(t, "BeginTx")
}

func TestCustomerOrderService_Create_ProductMissing(t *testing.T) {
	ctx := context.Background()
	orderRepo, _, catalogRepo, _, _, svc := newCustomerFixture()

	storeID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	catalogRepo.On("GetStore", ctx, storeID).Return(activeStore(storeID), nil)
	catalogRepo.On("GetProducts", ctx, []uuid.UUID{productA, productB}).Return(map[uuid.UUID]model.Product{
		productA: {ID: productA, Name: "Arroz 1kg", Active: true},
	}, nil)

	order, err := svc.Create(ctx, &model.CustomerOrderRequest{
		CustomerID: uuid.New(),
		StoreID:    storeID,
		Lines: []model.LineRequest{
			{ProductID: productA, Quantity: 1},
			{ProductID: productB, Quantity: 1},
		},
		FulfillmentType: model.FulfillmentPickup,
		PaymentMethod:   "EFECTIVO",
	})

	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
	orderRepo.AssertNotCalled(t, "BeginTx")
}

func TestCustomerOrderService_Create_InvalidPromoCode(t *testing.T) {
	ctx := context.Background()
	orderRepo, _, catalogRepo, validator, _, svc := newCustomerFixture()

	storeID := uuid.New()
	productA := uuid.New()
	promoCode := "NOEXISTE99"

	catalogRepo.On("GetStore", ctx, storeID).Return(activeStore(storeID), nil)
	catalogRepo.On("GetProducts", ctx, []uuid.UUID{productA}).Return(map[uuid.UUID]model.Product{
		productA: {ID: productA, Name: "Arroz 1kg", Active: true},
	}, nil)
	validator.On("Validate", ctx, promoCode).Return(0, model.ErrInvalidPromoCode)

	order, err := svc.Create(ctx, &model.CustomerOrderRequest{
		CustomerID:      uuid.New(),
		StoreID:         storeID,
		Lines:           []model.LineRequest{{ProductID: productA, Quantity: 1}},
		FulfillmentType: model.FulfillmentPickup,
		PaymentMethod:   "EFECTIVO",
		PromoCode:       &promoCode,
	})

	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrInvalidPromoCode)
	orderRepo.AssertNotCalled(t, "BeginTx")
}

func TestCustomerOrderService_Create_InsufficientStockAbortsWholeOrder(t *testing.T) {
	ctx := context.Background()
	orderRepo, stockRepo, catalogRepo, _, notifier, svc := newCustomerFixture()

	storeID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	products := map[uuid.UUID]model.Product{
		productA: {ID: productA, Name: "Arroz 1kg", Active: true},
		productB: {ID: productB, Name: "Leche entera", Active: true},
	}

	mockTx := new(MockTx)
	catalogRepo.On("GetStore", ctx, storeID).Return(activeStore(storeID), nil)
	catalogRepo.On("GetProducts", ctx, []uuid.UUID{productA, productB}).Return(products, nil)
	orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	stockRepo.On("ReserveStoreStock", ctx, mockTx, storeID, productA, int64(2)).Return(int64(1500), nil)
	stockRepo.On("ReserveStoreStock", ctx, mockTx, storeID, productB, int64(6)).Return(int64(0), model.ErrInsufficientStock)
	mockTx.On("Rollback", ctx).Return(nil)

	order, err := svc.Create(ctx, &model.CustomerOrderRequest{
		CustomerID: uuid.New(),
		StoreID:    storeID,
		Lines: []model.LineRequest{
			{ProductID: productA, Quantity: 2},
			{ProductID: productB, Quantity: 6},
		},
		FulfillmentType: model.FulfillmentPickup,
		PaymentMethod:   "EFECTIVO",
	})

	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Empty(t, notifier.events)

	// The first line's decrement must die with the transaction
	assert.True(t, mockTx.rolledBack)
	assert.False(t, mockTx.committed)
	orderRepo.AssertNotCalled(t, "InsertCustomerOrder")
}

func TestCustomerOrderService_UpdateStatus_ValidTransition(t *testing.T) {
	ctx := context.Background()
	orderRepo, _, _, _, notifier, svc := newCustomerFixture()

	existing := testCustomerOrder(model.CustomerCreada)
	actor := uuid.New()

	mockTx := new(MockTx)
	orderRepo.On("GetCustomerOrder", ctx, existing.ID).Return(existing, nil)
	orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	orderRepo.On("UpdateCustomerOrderStatus", ctx, mockTx, existing.ID, model.CustomerPendientePago, int64(3), (*time.Time)(nil)).Return(nil)
	orderRepo.On("AppendHistory", ctx, mockTx, existing.ID, mock.AnythingOfType("model.HistoryEntry")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	order, err := svc.UpdateStatus(ctx, existing.ID, model.CustomerPendientePago, "", &actor)

	require.NoError(t, err)
	assert.Equal(t, model.CustomerPendientePago, order.Status)
	assert.Equal(t, int64(4), order.Version)
	require.Len(t, order.History, 2)
	assert.Equal(t, string(model.CustomerPendientePago), order.History[1].Status)
	assert.Equal(t, &actor, order.History[1].ByUserID)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, notify.EventOrderTransitioned, notifier.events[0].EventType)

	orderRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestCustomerOrderService_UpdateStatus_PagadaMarksPayment(t *testing.T) {
	ctx := context.Background()
	orderRepo, _, _, _, _, svc := newCustomerFixture()

	existing := testCustomerOrder(model.CustomerPendientePago)

	mockTx := new(MockTx)
	orderRepo.On("GetCustomerOrder", ctx, existing.ID).Return(existing, nil)
	orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	orderRepo.On("UpdateCustomerOrderStatus", ctx, mockTx, existing.ID, model.CustomerPagada, int64(3), (*time.Time)(nil)).Return(nil)
	orderRepo.On("AppendHistory", ctx, mockTx, existing.ID, mock.AnythingOfType("model.HistoryEntry")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	order, err := svc.UpdateStatus(ctx, existing.ID, model.CustomerPagada, "", nil)

	require.NoError(t, err)
	assert.Equal(t, model.CustomerPagada, order.Status)
	assert.Equal(t, model.PaymentPagado, order.Payment.Status)
}

func TestCustomerOrderService_UpdateStatus_InvalidTransition(t *testing.T) {
	ctx := context.Background()
	orderRepo, _, _, _, _, svc := newCustomerFixture()

	existing := testCustomerOrder(model.CustomerCreada)
	orderRepo.On("GetCustomerOrder", ctx, existing.ID).Return(existing, nil)

	order, err := svc.UpdateStatus(ctx, existing.ID, model.CustomerEntregada, "", nil)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	orderRepo.AssertNotCalled(t, "BeginTx")
}

func TestCustomerOrderService_UpdateStatus_UnknownStatus(t *testing.T) {
	ctx := context.Background()
	orderRepo, _, _, _, _, svc := newCustomerFixture()

	order, err := svc.UpdateStatus(ctx, uuid.New(), model.CustomerOrderStatus("DESPACHADA"), "", nil)

	assert.Nil(t, order)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeValidationFailure, domainErr.Code)
	orderRepo.AssertNotCalled(t, "GetCustomerOrder")
}

func TestCustomerOrderService_UpdateStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	orderRepo, _, _, _, _, svc := newCustomerFixture()

	id := uuid.New()
	orderRepo.On("GetCustomerOrder", ctx, id).Return(nil, nil)

	order, err := svc.UpdateStatus(ctx, id, model.CustomerCancelada, "", nil)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestCustomerOrderService_UpdateStatus_TerminalReapplyIsNoOp(t *testing.T) {
	ctx := context.Background()
	orderRepo, stockRepo, _, _, notifier, svc := newCustomerFixture()

	existing := testCustomerOrder(model.CustomerCancelada)
	historyLen := len(existing.History)
	orderRepo.On("GetCustomerOrder", ctx, existing.ID).Return(existing, nil)

	order, err := svc.UpdateStatus(ctx, existing.ID, model.CustomerCancelada, "duplicate click", nil)

	require.NoError(t, err)
	assert.Equal(t, model.CustomerCancelada, order.Status)
	assert.Equal(t, int64(3), order.Version)
	assert.Len(t, order.History, historyLen)
	assert.Empty(t, notifier.events)

	// No second refund, no new transaction
	orderRepo.AssertNotCalled(t, "BeginTx")
	stockRepo.AssertNotCalled(t, "ReleaseStoreStock")
}

func TestCustomerOrderService_Cancel_ReleasesEveryLine(t *testing.T) {
	ctx := context.Background()
	orderRepo, stockRepo, _, _, _, svc := newCustomerFixture()

	existing := testCustomerOrder(model.CustomerEnCamino)

	mockTx := new(MockTx)
	orderRepo.On("GetCustomerOrder", ctx, existing.ID).Return(existing, nil)
	orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	stockRepo.On("ReleaseStoreStock", ctx, mockTx, existing.StoreID, existing.Lines[0].ProductID, int64(2)).Return(nil)
	stockRepo.On("ReleaseStoreStock", ctx, mockTx, existing.StoreID, existing.Lines[1].ProductID, int64(1)).Return(nil)
	orderRepo.On("UpdateCustomerOrderStatus", ctx, mockTx, existing.ID, model.CustomerCancelada, int64(3), (*time.Time)(nil)).Return(nil)
	orderRepo.On("AppendHistory", ctx, mockTx, existing.ID, mock.AnythingOfType("model.HistoryEntry")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	order, err := svc.Cancel(ctx, existing.ID, "cliente no disponible", nil)

	require.NoError(t, err)
	assert.Equal(t, model.CustomerCancelada, order.Status)
	assert.Equal(t, "cliente no disponible", order.History[len(order.History)-1].Reason)
	stockRepo.AssertExpectations(t)
}

func TestCustomerOrderService_UpdateStatus_ReembolsadaReleasesStock(t *testing.T) {
	ctx := context.Background()
	orderRepo, stockRepo, _, _, _, svc := newCustomerFixture()

	existing := testCustomerOrder(model.CustomerPagada)

	mockTx := new(MockTx)
	orderRepo.On("GetCustomerOrder", ctx, existing.ID).Return(existing, nil)
	orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	stockRepo.On("ReleaseStoreStock", ctx, mockTx, existing.StoreID, existing.Lines[0].ProductID, int64(2)).Return(nil)
	stockRepo.On("ReleaseStoreStock", ctx, mockTx, existing.StoreID, existing.Lines[1].ProductID, int64(1)).Return(nil)
	orderRepo.On("UpdateCustomerOrderStatus", ctx, mockTx, existing.ID, model.CustomerReembolsada, int64(3), (*time.Time)(nil)).Return(nil)
	orderRepo.On("AppendHistory", ctx, mockTx, existing.ID, mock.AnythingOfType("model.HistoryEntry")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	order, err := svc.UpdateStatus(ctx, existing.ID, model.CustomerReembolsada, "pago duplicado", nil)

	require.NoError(t, err)
	assert.Equal(t, model.CustomerReembolsada, order.Status)
	stockRepo.AssertExpectations(t)
}

func TestCustomerOrderService_UpdateStatus_EntregadaStampsDeliveredAt(t *testing.T) {
	ctx := context.Background()
	orderRepo, _, _, _, _, svc := newCustomerFixture()

	existing := testCustomerOrder(model.CustomerEnCamino)

	mockTx := new(MockTx)
	orderRepo.On("GetCustomerOrder", ctx, existing.ID).Return(existing, nil)
	orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	orderRepo.On("UpdateCustomerOrderStatus", ctx, mockTx, existing.ID, model.CustomerEntregada, int64(3), mock.AnythingOfType("*time.Time")).Return(nil)
	orderRepo.On("AppendHistory", ctx, mockTx, existing.ID, mock.AnythingOfType("model.HistoryEntry")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	order, err := svc.UpdateStatus(ctx, existing.ID, model.CustomerEntregada, "", nil)

	require.NoError(t, err)
	assert.Equal(t, model.CustomerEntregada, order.Status)
	require.NotNil(t, order.Fulfillment.DeliveredAt)
	assert.WithinDuration(t, time.Now().UTC(), *order.Fulfillment.DeliveredAt, 5*time.Second)
}

func TestCustomerOrderService_UpdateStatus_VersionConflict(t *testing.T) {
	ctx := context.Background()
	orderRepo, _, _, _, notifier, svc := newCustomerFixture()

	existing := testCustomerOrder(model.CustomerCreada)

	mockTx := new(MockTx)
	orderRepo.On("GetCustomerOrder", ctx, existing.ID).Return(existing, nil)
	orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	orderRepo.On("UpdateCustomerOrderStatus", ctx, mockTx, existing.ID, model.CustomerPendientePago, int64(3), (*time.Time)(nil)).Return(model.ErrVersionConflict)
	mockTx.On("Rollback", ctx).Return(nil)

	order, err := svc.UpdateStatus(ctx, existing.ID, model.CustomerPendientePago, "", nil)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, model.ErrVersionConflict)
	assert.True(t, mockTx.rolledBack)
	assert.Empty(t, notifier.events)
}

func TestCustomerOrderService_GetByID_RepositoryError(t *testing.T) {
	ctx := context.Background()
	orderRepo, _, _, _, _, svc := newCustomerFixture()

	id := uuid.New()
	orderRepo.On("GetCustomerOrder", ctx, id).Return(nil, errors.New("connection reset"))

	order, err := svc.GetByID(ctx, id)

	assert.Nil(t, order)
	require.Error(t, err)
	var domainErr *model.DomainError
	assert.False(t, errors.As(err, &domainErr))
}
