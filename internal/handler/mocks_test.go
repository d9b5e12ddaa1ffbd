package handler

import (
	"context"

	"mercadito/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCustomerOrderService is a mock implementation of service.CustomerOrderService.
type MockCustomerOrderService struct {
	mock.Mock
}

func (m *MockCustomerOrderService) Create(ctx context.Context, req *model.CustomerOrderRequest) (*model.CustomerOrder, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomerOrder), args.Error(1)
}

func (m *MockCustomerOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.CustomerOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomerOrder), args.Error(1)
}

func (m *MockCustomerOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CustomerOrderStatus, reason string, actorID *uuid.UUID) (*model.CustomerOrder, error) {
	args := m.Called(ctx, id, status, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomerOrder), args.Error(1)
}

func (m *MockCustomerOrderService) Cancel(ctx context.Context, id uuid.UUID, reason string, actorID *uuid.UUID) (*model.CustomerOrder, error) {
	args := m.Called(ctx, id, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomerOrder), args.Error(1)
}

// MockRestockOrderService is a mock implementation of service.RestockOrderService.
type MockRestockOrderService struct {
	mock.Mock
}

func (m *MockRestockOrderService) Create(ctx context.Context, req *model.RestockOrderRequest) (*model.RestockOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RestockOrderResponse), args.Error(1)
}

func (m *MockRestockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.RestockOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RestockOrder), args.Error(1)
}

func (m *MockRestockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.RestockOrderStatus, reason string, actorID *uuid.UUID) (*model.RestockOrder, error) {
	args := m.Called(ctx, id, status, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RestockOrder), args.Error(1)
}

func (m *MockRestockOrderService) Accept(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*model.RestockOrder, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RestockOrder), args.Error(1)
}

func (m *MockRestockOrderService) Reject(ctx context.Context, id uuid.UUID, reason string, actorID *uuid.UUID) (*model.RestockOrder, error) {
	args := m.Called(ctx, id, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RestockOrder), args.Error(1)
}

func (m *MockRestockOrderService) Cancel(ctx context.Context, id uuid.UUID, reason string, actorID *uuid.UUID) (*model.RestockOrder, error) {
	args := m.Called(ctx, id, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RestockOrder), args.Error(1)
}

func (m *MockRestockOrderService) ConfirmDelivery(ctx context.Context, id uuid.UUID, code string, actorID *uuid.UUID) (*model.RestockOrder, error) {
	args := m.Called(ctx, id, code, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RestockOrder), args.Error(1)
}

// MockGuard is a mock implementation of idempotency.Guard.
type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) Claim(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockGuard) Complete(ctx context.Context, key, orderID string) error {
	args := m.Called(ctx, key, orderID)
	return args.Error(0)
}

func (m *MockGuard) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
