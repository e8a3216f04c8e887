package commands_test

import (
	"context"
	"time"

	"orderledger/internal/core/application/usecases/commands"
	"orderledger/internal/core/domain/model/kernel"
	"orderledger/internal/core/domain/model/order"
	"orderledger/internal/core/domain/model/timeline"
	"orderledger/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListCompletedWithoutContribution(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if orders, ok := args.Get(0).([]*order.Order); ok {
		return orders, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListSLADue(
	ctx context.Context,
	status order.Status,
	enteredBefore time.Time,
	escalations, limit int,
) ([]*order.Order, error) {
	args := m.Called(ctx, status, enteredBefore, escalations, limit)
	if orders, ok := args.Get(0).([]*order.Order); ok {
		return orders, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTimelineRepository struct{ mock.Mock }

func (m *MockTimelineRepository) Append(ctx context.Context, event *timeline.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockTimelineRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*timeline.Event, error) {
	args := m.Called(ctx, orderID)
	if events, ok := args.Get(0).([]*timeline.Event); ok {
		return events, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockOrderUoW) TimelineRepository() ports.TimelineRepository {
	args := m.Called()
	return args.Get(0).(ports.TimelineRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}
