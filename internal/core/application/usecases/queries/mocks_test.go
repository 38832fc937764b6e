package queries_test

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/geo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// MockOrderRepository implements only the reads queries perform.
type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(context.Context, *order.Order) error { panic("not used by queries") }

func (m *MockOrderRepository) UpdateItem(context.Context, *order.Item) error {
	panic("not used by queries")
}

func (m *MockOrderRepository) ListPendingItems(context.Context, ports.PageCursor, int) ([]*order.Item, error) {
	panic("not used by queries")
}

func (m *MockOrderRepository) ListAwaitingAssignment(context.Context, ports.PageCursor, int) ([]ports.OrderRef, error) {
	panic("not used by queries")
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByItem(ctx context.Context, itemID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListVendorItems(
	ctx context.Context,
	vendorID kernel.UUID,
	statuses ...order.ItemStatus,
) ([]*order.Item, error) {
	args := m.Called(ctx, vendorID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Item), args.Error(1)
}

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Add(context.Context, *delivery.Assignment) error {
	panic("not used by queries")
}

func (m *MockAssignmentRepository) Update(context.Context, *delivery.Assignment) error {
	panic("not used by queries")
}

func (m *MockAssignmentRepository) Get(context.Context, kernel.UUID) (*delivery.Assignment, error) {
	panic("not used by queries")
}

func (m *MockAssignmentRepository) ListByOrder(context.Context, kernel.UUID) ([]*delivery.Assignment, error) {
	panic("not used by queries")
}

func (m *MockAssignmentRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Assignment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListActiveByOrders(
	ctx context.Context,
	orderIDs []kernel.UUID,
) ([]*delivery.Assignment, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Assignment), args.Error(1)
}

type MockPolicyRepository struct{ mock.Mock }

func (m *MockPolicyRepository) Get(ctx context.Context, vendorID kernel.UUID) (vendor.Policy, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).(vendor.Policy), args.Error(1)
}

func (m *MockPolicyRepository) GetMany(ctx context.Context, vendorIDs []kernel.UUID) (map[kernel.UUID]vendor.Policy, error) {
	args := m.Called(ctx, vendorIDs)
	return args.Get(0).(map[kernel.UUID]vendor.Policy), args.Error(1)
}

func (m *MockPolicyRepository) Save(context.Context, vendor.Policy) (int64, error) {
	panic("not used by queries")
}

type MockGeoDirectory struct{ mock.Mock }

func (m *MockGeoDirectory) ResolveSector(context.Context, kernel.Pincode) (geo.Sector, error) {
	panic("not used by queries")
}

func (m *MockGeoDirectory) GetSlot(context.Context, kernel.UUID) (geo.Slot, error) {
	panic("not used by queries")
}

func (m *MockGeoDirectory) ListSlots(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]geo.Slot, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[kernel.UUID]geo.Slot), args.Error(1)
}
