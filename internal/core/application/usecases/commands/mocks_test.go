package commands_test

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/geo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
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

func (m *MockOrderRepository) UpdateItem(ctx context.Context, item *order.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockOrderRepository) ListPendingItems(ctx context.Context, after ports.PageCursor, limit int) ([]*order.Item, error) {
	args := m.Called(ctx, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Item), args.Error(1)
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

func (m *MockOrderRepository) ListAwaitingAssignment(ctx context.Context, after ports.PageCursor, limit int) ([]ports.OrderRef, error) {
	args := m.Called(ctx, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.OrderRef), args.Error(1)
}

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Add(ctx context.Context, a *delivery.Assignment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, a *delivery.Assignment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Assignment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*delivery.Assignment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Assignment), args.Error(1)
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

type MockPartnerRepository struct{ mock.Mock }

func (m *MockPartnerRepository) Add(ctx context.Context, p *delivery.Partner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartnerRepository) Update(ctx context.Context, p *delivery.Partner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Partner), args.Error(1)
}

func (m *MockPartnerRepository) ListCandidates(ctx context.Context, slotID *kernel.UUID) ([]services.Candidate, error) {
	args := m.Called(ctx, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.Candidate), args.Error(1)
}

type MockPolicyRepository struct{ mock.Mock }

func (m *MockPolicyRepository) Get(ctx context.Context, vendorID kernel.UUID) (vendor.Policy, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).(vendor.Policy), args.Error(1)
}

func (m *MockPolicyRepository) GetMany(ctx context.Context, vendorIDs []kernel.UUID) (map[kernel.UUID]vendor.Policy, error) {
	args := m.Called(ctx, vendorIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]vendor.Policy), args.Error(1)
}

func (m *MockPolicyRepository) Save(ctx context.Context, policy vendor.Policy) (int64, error) {
	args := m.Called(ctx, policy)
	return args.Get(0).(int64), args.Error(1)
}

// MockUoW satisfies every unit of work shape the handlers ask for.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) AssignmentRepository() ports.AssignmentRepository {
	return m.Called().Get(0).(ports.AssignmentRepository)
}

func (m *MockUoW) PartnerRepository() ports.PartnerRepository {
	return m.Called().Get(0).(ports.PartnerRepository)
}

func (m *MockUoW) PolicyRepository() ports.PolicyRepository {
	return m.Called().Get(0).(ports.PolicyRepository)
}

// uowFactory hands out the same MockUoW for every shape.
type uowFactory struct{ uow *MockUoW }

type (
	orderFactory           uowFactory
	lifecycleFactory       uowFactory
	assignmentFactory      uowFactory
	partnerFactory         uowFactory
	policyFactory          uowFactory
	lifecyclePolicyFactory uowFactory
)

func (f orderFactory) Create() commands.OrderUoW { return f.uow }
func (f lifecycleFactory) Create() commands.LifecycleUoW { return f.uow }
func (f assignmentFactory) Create() commands.AssignmentUoW { return f.uow }
func (f partnerFactory) Create() commands.PartnerUoW { return f.uow }
func (f policyFactory) Create() commands.PolicyUoW { return f.uow }
func (f lifecyclePolicyFactory) Create() commands.LifecyclePolicyUoW { return f.uow }

type MockGeoDirectory struct{ mock.Mock }

func (m *MockGeoDirectory) ResolveSector(ctx context.Context, pincode kernel.Pincode) (geo.Sector, error) {
	args := m.Called(ctx, pincode)
	return args.Get(0).(geo.Sector), args.Error(1)
}

func (m *MockGeoDirectory) GetSlot(ctx context.Context, id kernel.UUID) (geo.Slot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(geo.Slot), args.Error(1)
}

func (m *MockGeoDirectory) ListSlots(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]geo.Slot, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]geo.Slot), args.Error(1)
}

type MockCodeIssuer struct{ mock.Mock }

func (m *MockCodeIssuer) Issue(ctx context.Context) (delivery.Codes, error) {
	args := m.Called(ctx)
	return args.Get(0).(delivery.Codes), args.Error(1)
}

type MockAssigner struct{ mock.Mock }

func (m *MockAssigner) Handle(ctx context.Context, cmd commands.AssignPartnerCommand) (commands.AssignPartnerResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.AssignPartnerResult), args.Error(1)
}

type MockConfirmer struct{ mock.Mock }

func (m *MockConfirmer) Handle(ctx context.Context, cmd commands.ConfirmItemCommand) (commands.ConfirmItemResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ConfirmItemResult), args.Error(1)
}

type MockRetrier struct{ mock.Mock }

func (m *MockRetrier) Handle(ctx context.Context, cmd commands.RetryAssignmentsCommand) (commands.RetryReport, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.RetryReport), args.Error(1)
}
