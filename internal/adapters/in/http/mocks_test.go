package http_test

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/vendor"

	"github.com/stretchr/testify/mock"
)

type MockPlacer struct{ mock.Mock }

func (m *MockPlacer) Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (commands.PlaceOrderResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.PlaceOrderResult), args.Error(1)
}

type MockConfirmer struct{ mock.Mock }

func (m *MockConfirmer) Handle(ctx context.Context, cmd commands.ConfirmItemCommand) (commands.ConfirmItemResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ConfirmItemResult), args.Error(1)
}

type MockCanceller struct{ mock.Mock }

func (m *MockCanceller) Handle(ctx context.Context, cmd commands.CancelItemCommand) (commands.ItemTransitionResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ItemTransitionResult), args.Error(1)
}

type MockDelivery struct{ mock.Mock }

func (m *MockDelivery) result(args mock.Arguments) (commands.AssignmentTransitionResult, error) {
	return args.Get(0).(commands.AssignmentTransitionResult), args.Error(1)
}

func (m *MockDelivery) Accept(ctx context.Context, cmd commands.AcceptAssignmentCommand) (commands.AssignmentTransitionResult, error) {
	return m.result(m.Called(ctx, cmd))
}

func (m *MockDelivery) PickUp(ctx context.Context, cmd commands.MarkPickedUpCommand) (commands.AssignmentTransitionResult, error) {
	return m.result(m.Called(ctx, cmd))
}

func (m *MockDelivery) StartDelivery(
	ctx context.Context,
	cmd commands.MarkOutForDeliveryCommand,
) (commands.AssignmentTransitionResult, error) {
	return m.result(m.Called(ctx, cmd))
}

func (m *MockDelivery) Deliver(ctx context.Context, cmd commands.MarkDeliveredCommand) (commands.AssignmentTransitionResult, error) {
	return m.result(m.Called(ctx, cmd))
}

func (m *MockDelivery) CancelDelivery(
	ctx context.Context,
	cmd commands.CancelDeliveryCommand,
) (commands.AssignmentTransitionResult, error) {
	return m.result(m.Called(ctx, cmd))
}

type MockPolicyUpdater struct{ mock.Mock }

func (m *MockPolicyUpdater) Handle(ctx context.Context, cmd commands.UpdateVendorPolicyCommand) (vendor.Policy, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(vendor.Policy), args.Error(1)
}

type MockItemStatus struct{ mock.Mock }

func (m *MockItemStatus) Handle(ctx context.Context, query queries.GetItemStatusQuery) (queries.ItemView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.ItemView), args.Error(1)
}
