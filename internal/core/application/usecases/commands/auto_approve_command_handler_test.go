package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func capPolicy(amount string) vendor.Policy {
	limit := kernel.MustMoney(amount)
	return vendor.Policy{
		VendorID:         vendorID,
		AutoApprove:      true,
		TimeoutMinutes:   vendor.DefaultTimeoutMinutes,
		AutoApproveUnder: &limit,
		Version:          1,
	}
}

func confirmedBy(item *order.Item) any {
	return mock.MatchedBy(func(cmd commands.ConfirmItemCommand) bool {
		return cmd.ItemID().IsEqual(item.ID()) && cmd.Actor().Role == kernel.RoleSystem
	})
}

func TestAutoApproveCommandHandler_ConfirmsItemsUnderCap(t *testing.T) {
	ctx := t.Context()
	m := newMockedUoW()
	confirmer := &MockConfirmer{}
	o := storedOrder(t, spec("450", 1), spec("900", 1), spec("500", 1))
	cheap, pricey, atCap := o.Items()[0], o.Items()[1], o.Items()[2]

	m.uow.On("Begin", mock.Anything).Return(nil).Once()
	m.orders.On("ListPendingItems", mock.Anything, ports.PageCursor{}, 50).Return(o.Items(), nil).Once()
	m.policies.On("GetMany", mock.Anything, mock.Anything).
		Return(map[kernel.UUID]vendor.Policy{vendorID: capPolicy("500")}, nil).Once()
	confirmer.On("Handle", mock.Anything, confirmedBy(cheap)).
		Return(commands.ConfirmItemResult{Outcome: kernel.OutcomeApplied, AssignmentState: commands.AssignmentAssigned}, nil).Once()
	confirmer.On("Handle", mock.Anything, confirmedBy(atCap)).
		Return(commands.ConfirmItemResult{Outcome: kernel.OutcomeApplied, AssignmentState: commands.AssignmentPending}, nil).Once()

	cmd, err := commands.NewAutoApproveCommand(50)
	require.NoError(t, err)

	report, err := commands.NewAutoApproveCommandHandler(
		lifecyclePolicyFactory{m.uow}, confirmer, clock.NewFake(noon), discardLogger(),
	).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Confirmed)
	assert.Equal(t, 1, report.AssignmentPending)
	assert.Equal(t, 1, report.Skipped[vendor.SkipOverAmountCap])
	confirmer.AssertNotCalled(t, "Handle", mock.Anything, confirmedBy(pricey))
	confirmer.AssertExpectations(t)
	m.assertExpectations(t)
}

func TestAutoApproveCommandHandler_VendorWithoutPolicyIsSkipped(t *testing.T) {
	m := newMockedUoW()
	confirmer := &MockConfirmer{}
	o := storedOrder(t, spec("100", 1))

	m.uow.On("Begin", mock.Anything).Return(nil).Once()
	m.orders.On("ListPendingItems", mock.Anything, ports.PageCursor{}, 10).Return(o.Items(), nil).Once()
	m.policies.On("GetMany", mock.Anything, mock.Anything).Return(map[kernel.UUID]vendor.Policy{}, nil).Once()

	cmd, err := commands.NewAutoApproveCommand(10)
	require.NoError(t, err)

	report, err := commands.NewAutoApproveCommandHandler(
		lifecyclePolicyFactory{m.uow}, confirmer, clock.NewFake(noon), discardLogger(),
	).Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped[vendor.SkipAutoApproveDisabled])
	confirmer.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestAutoApproveCommandHandler_OutsideBusinessHours(t *testing.T) {
	m := newMockedUoW()
	confirmer := &MockConfirmer{}
	o := storedOrder(t, spec("100", 1))
	policy := capPolicy("500")
	policy.BusinessHoursOnly = true
	policy.BusinessHours = kernel.Window{Start: kernel.MustTimeOfDay("18:00"), End: kernel.MustTimeOfDay("23:00")}

	m.uow.On("Begin", mock.Anything).Return(nil).Once()
	m.orders.On("ListPendingItems", mock.Anything, ports.PageCursor{}, 10).Return(o.Items(), nil).Once()
	m.policies.On("GetMany", mock.Anything, mock.Anything).
		Return(map[kernel.UUID]vendor.Policy{vendorID: policy}, nil).Once()

	cmd, err := commands.NewAutoApproveCommand(10)
	require.NoError(t, err)

	report, err := commands.NewAutoApproveCommandHandler(
		lifecyclePolicyFactory{m.uow}, confirmer, clock.NewFake(noon), discardLogger(),
	).Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped[vendor.SkipOutsideBusinessHours])
	assert.Zero(t, report.Confirmed)
}

func TestAutoApproveCommandHandler_RacesAndFailuresDoNotStopTheTick(t *testing.T) {
	m := newMockedUoW()
	confirmer := &MockConfirmer{}
	o := storedOrder(t, spec("100", 1), spec("120", 1), spec("140", 1), spec("160", 1))
	items := o.Items()

	m.uow.On("Begin", mock.Anything).Return(nil).Once()
	m.orders.On("ListPendingItems", mock.Anything, ports.PageCursor{}, 10).Return(items, nil).Once()
	m.policies.On("GetMany", mock.Anything, mock.Anything).
		Return(map[kernel.UUID]vendor.Policy{vendorID: capPolicy("500")}, nil).Once()
	confirmer.On("Handle", mock.Anything, confirmedBy(items[0])).
		Return(commands.ConfirmItemResult{}, errs.NewPreconditionFailedError("item", items[0].ID(), "cancelled", "confirm")).Once()
	confirmer.On("Handle", mock.Anything, confirmedBy(items[1])).
		Return(commands.ConfirmItemResult{Outcome: kernel.OutcomeUnchanged}, nil).Once()
	confirmer.On("Handle", mock.Anything, confirmedBy(items[2])).
		Return(commands.ConfirmItemResult{}, errors.New("connection reset")).Once()
	confirmer.On("Handle", mock.Anything, confirmedBy(items[3])).
		Return(commands.ConfirmItemResult{Outcome: kernel.OutcomeApplied, AssignmentState: commands.AssignmentAssigned}, nil).Once()

	cmd, err := commands.NewAutoApproveCommand(10)
	require.NoError(t, err)

	report, err := commands.NewAutoApproveCommandHandler(
		lifecyclePolicyFactory{m.uow}, confirmer, clock.NewFake(noon), discardLogger(),
	).Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, 4, report.Scanned)
	assert.Equal(t, 2, report.Raced)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Confirmed)
	confirmer.AssertExpectations(t)
}

func TestAutoApproveCommandHandler_PagesPastIneligibleItems(t *testing.T) {
	m := newMockedUoW()
	confirmer := &MockConfirmer{}
	unmanaged := spec("100", 1)
	unmanaged.VendorID = kernel.NewUUID()
	other := spec("100", 1)
	other.VendorID = unmanaged.VendorID
	o := storedOrder(t, unmanaged, other, spec("450", 1))
	items := o.Items()
	firstPage, secondPage := items[:2], items[2:]

	m.uow.On("Begin", mock.Anything).Return(nil).Twice()
	m.orders.On("ListPendingItems", mock.Anything, ports.PageCursor{}, 2).Return(firstPage, nil).Once()
	m.orders.On("ListPendingItems", mock.Anything, ports.ItemCursor(firstPage[1]), 2).Return(secondPage, nil).Once()
	m.policies.On("GetMany", mock.Anything, mock.Anything).
		Return(map[kernel.UUID]vendor.Policy{vendorID: capPolicy("500")}, nil).Twice()
	confirmer.On("Handle", mock.Anything, confirmedBy(items[2])).
		Return(commands.ConfirmItemResult{Outcome: kernel.OutcomeApplied, AssignmentState: commands.AssignmentAssigned}, nil).Once()

	cmd, err := commands.NewAutoApproveCommand(2)
	require.NoError(t, err)

	report, err := commands.NewAutoApproveCommandHandler(
		lifecyclePolicyFactory{m.uow}, confirmer, clock.NewFake(noon), discardLogger(),
	).Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Skipped[vendor.SkipAutoApproveDisabled])
	assert.Equal(t, 1, report.Confirmed)
	confirmer.AssertExpectations(t)
	m.assertExpectations(t)
}

func TestAutoApproveCommandHandler_NothingPending(t *testing.T) {
	m := newMockedUoW()
	m.uow.On("Begin", mock.Anything).Return(nil).Once()
	m.orders.On("ListPendingItems", mock.Anything, ports.PageCursor{}, 10).Return([]*order.Item{}, nil).Once()

	cmd, err := commands.NewAutoApproveCommand(10)
	require.NoError(t, err)

	report, err := commands.NewAutoApproveCommandHandler(
		lifecyclePolicyFactory{m.uow}, &MockConfirmer{}, clock.NewFake(noon), discardLogger(),
	).Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Zero(t, report.Scanned)
	m.policies.AssertNotCalled(t, "GetMany", mock.Anything, mock.Anything)
}

func TestNewAutoApproveCommand_RejectsNonPositiveBatch(t *testing.T) {
	_, err := commands.NewAutoApproveCommand(0)

	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
