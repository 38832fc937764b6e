package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDeliveryHandler(m mockedUoW, assigner *MockAssigner) commands.DeliveryCommandHandler {
	return commands.NewDeliveryCommandHandler(lifecycleFactory{m.uow}, assigner, clock.NewFake(noon), discardLogger())
}

func expectActive(m mockedUoW, o *order.Order, itemID kernel.UUID, a *delivery.Assignment) {
	m.uow.On("Begin", mock.Anything).Return(nil).Once()
	m.orders.On("GetByItem", mock.Anything, itemID).Return(o, nil).Once()
	m.assignments.On("GetActiveByOrder", mock.Anything, o.ID()).Return(a, nil).Once()
}

func TestDeliveryCommandHandler_Accept(t *testing.T) {
	ctx := t.Context()
	m := newMockedUoW()
	o := confirmedOrder(t, spec("200", 1), spec("150", 2))
	partnerID := kernel.NewUUID()
	a := storedAssignment(t, o, partnerID, delivery.Assigned)

	expectActive(m, o, o.Items()[0].ID(), a)
	m.assignments.On("Update", mock.Anything, a).Return(nil).Once()
	m.uow.On("Commit", mock.Anything).Return(nil).Once()

	cmd, err := commands.NewAcceptAssignmentCommand(o.Items()[0].ID(), partnerActor(partnerID))
	require.NoError(t, err)

	result, err := newDeliveryHandler(m, &MockAssigner{}).Accept(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, kernel.OutcomeApplied, result.Outcome)
	assert.Equal(t, delivery.Accepted, result.Assignment.Status())
	accepted := a.PullEvents()
	require.Len(t, accepted, 2, "one event per confirmed item")
	for _, e := range accepted {
		assert.Equal(t, events.DeliveryAccepted, e.Kind)
	}
	m.assertExpectations(t)
}

func TestDeliveryCommandHandler_AcceptByOtherPartnerIsRefused(t *testing.T) {
	ctx := t.Context()
	m := newMockedUoW()
	o := confirmedOrder(t, spec("200", 1))
	a := storedAssignment(t, o, kernel.NewUUID(), delivery.Assigned)

	expectActive(m, o, o.Items()[0].ID(), a)

	cmd, err := commands.NewAcceptAssignmentCommand(o.Items()[0].ID(), partnerActor(kernel.NewUUID()))
	require.NoError(t, err)

	_, err = newDeliveryHandler(m, &MockAssigner{}).Accept(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
	m.assignments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeliveryCommandHandler_PickUpWithWrongCodeChangesNothing(t *testing.T) {
	ctx := t.Context()
	m := newMockedUoW()
	o := confirmedOrder(t, spec("200", 1))
	partnerID := kernel.NewUUID()
	a := storedAssignment(t, o, partnerID, delivery.Accepted)

	expectActive(m, o, o.Items()[0].ID(), a)

	cmd, err := commands.NewMarkPickedUpCommand(o.Items()[0].ID(), partnerActor(partnerID), "0000")
	require.NoError(t, err)

	_, err = newDeliveryHandler(m, &MockAssigner{}).PickUp(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrInvalidOtp)
	assert.Equal(t, delivery.Accepted, a.Status())
	assert.Empty(t, a.PullEvents())
	m.assignments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestDeliveryCommandHandler_PickUpWithRightCode(t *testing.T) {
	ctx := t.Context()
	m := newMockedUoW()
	o := confirmedOrder(t, spec("200", 1))
	partnerID := kernel.NewUUID()
	a := storedAssignment(t, o, partnerID, delivery.Accepted)

	expectActive(m, o, o.Items()[0].ID(), a)
	m.assignments.On("Update", mock.Anything, a).Return(nil).Once()
	m.uow.On("Commit", mock.Anything).Return(nil).Once()

	cmd, err := commands.NewMarkPickedUpCommand(o.Items()[0].ID(), partnerActor(partnerID), testCodes().Pickup.String())
	require.NoError(t, err)

	result, err := newDeliveryHandler(m, &MockAssigner{}).PickUp(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, delivery.PickedUp, result.Assignment.Status())
	m.assertExpectations(t)
}

func TestDeliveryCommandHandler_DeliverMirrorsOntoItems(t *testing.T) {
	ctx := t.Context()
	m := newMockedUoW()
	o := confirmedOrder(t, spec("200", 1), spec("150", 1))
	partnerID := kernel.NewUUID()
	a := storedAssignment(t, o, partnerID, delivery.OutForDelivery)

	expectActive(m, o, o.Items()[1].ID(), a)
	m.assignments.On("Update", mock.Anything, a).Return(nil).Once()
	m.orders.On("UpdateItem", mock.Anything, o.Items()[0]).Return(nil).Once()
	m.orders.On("UpdateItem", mock.Anything, o.Items()[1]).Return(nil).Once()
	m.uow.On("Commit", mock.Anything).Return(nil).Once()

	cmd, err := commands.NewMarkDeliveredCommand(o.Items()[1].ID(), partnerActor(partnerID), testCodes().Delivery.String())
	require.NoError(t, err)

	result, err := newDeliveryHandler(m, &MockAssigner{}).Deliver(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, delivery.Delivered, result.Assignment.Status())
	for _, item := range o.Items() {
		assert.Equal(t, order.Delivered, item.Status())
	}
	delivered := o.PullEvents()
	require.Len(t, delivered, 2)
	for _, e := range delivered {
		assert.Equal(t, events.Delivered, e.Kind)
		require.NotNil(t, e.AssignmentID)
		assert.Equal(t, a.ID(), *e.AssignmentID)
	}
	m.assertExpectations(t)
}

func TestDeliveryCommandHandler_DeliverLeavesLateItemsForTheNextPartner(t *testing.T) {
	ctx := t.Context()
	m := newMockedUoW()
	assigner := &MockAssigner{}
	o := storedOrder(t, spec("200", 1), spec("150", 1))
	early, late := o.Items()[0], o.Items()[1]
	for item, at := range map[*order.Item]time.Time{early: noon.Add(-50 * time.Minute), late: noon.Add(-20 * time.Minute)} {
		_, err := item.Confirm(vendorActor(), at)
		require.NoError(t, err)
		item.MarkPersisted(2)
	}
	o.PullEvents()
	partnerID := kernel.NewUUID()
	a := pickedUpBefore(t, o, partnerID, delivery.OutForDelivery, noon.Add(-40*time.Minute))
	next := storedAssignment(t, o, kernel.NewUUID(), delivery.Assigned)

	expectActive(m, o, early.ID(), a)
	m.assignments.On("Update", mock.Anything, a).Return(nil).Once()
	m.orders.On("UpdateItem", mock.Anything, early).Return(nil).Once()
	m.uow.On("Commit", mock.Anything).Return(nil).Once()
	assigner.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AssignPartnerCommand) bool {
		return cmd.OrderID().IsEqual(o.ID()) && cmd.Mode() == delivery.ModeRetry
	})).Return(commands.AssignPartnerResult{Assignment: next, Outcome: kernel.OutcomeApplied}, nil).Once()

	cmd, err := commands.NewMarkDeliveredCommand(early.ID(), partnerActor(partnerID), testCodes().Delivery.String())
	require.NoError(t, err)

	result, err := newDeliveryHandler(m, assigner).Deliver(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, delivery.Delivered, result.Assignment.Status())
	assert.Equal(t, order.Delivered, early.Status())
	assert.Equal(t, order.Confirmed, late.Status())
	require.NotNil(t, result.Reassignment)
	assert.Equal(t, commands.AssignmentAssigned, result.Reassignment.AssignmentState)
	assert.Same(t, next, result.Reassignment.Assignment)
	m.orders.AssertNotCalled(t, "UpdateItem", mock.Anything, late)
	m.assertExpectations(t)
	assigner.AssertExpectations(t)
}

func TestDeliveryCommandHandler_DeliverWithWrongCode(t *testing.T) {
	ctx := t.Context()
	m := newMockedUoW()
	o := confirmedOrder(t, spec("200", 1))
	partnerID := kernel.NewUUID()
	a := storedAssignment(t, o, partnerID, delivery.OutForDelivery)

	expectActive(m, o, o.Items()[0].ID(), a)

	cmd, err := commands.NewMarkDeliveredCommand(o.Items()[0].ID(), partnerActor(partnerID), "1234")
	require.NoError(t, err)

	_, err = newDeliveryHandler(m, &MockAssigner{}).Deliver(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrInvalidOtp)
	assert.Equal(t, order.Confirmed, o.Items()[0].Status())
	m.orders.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
}

func TestDeliveryCommandHandler_NoActiveAssignment(t *testing.T) {
	ctx := t.Context()
	m := newMockedUoW()
	o := confirmedOrder(t, spec("200", 1))

	m.uow.On("Begin", mock.Anything).Return(nil).Once()
	m.orders.On("GetByItem", mock.Anything, o.Items()[0].ID()).Return(o, nil).Once()
	m.assignments.On("GetActiveByOrder", mock.Anything, o.ID()).
		Return(nil, errs.NewObjectNotFoundError("active assignment", o.ID())).Once()

	cmd, err := commands.NewMarkOutForDeliveryCommand(o.Items()[0].ID(), partnerActor(kernel.NewUUID()))
	require.NoError(t, err)

	_, err = newDeliveryHandler(m, &MockAssigner{}).StartDelivery(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
}

func TestDeliveryCommandHandler_CancelDeliveryReassigns(t *testing.T) {
	ctx := t.Context()
	m := newMockedUoW()
	assigner := &MockAssigner{}
	o := confirmedOrder(t, spec("200", 1))
	partnerID := kernel.NewUUID()
	a := storedAssignment(t, o, partnerID, delivery.Accepted)
	next := storedAssignment(t, o, kernel.NewUUID(), delivery.Assigned)

	expectActive(m, o, o.Items()[0].ID(), a)
	m.assignments.On("Update", mock.Anything, a).Return(nil).Once()
	m.uow.On("Commit", mock.Anything).Return(nil).Once()
	assigner.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AssignPartnerCommand) bool {
		return cmd.OrderID().IsEqual(o.ID()) && cmd.Mode() == delivery.ModeRetry
	})).Return(commands.AssignPartnerResult{Assignment: next, Outcome: kernel.OutcomeApplied}, nil).Once()

	cmd, err := commands.NewCancelDeliveryCommand(o.Items()[0].ID(), partnerActor(partnerID), "bike broke down")
	require.NoError(t, err)

	result, err := newDeliveryHandler(m, assigner).CancelDelivery(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, delivery.Cancelled, result.Assignment.Status())
	assert.False(t, result.Assignment.IsActive())
	require.NotNil(t, result.Reassignment)
	assert.Equal(t, commands.AssignmentAssigned, result.Reassignment.AssignmentState)
	assert.Same(t, next, result.Reassignment.Assignment)
	assigner.AssertExpectations(t)
}

func TestDeliveryCommandHandler_CancelDeliveryStandsWhenReassignmentFails(t *testing.T) {
	ctx := t.Context()
	m := newMockedUoW()
	assigner := &MockAssigner{}
	o := confirmedOrder(t, spec("200", 1))
	partnerID := kernel.NewUUID()
	a := storedAssignment(t, o, partnerID, delivery.Assigned)

	expectActive(m, o, o.Items()[0].ID(), a)
	m.assignments.On("Update", mock.Anything, a).Return(nil).Once()
	m.uow.On("Commit", mock.Anything).Return(nil).Once()
	assigner.On("Handle", mock.Anything, mock.Anything).
		Return(commands.AssignPartnerResult{}, errs.ErrAssignmentUnavailable).Once()

	cmd, err := commands.NewCancelDeliveryCommand(o.Items()[0].ID(), partnerActor(partnerID), "")
	require.NoError(t, err)

	result, err := newDeliveryHandler(m, assigner).CancelDelivery(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, kernel.OutcomeApplied, result.Outcome)
	require.NotNil(t, result.Reassignment)
	assert.Equal(t, commands.AssignmentPending, result.Reassignment.AssignmentState)
	assert.ErrorIs(t, result.Reassignment.AssignmentError, errs.ErrAssignmentUnavailable)
}

func TestDeliveryCommandHandler_CancelAfterPickupIsRefused(t *testing.T) {
	ctx := t.Context()
	m := newMockedUoW()
	assigner := &MockAssigner{}
	o := confirmedOrder(t, spec("200", 1))
	partnerID := kernel.NewUUID()
	a := storedAssignment(t, o, partnerID, delivery.PickedUp)

	expectActive(m, o, o.Items()[0].ID(), a)

	cmd, err := commands.NewCancelDeliveryCommand(o.Items()[0].ID(), partnerActor(partnerID), "changed my mind")
	require.NoError(t, err)

	_, err = newDeliveryHandler(m, assigner).CancelDelivery(ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrPreconditionFailed)
	assigner.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestNewPartnerActionCommands_RejectCustomers(t *testing.T) {
	_, err := commands.NewAcceptAssignmentCommand(kernel.NewUUID(), customerActor())
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewMarkPickedUpCommand(kernel.NewUUID(), partnerActor(kernel.NewUUID()), " ")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewMarkDeliveredCommand(kernel.NewUUID(), partnerActor(kernel.NewUUID()), "")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
