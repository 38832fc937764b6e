package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/clock"
)

// AssignmentTransitionResult is returned by partner-side commands.
type AssignmentTransitionResult struct {
	Assignment *delivery.Assignment
	Outcome    kernel.Outcome
	// Reassignment is set after a partner cancellation, and after a delivery
	// that left items confirmed after pickup behind.
	Reassignment *ConfirmItemResult
}

// transitionFunc applies one assignment transition. It may also change items
// of the order; changed items are returned so they are stored.
type transitionFunc func(o *order.Order, a *delivery.Assignment, now time.Time) (kernel.Outcome, []*order.Item, error)

// DeliveryCommandHandler runs the partner-side transitions of the active
// assignment: accept, pickup, out for delivery, delivered and partner
// cancellation. Each runs in its own unit of work with compare-and-swap
// updates, and a wrong code leaves everything untouched.
type DeliveryCommandHandler struct {
	uowFactory LifecycleUoWFactory
	assigner   PartnerAssigner
	clock      clock.Clock
	logger     *slog.Logger
}

func NewDeliveryCommandHandler(
	uowFactory LifecycleUoWFactory,
	assigner PartnerAssigner,
	clk clock.Clock,
	logger *slog.Logger,
) DeliveryCommandHandler {
	return DeliveryCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
		clock:      clk,
		logger:     logger.With("component", "delivery"),
	}
}

func (h DeliveryCommandHandler) Accept(ctx context.Context, cmd AcceptAssignmentCommand) (AssignmentTransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignmentTransitionResult{}, err
	}
	return h.run(ctx, cmd.ItemID(), "accept",
		func(o *order.Order, a *delivery.Assignment, now time.Time) (kernel.Outcome, []*order.Item, error) {
			outcome, err := a.Accept(cmd.Actor(), itemRefs(o), now)
			return outcome, nil, err
		})
}

func (h DeliveryCommandHandler) PickUp(ctx context.Context, cmd MarkPickedUpCommand) (AssignmentTransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignmentTransitionResult{}, err
	}
	return h.run(ctx, cmd.ItemID(), "pick up",
		func(o *order.Order, a *delivery.Assignment, now time.Time) (kernel.Outcome, []*order.Item, error) {
			outcome, err := a.PickUp(cmd.Actor(), cmd.Code(), itemRefs(o), now)
			return outcome, nil, err
		})
}

func (h DeliveryCommandHandler) StartDelivery(
	ctx context.Context,
	cmd MarkOutForDeliveryCommand,
) (AssignmentTransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignmentTransitionResult{}, err
	}
	return h.run(ctx, cmd.ItemID(), "start delivery",
		func(o *order.Order, a *delivery.Assignment, now time.Time) (kernel.Outcome, []*order.Item, error) {
			outcome, err := a.StartDelivery(cmd.Actor(), refsOf(carriedItems(o, a)), now)
			return outcome, nil, err
		})
}

// Deliver completes the assignment and mirrors it onto the confirmed items it
// carried. Items confirmed after pickup stay confirmed and are handed to the
// next assignment right away.
func (h DeliveryCommandHandler) Deliver(ctx context.Context, cmd MarkDeliveredCommand) (AssignmentTransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignmentTransitionResult{}, err
	}
	var leftBehind int
	result, err := h.run(ctx, cmd.ItemID(), "deliver",
		func(o *order.Order, a *delivery.Assignment, now time.Time) (kernel.Outcome, []*order.Item, error) {
			outcome, err := a.Deliver(cmd.Actor(), cmd.Code(), now)
			if err != nil || !outcome.IsApplied() {
				return outcome, nil, err
			}
			carried := carriedItems(o, a)
			for _, item := range carried {
				if _, err = item.MarkDelivered(cmd.Actor(), a.ID(), a.PartnerID(), now); err != nil {
					return 0, nil, err
				}
			}
			leftBehind = len(o.ItemsWithStatus(order.Confirmed))
			return outcome, carried, nil
		})
	if err != nil || !result.Outcome.IsApplied() || leftBehind == 0 {
		return result, err
	}

	result.Reassignment = h.reassign(ctx, result.Assignment, "delivered, items confirmed after pickup await a partner")
	return result, nil
}

// CancelDelivery ends the partner's assignment and immediately tries to
// assign someone else. The cancellation stands even when reassignment fails.
func (h DeliveryCommandHandler) CancelDelivery(
	ctx context.Context,
	cmd CancelDeliveryCommand,
) (AssignmentTransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignmentTransitionResult{}, err
	}
	result, err := h.run(ctx, cmd.ItemID(), "cancel delivery",
		func(o *order.Order, a *delivery.Assignment, now time.Time) (kernel.Outcome, []*order.Item, error) {
			outcome, err := a.CancelByPartner(cmd.Actor(), cmd.Reason(), itemRefs(o), now)
			return outcome, nil, err
		})
	if err != nil || !result.Outcome.IsApplied() {
		return result, err
	}

	result.Reassignment = h.reassign(ctx, result.Assignment, "delivery cancelled, reassignment pending")
	return result, nil
}

// reassign makes one best-effort attempt to give the order of previous a new
// partner. Failures leave the order in the retry pool.
func (h DeliveryCommandHandler) reassign(ctx context.Context, previous *delivery.Assignment, pendingMsg string) *ConfirmItemResult {
	reassign := ConfirmItemResult{Outcome: kernel.OutcomeUnchanged}
	assignCmd, err := NewAssignPartnerCommand(previous.OrderID(), delivery.ModeRetry, kernel.SystemActor(), nil)
	if err == nil {
		var assigned AssignPartnerResult
		if assigned, err = h.assigner.Handle(ctx, assignCmd); err == nil {
			reassign.AssignmentState = AssignmentAssigned
			reassign.Assignment = assigned.Assignment
			return &reassign
		}
	}

	h.logger.WarnContext(ctx, pendingMsg,
		"order_id", previous.OrderID().String(),
		"assignment_id", previous.ID().String(),
		"error", err)
	reassign.AssignmentState = AssignmentPending
	reassign.AssignmentError = err
	return &reassign
}

func (h DeliveryCommandHandler) run(
	ctx context.Context,
	itemID kernel.UUID,
	action string,
	fn transitionFunc,
) (AssignmentTransitionResult, error) {
	var result AssignmentTransitionResult
	err := withConflictRetry(ctx, func(ctx context.Context) error {
		var err error
		result, err = h.apply(ctx, itemID, action, fn)
		return err
	})
	return result, err
}

func (h DeliveryCommandHandler) apply(
	ctx context.Context,
	itemID kernel.UUID,
	action string,
	fn transitionFunc,
) (AssignmentTransitionResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignmentTransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, a, err := activeAssignment(ctx, uow, itemID, action)
	if err != nil {
		return AssignmentTransitionResult{}, err
	}

	outcome, changed, err := fn(o, a, h.clock.Now())
	if err != nil {
		return AssignmentTransitionResult{}, err
	}
	if !outcome.IsApplied() {
		return AssignmentTransitionResult{Assignment: a, Outcome: outcome}, nil
	}

	if err = uow.AssignmentRepository().Update(ctx, a); err != nil {
		return AssignmentTransitionResult{}, err
	}
	for _, item := range changed {
		if err = uow.OrderRepository().UpdateItem(ctx, item); err != nil {
			return AssignmentTransitionResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignmentTransitionResult{}, err
	}

	return AssignmentTransitionResult{Assignment: a, Outcome: outcome}, nil
}
