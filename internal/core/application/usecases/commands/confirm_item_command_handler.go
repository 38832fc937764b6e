package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/clock"
)

// AssignmentState tells the caller of a confirmation what happened to delivery.
type AssignmentState string

const (
	// AssignmentNotAttempted: the confirmation was a no-op.
	AssignmentNotAttempted AssignmentState = "not_attempted"
	AssignmentAssigned     AssignmentState = "assigned"
	// AssignmentPending: confirmation succeeded but no partner could be
	// bound yet; the retry job will try again.
	AssignmentPending AssignmentState = "pending"
)

// ConfirmItemResult separates the committed confirmation from the
// best-effort assignment that follows it.
type ConfirmItemResult struct {
	Item            *order.Item
	Outcome         kernel.Outcome
	AssignmentState AssignmentState
	Assignment      *delivery.Assignment
	// AssignmentError explains AssignmentPending.
	AssignmentError error
}

// ConfirmItemCommandHandler confirms an item and then tries to assign a
// partner. The confirmation is committed before assignment starts, so an
// assignment failure never undoes it. Repeating the command is a no-op and
// does not attempt assignment again.
type ConfirmItemCommandHandler struct {
	uowFactory LifecycleUoWFactory
	assigner   PartnerAssigner
	clock      clock.Clock
	logger     *slog.Logger
}

func NewConfirmItemCommandHandler(
	uowFactory LifecycleUoWFactory,
	assigner PartnerAssigner,
	clk clock.Clock,
	logger *slog.Logger,
) ConfirmItemCommandHandler {
	return ConfirmItemCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
		clock:      clk,
		logger:     logger.With("component", "confirm-item"),
	}
}

func (h ConfirmItemCommandHandler) Handle(ctx context.Context, cmd ConfirmItemCommand) (ConfirmItemResult, error) {
	if err := cmd.Validate(); err != nil {
		return ConfirmItemResult{}, err
	}

	var result ConfirmItemResult
	err := withConflictRetry(ctx, func(ctx context.Context) error {
		var err error
		result, err = h.confirm(ctx, cmd)
		return err
	})
	if err != nil {
		return ConfirmItemResult{}, err
	}

	if !result.Outcome.IsApplied() {
		result.AssignmentState = AssignmentNotAttempted
		return result, nil
	}

	assignCmd, err := NewAssignPartnerCommand(result.Item.OrderID(), delivery.ModeAuto, cmd.Actor(), nil)
	if err != nil {
		return ConfirmItemResult{}, err
	}
	assigned, err := h.assigner.Handle(ctx, assignCmd)
	if err != nil {
		h.logger.WarnContext(ctx, "item confirmed, assignment pending",
			"item_id", result.Item.ID().String(),
			"order_id", result.Item.OrderID().String(),
			"error", err)
		result.AssignmentState = AssignmentPending
		result.AssignmentError = err
		return result, nil
	}

	result.AssignmentState = AssignmentAssigned
	result.Assignment = assigned.Assignment
	return result, nil
}

func (h ConfirmItemCommandHandler) confirm(ctx context.Context, cmd ConfirmItemCommand) (ConfirmItemResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ConfirmItemResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetByItem(ctx, cmd.ItemID())
	if err != nil {
		return ConfirmItemResult{}, err
	}
	item, err := o.Item(cmd.ItemID())
	if err != nil {
		return ConfirmItemResult{}, err
	}
	if err = checkVendorOwnsItem(cmd.Actor(), item, "confirm"); err != nil {
		return ConfirmItemResult{}, err
	}

	outcome, err := item.Confirm(cmd.Actor(), h.clock.Now())
	if err != nil {
		return ConfirmItemResult{}, err
	}
	if !outcome.IsApplied() {
		return ConfirmItemResult{Item: item, Outcome: outcome}, nil
	}

	if err = uow.OrderRepository().UpdateItem(ctx, item); err != nil {
		return ConfirmItemResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ConfirmItemResult{}, err
	}

	return ConfirmItemResult{Item: item, Outcome: outcome}, nil
}
