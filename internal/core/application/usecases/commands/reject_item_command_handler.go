package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/clock"
)

// ItemTransitionResult is returned by item-level commands without follow-up work.
type ItemTransitionResult struct {
	Item    *order.Item
	Outcome kernel.Outcome
}

// RejectItemCommandHandler cancels a pending item on the vendor's behalf.
// No assignment is ever created for a rejected item.
type RejectItemCommandHandler struct {
	uowFactory LifecycleUoWFactory
	clock      clock.Clock
}

func NewRejectItemCommandHandler(uowFactory LifecycleUoWFactory, clk clock.Clock) RejectItemCommandHandler {
	return RejectItemCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h RejectItemCommandHandler) Handle(ctx context.Context, cmd RejectItemCommand) (ItemTransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return ItemTransitionResult{}, err
	}

	var result ItemTransitionResult
	err := withConflictRetry(ctx, func(ctx context.Context) error {
		var err error
		result, err = h.reject(ctx, cmd)
		return err
	})
	return result, err
}

func (h RejectItemCommandHandler) reject(ctx context.Context, cmd RejectItemCommand) (ItemTransitionResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ItemTransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetByItem(ctx, cmd.ItemID())
	if err != nil {
		return ItemTransitionResult{}, err
	}
	item, err := o.Item(cmd.ItemID())
	if err != nil {
		return ItemTransitionResult{}, err
	}
	if err = checkVendorOwnsItem(cmd.Actor(), item, "reject"); err != nil {
		return ItemTransitionResult{}, err
	}

	now := h.clock.Now()
	outcome, err := item.Reject(cmd.Actor(), cmd.Reason(), now)
	if err != nil {
		return ItemTransitionResult{}, err
	}
	if !outcome.IsApplied() {
		return ItemTransitionResult{Item: item, Outcome: outcome}, nil
	}

	if err = uow.OrderRepository().UpdateItem(ctx, item); err != nil {
		return ItemTransitionResult{}, err
	}
	if err = releaseFinishedAssignment(ctx, uow, o, "all items closed", now); err != nil {
		return ItemTransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ItemTransitionResult{}, err
	}

	return ItemTransitionResult{Item: item, Outcome: outcome}, nil
}
