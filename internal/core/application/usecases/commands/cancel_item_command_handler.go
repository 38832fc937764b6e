package commands

import (
	"context"

	"fulfillment/internal/pkg/clock"
)

// CancelItemCommandHandler cancels an item. When no item of the order is
// left to deliver, the active assignment is withdrawn in the same transaction.
type CancelItemCommandHandler struct {
	uowFactory LifecycleUoWFactory
	clock      clock.Clock
}

func NewCancelItemCommandHandler(uowFactory LifecycleUoWFactory, clk clock.Clock) CancelItemCommandHandler {
	return CancelItemCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h CancelItemCommandHandler) Handle(ctx context.Context, cmd CancelItemCommand) (ItemTransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return ItemTransitionResult{}, err
	}

	var result ItemTransitionResult
	err := withConflictRetry(ctx, func(ctx context.Context) error {
		var err error
		result, err = h.cancel(ctx, cmd)
		return err
	})
	return result, err
}

func (h CancelItemCommandHandler) cancel(ctx context.Context, cmd CancelItemCommand) (ItemTransitionResult, error) {
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
	if err = checkCustomerOwnsOrder(cmd.Actor(), o, cmd.ItemID(), "cancel"); err != nil {
		return ItemTransitionResult{}, err
	}
	item, err := o.Item(cmd.ItemID())
	if err != nil {
		return ItemTransitionResult{}, err
	}

	now := h.clock.Now()
	outcome, err := item.Cancel(cmd.Actor(), cmd.Reason(), now)
	if err != nil {
		return ItemTransitionResult{}, err
	}
	if !outcome.IsApplied() {
		return ItemTransitionResult{Item: item, Outcome: outcome}, nil
	}

	if err = uow.OrderRepository().UpdateItem(ctx, item); err != nil {
		return ItemTransitionResult{}, err
	}
	if err = releaseFinishedAssignment(ctx, uow, o, "cancelled by customer", now); err != nil {
		return ItemTransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ItemTransitionResult{}, err
	}

	return ItemTransitionResult{Item: item, Outcome: outcome}, nil
}
