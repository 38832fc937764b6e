package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

// PlaceOrderResult identifies what was stored.
type PlaceOrderResult struct {
	OrderID kernel.UUID
	ItemIDs []kernel.UUID
	Total   kernel.Money
}

// PlaceOrderCommandHandler stores a new order with every item pending. The
// order_placed events are written to the outbox in the same transaction.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      clock.Clock
}

func NewPlaceOrderCommandHandler(uowFactory OrderUoWFactory, clk clock.Clock) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (PlaceOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return PlaceOrderResult{}, err
	}

	o, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.Address(),
		cmd.SlotID(),
		cmd.Payment(),
		cmd.Items(),
		h.clock.Now(),
	)
	if err != nil {
		return PlaceOrderResult{}, err
	}
	if declared := cmd.DeclaredTotal(); declared != nil && !declared.IsEqual(o.Total()) {
		return PlaceOrderResult{}, errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("declared %s but items sum to %s", declared, o.Total()))
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return PlaceOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return PlaceOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PlaceOrderResult{}, err
	}

	result := PlaceOrderResult{OrderID: o.ID(), Total: o.Total()}
	for _, item := range o.Items() {
		result.ItemIDs = append(result.ItemIDs, item.ID())
	}
	return result, nil
}
