package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
)

// OrderView is an order header with its item views.
type OrderView struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	Address    kernel.Address
	SlotID     *kernel.UUID
	Payment    order.PaymentStatus
	Total      kernel.Money
	CreatedAt  time.Time
	Items      []ItemView
}

type GetOrderQueryHandler struct {
	orders      ports.OrderRepository
	assignments ports.AssignmentRepository
	policies    ports.PolicyRepository
	clock       clock.Clock
}

func NewGetOrderQueryHandler(
	orders ports.OrderRepository,
	assignments ports.AssignmentRepository,
	policies ports.PolicyRepository,
	clk clock.Clock,
) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders, assignments: assignments, policies: policies, clock: clk}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return OrderView{}, err
	}
	active, err := activeOrNil(ctx, h.assignments, o.ID())
	if err != nil {
		return OrderView{}, err
	}

	items := o.Items()
	vendorIDs := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		vendorIDs = append(vendorIDs, item.VendorID())
	}
	policies, err := h.policies.GetMany(ctx, vendorIDs)
	if err != nil {
		return OrderView{}, err
	}

	view := OrderView{
		ID:         o.ID(),
		CustomerID: o.CustomerID(),
		Address:    o.Address(),
		SlotID:     o.SlotID(),
		Payment:    o.Payment(),
		Total:      o.Total(),
		CreatedAt:  o.CreatedAt(),
		Items:      make([]ItemView, 0, len(items)),
	}
	builder := newViewBuilder(h.clock.Now())
	for _, item := range items {
		policy, ok := policies[item.VendorID()]
		if !ok {
			policy = vendor.DefaultPolicy(item.VendorID())
		}
		view.Items = append(view.Items, builder.build(item, o, active, policy))
	}
	return view, nil
}
