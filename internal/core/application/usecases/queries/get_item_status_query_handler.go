package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

// GetItemStatusQueryHandler reads outside any unit of work; the view may
// trail a concurrent transition by one write.
type GetItemStatusQueryHandler struct {
	orders      ports.OrderRepository
	assignments ports.AssignmentRepository
	policies    ports.PolicyRepository
	clock       clock.Clock
}

func NewGetItemStatusQueryHandler(
	orders ports.OrderRepository,
	assignments ports.AssignmentRepository,
	policies ports.PolicyRepository,
	clk clock.Clock,
) GetItemStatusQueryHandler {
	return GetItemStatusQueryHandler{orders: orders, assignments: assignments, policies: policies, clock: clk}
}

func (h GetItemStatusQueryHandler) Handle(ctx context.Context, query GetItemStatusQuery) (ItemView, error) {
	if err := query.Validate(); err != nil {
		return ItemView{}, err
	}

	o, err := h.orders.GetByItem(ctx, query.ItemID())
	if err != nil {
		return ItemView{}, err
	}
	item, err := o.Item(query.ItemID())
	if err != nil {
		return ItemView{}, err
	}

	active, err := activeOrNil(ctx, h.assignments, o.ID())
	if err != nil {
		return ItemView{}, err
	}
	policy, err := policyOrDefault(ctx, h.policies, item.VendorID())
	if err != nil {
		return ItemView{}, err
	}

	return newViewBuilder(h.clock.Now()).build(item, o, active, policy), nil
}

func activeOrNil(ctx context.Context, repo ports.AssignmentRepository, orderID kernel.UUID) (*delivery.Assignment, error) {
	a, err := repo.GetActiveByOrder(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return a, err
}

func policyOrDefault(ctx context.Context, repo ports.PolicyRepository, vendorID kernel.UUID) (vendor.Policy, error) {
	p, err := repo.Get(ctx, vendorID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return vendor.DefaultPolicy(vendorID), nil
	}
	return p, err
}
