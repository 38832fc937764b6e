package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/geo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
)

// PendingEntry is an item awaiting the vendor, with what the scheduler would
// do with it.
type PendingEntry struct {
	Item     ItemView
	Decision vendor.Decision
}

// PreparationGroup is a batch of confirmed items sharing a delivery slot.
// Slot is nil for orders placed without one.
type PreparationGroup struct {
	Slot     *geo.Slot
	Priority geo.Priority
	Items    []ItemView
}

type VendorQueue struct {
	VendorID    kernel.UUID
	Policy      vendor.Policy
	Pending     []PendingEntry
	Preparation []PreparationGroup
}

type GetVendorQueueQueryHandler struct {
	orders      ports.OrderRepository
	assignments ports.AssignmentRepository
	policies    ports.PolicyRepository
	directory   ports.GeoDirectory
	planner     services.SlotPlanner
	clock       clock.Clock
}

func NewGetVendorQueueQueryHandler(
	orders ports.OrderRepository,
	assignments ports.AssignmentRepository,
	policies ports.PolicyRepository,
	directory ports.GeoDirectory,
	clk clock.Clock,
) GetVendorQueueQueryHandler {
	return GetVendorQueueQueryHandler{
		orders:      orders,
		assignments: assignments,
		policies:    policies,
		directory:   directory,
		planner:     services.NewSlotPlanner(),
		clock:       clk,
	}
}

func (h GetVendorQueueQueryHandler) Handle(ctx context.Context, query GetVendorQueueQuery) (VendorQueue, error) {
	if err := query.Validate(); err != nil {
		return VendorQueue{}, err
	}

	policy, err := policyOrDefault(ctx, h.policies, query.VendorID())
	if err != nil {
		return VendorQueue{}, err
	}

	items, err := h.orders.ListVendorItems(ctx, query.VendorID(), order.Pending, order.Confirmed)
	if err != nil {
		return VendorQueue{}, err
	}

	now := h.clock.Now()
	builder := newViewBuilder(now)
	queue := VendorQueue{
		VendorID:    query.VendorID(),
		Policy:      policy,
		Pending:     make([]PendingEntry, 0),
		Preparation: make([]PreparationGroup, 0),
	}

	var confirmed []*order.Item
	for _, item := range items {
		if item.Status() != order.Pending {
			confirmed = append(confirmed, item)
			continue
		}
		queue.Pending = append(queue.Pending, PendingEntry{
			Item:     builder.build(item, nil, nil, policy),
			Decision: policy.Evaluate(item.LineTotal(), now),
		})
	}
	if len(confirmed) == 0 {
		return queue, nil
	}

	queue.Preparation, err = h.prepare(ctx, confirmed, builder, policy)
	if err != nil {
		return VendorQueue{}, err
	}
	return queue, nil
}

func (h GetVendorQueueQueryHandler) prepare(
	ctx context.Context,
	items []*order.Item,
	builder viewBuilder,
	policy vendor.Policy,
) ([]PreparationGroup, error) {
	orders := make(map[kernel.UUID]*order.Order)
	orderIDs := make([]kernel.UUID, 0)
	for _, item := range items {
		if _, ok := orders[item.OrderID()]; ok {
			continue
		}
		o, err := h.orders.Get(ctx, item.OrderID())
		if err != nil {
			return nil, err
		}
		orders[o.ID()] = o
		orderIDs = append(orderIDs, o.ID())
	}

	active, err := h.assignments.ListActiveByOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	activeByOrder := make(map[kernel.UUID]*delivery.Assignment, len(active))
	for _, a := range active {
		activeByOrder[a.OrderID()] = a
	}

	slotIDs := make([]kernel.UUID, 0)
	for _, o := range orders {
		if id := o.SlotID(); id != nil {
			slotIDs = append(slotIDs, *id)
		}
	}
	slots, err := h.directory.ListSlots(ctx, slotIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]services.PlanEntry, 0, len(items))
	views := make(map[kernel.UUID]ItemView, len(items))
	for _, item := range items {
		o := orders[item.OrderID()]
		entry := services.PlanEntry{Item: item}
		if id := o.SlotID(); id != nil {
			if slot, ok := slots[*id]; ok {
				entry.Slot = &slot
			}
		}
		entries = append(entries, entry)
		views[item.ID()] = builder.build(item, o, activeByOrder[o.ID()], policy)
	}

	plan := h.planner.Plan(entries)
	groups := make([]PreparationGroup, 0, len(plan))
	for _, g := range plan {
		group := PreparationGroup{Slot: g.Slot, Priority: g.Priority, Items: make([]ItemView, 0, len(g.Items))}
		for _, item := range g.Items {
			group.Items = append(group.Items, views[item.ID()])
		}
		groups = append(groups, group)
	}
	return groups, nil
}
