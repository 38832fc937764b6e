package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// conflictAttempts bounds how often a handler re-reads state after losing a
// compare-and-swap. The second attempt sees the winner's write and resolves
// to a no-op or a precondition failure.
const conflictAttempts = 2

func withConflictRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for range conflictAttempts {
		if err = fn(ctx); !errors.Is(err, errs.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

// checkVendorOwnsItem rejects a vendor acting on another vendor's item.
func checkVendorOwnsItem(actor kernel.Actor, item *order.Item, action string) error {
	if actor.Role != kernel.RoleVendor || actor.ID == item.VendorID().String() {
		return nil
	}
	return errs.NewPreconditionFailedError("item", item.ID(),
		fmt.Sprintf("owned by vendor %s", item.VendorID()), action+" as vendor "+actor.ID)
}

// checkCustomerOwnsOrder rejects a customer acting on another customer's order.
func checkCustomerOwnsOrder(actor kernel.Actor, o *order.Order, itemID kernel.UUID, action string) error {
	if actor.Role != kernel.RoleCustomer || actor.ID == o.CustomerID().String() {
		return nil
	}
	return errs.NewPreconditionFailedError("item", itemID, "placed by another customer", action)
}

// itemRefs lists the confirmed items an assignment event should mention.
func itemRefs(o *order.Order) []delivery.ItemRef {
	return refsOf(o.ItemsWithStatus(order.Confirmed))
}

// carriedItems lists the confirmed items that travel with a. Items confirmed
// after pickup wait for the next assignment.
func carriedItems(o *order.Order, a *delivery.Assignment) []*order.Item {
	var carried []*order.Item
	for _, item := range o.ItemsWithStatus(order.Confirmed) {
		if at := item.ConfirmedAt(); at == nil || a.Carries(*at) {
			carried = append(carried, item)
		}
	}
	return carried
}

func refsOf(items []*order.Item) []delivery.ItemRef {
	refs := make([]delivery.ItemRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, delivery.ItemRef{ItemID: item.ID(), VendorID: item.VendorID()})
	}
	return refs
}

// activeAssignment loads the active assignment of the order owning itemID.
func activeAssignment(
	ctx context.Context,
	uow LifecycleUoW,
	itemID kernel.UUID,
	action string,
) (*order.Order, *delivery.Assignment, error) {
	o, err := uow.OrderRepository().GetByItem(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	a, err := uow.AssignmentRepository().GetActiveByOrder(ctx, o.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil, errs.NewPreconditionFailedError("item", itemID, "not assigned to a partner", action)
	}
	if err != nil {
		return nil, nil, err
	}
	return o, a, nil
}

// releaseFinishedAssignment withdraws the active assignment once no item of
// the order needs delivery any more.
func releaseFinishedAssignment(ctx context.Context, uow LifecycleUoW, o *order.Order, reason string, now time.Time) error {
	if o.HasLiveItems() {
		return nil
	}
	a, err := uow.AssignmentRepository().GetActiveByOrder(ctx, o.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if a.Status() == delivery.Delivered {
		return nil
	}
	outcome, err := a.Withdraw(reason, now)
	if err != nil {
		return err
	}
	if !outcome.IsApplied() {
		return nil
	}
	return uow.AssignmentRepository().Update(ctx, a)
}
