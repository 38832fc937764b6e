package services

import (
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/order"
)

// DisplayStatus is the single status shown to customers and vendors. It is
// derived on every read and never stored.
type DisplayStatus string

const (
	DisplayPending            DisplayStatus = "pending"
	DisplayConfirmed          DisplayStatus = "confirmed"
	DisplayAssignedToDelivery DisplayStatus = "assigned_to_delivery"
	DisplayOutForDelivery     DisplayStatus = "out_for_delivery"
	DisplayDelivered          DisplayStatus = "delivered"
	DisplayCancelled          DisplayStatus = "cancelled"
)

// StatusProjector combines an item's stored status with the order's active
// assignment.
type StatusProjector struct{}

func NewStatusProjector() StatusProjector {
	return StatusProjector{}
}

// Project returns the display status. active may be nil; a cancelled
// assignment is ignored, and so is one that was picked up before the item
// was confirmed.
func (StatusProjector) Project(item *order.Item, active *delivery.Assignment) DisplayStatus {
	switch item.Status() {
	case order.Pending:
		return DisplayPending
	case order.Cancelled:
		return DisplayCancelled
	case order.Delivered:
		return DisplayDelivered
	}

	if active == nil || !active.IsActive() {
		return DisplayConfirmed
	}
	if at := item.ConfirmedAt(); at != nil && !active.Carries(*at) {
		return DisplayConfirmed
	}
	switch active.Status() {
	case delivery.Assigned, delivery.Accepted:
		return DisplayAssignedToDelivery
	case delivery.PickedUp, delivery.OutForDelivery:
		return DisplayOutForDelivery
	case delivery.Delivered:
		return DisplayDelivered
	default:
		return DisplayConfirmed
	}
}
