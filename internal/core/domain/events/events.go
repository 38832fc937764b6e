// Package events defines the typed lifecycle events emitted by the fulfillment
// engine. Every successful transition records exactly one event per affected
// item; events reach the notification channel at least once, so consumers
// de-duplicate on NaturalKey.
package events

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Kind names a lifecycle transition.
type Kind string

const (
	OrderPlaced       Kind = "order_placed"
	OrderConfirmed    Kind = "order_confirmed"
	OrderRejected     Kind = "order_rejected"
	DeliveryAssigned  Kind = "delivery_assigned"
	DeliveryAccepted  Kind = "delivery_accepted"
	PickedUp          Kind = "picked_up"
	OutForDelivery    Kind = "out_for_delivery"
	Delivered         Kind = "delivered"
	Cancelled         Kind = "cancelled"
	DeliveryCancelled Kind = "delivery_cancelled"
)

// IsAssignmentScoped reports whether the kind belongs to a delivery assignment.
// An item can go through several assignments (after a partner cancels), so
// these kinds are keyed per assignment as well as per item.
func (k Kind) IsAssignmentScoped() bool {
	switch k {
	case DeliveryAssigned, DeliveryAccepted, PickedUp, OutForDelivery, DeliveryCancelled:
		return true
	default:
		return false
	}
}

// Event carries the minimal payload notification templates need.
type Event struct {
	ID           kernel.UUID
	Kind         Kind
	OrderID      kernel.UUID
	ItemID       kernel.UUID
	VendorID     kernel.UUID
	AssignmentID *kernel.UUID
	PartnerID    *kernel.UUID
	Actor        kernel.Actor
	Amount       string
	Reason       string
	OccurredAt   time.Time
}

// NaturalKey identifies the transition independently of delivery attempts:
// item id and kind, plus the assignment id for assignment-scoped kinds.
func (e Event) NaturalKey() string {
	key := e.ItemID.String() + ":" + string(e.Kind)
	if e.Kind.IsAssignmentScoped() && e.AssignmentID != nil {
		key += ":" + e.AssignmentID.String()
	}
	return key
}

// Recorder accumulates events raised by an aggregate until they are pulled
// by the unit of work on commit.
type Recorder struct {
	pending []Event
}

func (r *Recorder) Record(e Event) {
	if e.ID.Validate() != nil {
		e.ID = kernel.NewUUID()
	}
	r.pending = append(r.pending, e)
}

// PullEvents returns and clears the recorded events.
func (r *Recorder) PullEvents() []Event {
	out := r.pending
	r.pending = nil
	return out
}

// Source is implemented by aggregates that raise events.
type Source interface {
	PullEvents() []Event
}
