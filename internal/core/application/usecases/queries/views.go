package queries

import (
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/domain/services"
)

// ItemView is the read shape of a line item. CurrentStatus, MinutesRemaining
// and Urgent are derived from stored timestamps on every read.
type ItemView struct {
	ID            kernel.UUID
	OrderID       kernel.UUID
	VendorID      kernel.UUID
	Product       order.Product
	Quantity      int
	UnitPrice     kernel.Money
	LineTotal     kernel.Money
	Notes         string
	Status        order.ItemStatus
	CurrentStatus services.DisplayStatus
	CancelReason  string
	CreatedAt     time.Time
	ConfirmedAt   *time.Time
	CancelledAt   *time.Time
	DeliveredAt   *time.Time

	// MinutesRemaining is set for pending items only.
	MinutesRemaining *int
	Urgent           bool
	Assignment       *AssignmentView
	// Warning is an actionable hint for the vendor, empty when all is well.
	Warning string
}

// AssignmentView omits the pickup and delivery codes.
type AssignmentView struct {
	ID         kernel.UUID
	PartnerID  kernel.UUID
	Status     delivery.Status
	Mode       delivery.Mode
	AssignedAt time.Time
}

const (
	warningNoPincode       = "delivery address has no pincode, add one so a partner can be assigned"
	warningAwaitingPartner = "no delivery partner available yet, assignment is retried automatically"
	warningDecisionDueSoon = "confirm or reject soon, the response window is almost over"
	warningDecisionOverdue = "the response window has passed, confirm or reject now"
)

type viewBuilder struct {
	projector services.StatusProjector
	now       time.Time
}

func newViewBuilder(now time.Time) viewBuilder {
	return viewBuilder{projector: services.NewStatusProjector(), now: now}
}

// build derives the view. o may be nil when only the item is at hand; the
// missing-pincode warning is then not evaluated.
func (b viewBuilder) build(item *order.Item, o *order.Order, active *delivery.Assignment, policy vendor.Policy) ItemView {
	view := ItemView{
		ID:            item.ID(),
		OrderID:       item.OrderID(),
		VendorID:      item.VendorID(),
		Product:       item.Product(),
		Quantity:      item.Quantity(),
		UnitPrice:     item.UnitPrice(),
		LineTotal:     item.LineTotal(),
		Notes:         item.Notes(),
		Status:        item.Status(),
		CurrentStatus: b.projector.Project(item, active),
		CancelReason:  item.CancelReason(),
		CreatedAt:     item.CreatedAt(),
		ConfirmedAt:   item.ConfirmedAt(),
		CancelledAt:   item.CancelledAt(),
		DeliveredAt:   item.DeliveredAt(),
	}

	if active != nil && active.IsActive() {
		view.Assignment = &AssignmentView{
			ID:         active.ID(),
			PartnerID:  active.PartnerID(),
			Status:     active.Status(),
			Mode:       active.Mode(),
			AssignedAt: active.AssignedAt(),
		}
	}

	switch item.Status() {
	case order.Pending:
		remaining := policy.MinutesRemaining(item.CreatedAt(), b.now)
		view.MinutesRemaining = &remaining
		view.Urgent = policy.IsUrgent(item.CreatedAt(), b.now)
		switch {
		case remaining == 0:
			view.Warning = warningDecisionOverdue
		case view.Urgent:
			view.Warning = warningDecisionDueSoon
		}
	case order.Confirmed:
		if view.Assignment != nil {
			break
		}
		if o != nil && !o.Address().HasPincode() {
			view.Warning = warningNoPincode
		} else {
			view.Warning = warningAwaitingPartner
		}
	}
	return view
}
