package order

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via Order or RestoreItem")

// Product is the catalog entry an item refers to, frozen at placement.
type Product struct {
	ID   kernel.UUID
	Name string
}

// ItemSpec is the input for one line of a new order.
type ItemSpec struct {
	ID        kernel.UUID
	VendorID  kernel.UUID
	Product   Product
	UnitPrice kernel.Money
	Quantity  int
	Notes     string
}

// Item is a single line of an order. It is the unit of vendor approval and of
// cancellation; the order never has a status of its own.
type Item struct {
	id        kernel.UUID
	orderID   kernel.UUID
	vendorID  kernel.UUID
	product   Product
	unitPrice kernel.Money
	quantity  int
	lineTotal kernel.Money
	notes     string

	status       ItemStatus
	decidedBy    *kernel.Actor
	cancelReason string
	createdAt    time.Time
	confirmedAt  *time.Time
	cancelledAt  *time.Time
	deliveredAt  *time.Time

	// version is the compare-and-swap token of the persisted row.
	version int64

	events.Recorder
	isConstructed bool
}

func newItem(orderID kernel.UUID, spec ItemSpec, createdAt time.Time) (*Item, error) {
	if err := errors.Join(
		spec.ID.Validate(),
		spec.VendorID.Validate(),
		spec.Product.ID.Validate(),
		spec.UnitPrice.Validate(),
	); err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.Product.Name) == "" {
		return nil, errs.NewValueIsRequiredError("product name")
	}
	lineTotal, err := spec.UnitPrice.Times(spec.Quantity)
	if err != nil {
		return nil, err
	}

	return &Item{
		id:            spec.ID,
		orderID:       orderID,
		vendorID:      spec.VendorID,
		product:       spec.Product,
		unitPrice:     spec.UnitPrice,
		quantity:      spec.Quantity,
		lineTotal:     lineTotal,
		notes:         spec.Notes,
		status:        Pending,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// ItemSnapshot is the full persisted state of an item.
type ItemSnapshot struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	VendorID     kernel.UUID
	Product      Product
	UnitPrice    kernel.Money
	Quantity     int
	LineTotal    kernel.Money
	Notes        string
	Status       ItemStatus
	DecidedBy    *kernel.Actor
	CancelReason string
	CreatedAt    time.Time
	ConfirmedAt  *time.Time
	CancelledAt  *time.Time
	DeliveredAt  *time.Time
	Version      int64
}

// RestoreItem rebuilds an item from storage without raising events.
func RestoreItem(s ItemSnapshot) (*Item, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.VendorID.Validate(),
		s.Status.Validate(),
		s.UnitPrice.Validate(),
		s.LineTotal.Validate(),
	); err != nil {
		return nil, err
	}
	if s.Version < 1 {
		return nil, errs.NewValueIsOutOfRangeError("item version", s.Version, 1, "inf")
	}

	return &Item{
		id:            s.ID,
		orderID:       s.OrderID,
		vendorID:      s.VendorID,
		product:       s.Product,
		unitPrice:     s.UnitPrice,
		quantity:      s.Quantity,
		lineTotal:     s.LineTotal,
		notes:         s.Notes,
		status:        s.Status,
		decidedBy:     s.DecidedBy,
		cancelReason:  s.CancelReason,
		createdAt:     s.CreatedAt,
		confirmedAt:   s.ConfirmedAt,
		cancelledAt:   s.CancelledAt,
		deliveredAt:   s.DeliveredAt,
		version:       s.Version,
		isConstructed: true,
	}, nil
}

func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

func (i *Item) Snapshot() ItemSnapshot {
	return ItemSnapshot{
		ID:           i.id,
		OrderID:      i.orderID,
		VendorID:     i.vendorID,
		Product:      i.product,
		UnitPrice:    i.unitPrice,
		Quantity:     i.quantity,
		LineTotal:    i.lineTotal,
		Notes:        i.notes,
		Status:       i.status,
		DecidedBy:    i.decidedBy,
		CancelReason: i.cancelReason,
		CreatedAt:    i.createdAt,
		ConfirmedAt:  i.confirmedAt,
		CancelledAt:  i.cancelledAt,
		DeliveredAt:  i.deliveredAt,
		Version:      i.version,
	}
}

func (i *Item) ID() kernel.UUID { return i.id }
func (i *Item) OrderID() kernel.UUID { return i.orderID }
func (i *Item) VendorID() kernel.UUID { return i.vendorID }
func (i *Item) Product() Product { return i.product }
func (i *Item) Quantity() int { return i.quantity }
func (i *Item) UnitPrice() kernel.Money { return i.unitPrice }
func (i *Item) LineTotal() kernel.Money { return i.lineTotal }
func (i *Item) Notes() string { return i.notes }
func (i *Item) Status() ItemStatus { return i.status }
func (i *Item) DecidedBy() *kernel.Actor { return i.decidedBy }
func (i *Item) CancelReason() string { return i.cancelReason }
func (i *Item) CreatedAt() time.Time { return i.createdAt }
func (i *Item) ConfirmedAt() *time.Time { return i.confirmedAt }
func (i *Item) CancelledAt() *time.Time { return i.cancelledAt }
func (i *Item) DeliveredAt() *time.Time { return i.deliveredAt }
func (i *Item) Version() int64 { return i.version }

func (i *Item) MinutesSinceCreated(now time.Time) int {
	return int(now.Sub(i.createdAt) / time.Minute)
}

// MarkPersisted advances the version after the repository stored a change.
func (i *Item) MarkPersisted(version int64) {
	i.version = version
}

// Confirm moves a pending item to confirmed on behalf of actor.
func (i *Item) Confirm(actor kernel.Actor, now time.Time) (kernel.Outcome, error) {
	switch i.status {
	case Confirmed:
		return kernel.OutcomeUnchanged, nil
	case Pending:
	default:
		return 0, i.preconditionFailed("confirm")
	}

	i.status = Confirmed
	i.decidedBy = &actor
	i.confirmedAt = &now
	i.record(events.OrderConfirmed, actor, "", now)
	return kernel.OutcomeApplied, nil
}

// Reject is the vendor's refusal of a pending item. The item ends cancelled.
func (i *Item) Reject(actor kernel.Actor, reason string, now time.Time) (kernel.Outcome, error) {
	switch i.status {
	case Cancelled:
		return kernel.OutcomeUnchanged, nil
	case Pending:
	default:
		return 0, i.preconditionFailed("reject")
	}

	i.status = Cancelled
	i.decidedBy = &actor
	i.cancelReason = reason
	i.cancelledAt = &now
	i.record(events.OrderRejected, actor, reason, now)
	return kernel.OutcomeApplied, nil
}

// Cancel is the customer's withdrawal of a pending or confirmed item.
func (i *Item) Cancel(actor kernel.Actor, reason string, now time.Time) (kernel.Outcome, error) {
	switch i.status {
	case Cancelled:
		return kernel.OutcomeUnchanged, nil
	case Pending, Confirmed:
	default:
		return 0, i.preconditionFailed("cancel")
	}

	i.status = Cancelled
	i.cancelReason = reason
	i.cancelledAt = &now
	i.record(events.Cancelled, actor, reason, now)
	return kernel.OutcomeApplied, nil
}

// MarkDelivered mirrors a completed delivery onto a confirmed item.
func (i *Item) MarkDelivered(actor kernel.Actor, assignmentID, partnerID kernel.UUID, now time.Time) (kernel.Outcome, error) {
	switch i.status {
	case Delivered:
		return kernel.OutcomeUnchanged, nil
	case Confirmed:
	default:
		return 0, i.preconditionFailed("deliver")
	}

	i.status = Delivered
	i.deliveredAt = &now
	i.Record(events.Event{
		Kind:         events.Delivered,
		OrderID:      i.orderID,
		ItemID:       i.id,
		VendorID:     i.vendorID,
		AssignmentID: &assignmentID,
		PartnerID:    &partnerID,
		Actor:        actor,
		Amount:       i.lineTotal.String(),
		OccurredAt:   now,
	})
	return kernel.OutcomeApplied, nil
}

func (i *Item) record(kind events.Kind, actor kernel.Actor, reason string, now time.Time) {
	i.Record(events.Event{
		Kind:       kind,
		OrderID:    i.orderID,
		ItemID:     i.id,
		VendorID:   i.vendorID,
		Actor:      actor,
		Amount:     i.lineTotal.String(),
		Reason:     reason,
		OccurredAt: now,
	})
}

func (i *Item) preconditionFailed(action string) error {
	return errs.NewPreconditionFailedError("item", i.id, i.status.String(), action)
}
