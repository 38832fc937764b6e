package delivery

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment or RestoreAssignment")

// Mode records what triggered the assignment.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
	ModeRetry  Mode = "retry"
)

// ItemRef names an order item an assignment event is about.
type ItemRef struct {
	ItemID   kernel.UUID
	VendorID kernel.UUID
}

// Assignment binds an order to one delivery partner.
type Assignment struct {
	id           kernel.UUID
	orderID      kernel.UUID
	partnerID    kernel.UUID
	slotID       *kernel.UUID
	status       Status
	active       bool
	codes        Codes
	mode         Mode
	assignedBy   kernel.Actor
	cancelReason string

	assignedAt       time.Time
	acceptedAt       *time.Time
	pickedUpAt       *time.Time
	outForDeliveryAt *time.Time
	deliveredAt      *time.Time
	cancelledAt      *time.Time

	version int64

	events.Recorder
	isConstructed bool
}

// NewAssignment creates the active assignment for an order and records
// delivery_assigned for every item it covers.
func NewAssignment(
	id, orderID, partnerID kernel.UUID,
	slotID *kernel.UUID,
	codes Codes,
	mode Mode,
	actor kernel.Actor,
	items []ItemRef,
	now time.Time,
) (*Assignment, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), partnerID.Validate(), codes.Validate()); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("assigned items")
	}

	a := &Assignment{
		id:            id,
		orderID:       orderID,
		partnerID:     partnerID,
		slotID:        slotID,
		status:        Assigned,
		active:        true,
		codes:         codes,
		mode:          mode,
		assignedBy:    actor,
		assignedAt:    now,
		isConstructed: true,
	}
	a.record(events.DeliveryAssigned, actor, "", items, now)
	return a, nil
}

// Snapshot is the persisted state of an assignment.
type Snapshot struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	PartnerID        kernel.UUID
	SlotID           *kernel.UUID
	Status           Status
	Active           bool
	Codes            Codes
	Mode             Mode
	AssignedBy       kernel.Actor
	CancelReason     string
	AssignedAt       time.Time
	AcceptedAt       *time.Time
	PickedUpAt       *time.Time
	OutForDeliveryAt *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
	Version          int64
}

func RestoreAssignment(s Snapshot) (*Assignment, error) {
	if err := errors.Join(s.ID.Validate(), s.OrderID.Validate(), s.PartnerID.Validate(), s.Status.Validate()); err != nil {
		return nil, err
	}
	if s.Active && s.Status == Cancelled {
		return nil, errs.NewValueIsInvalidErrorWithCause("assignment",
			fmt.Errorf("cancelled assignment %s cannot be active", s.ID))
	}

	return &Assignment{
		id:               s.ID,
		orderID:          s.OrderID,
		partnerID:        s.PartnerID,
		slotID:           s.SlotID,
		status:           s.Status,
		active:           s.Active,
		codes:            s.Codes,
		mode:             s.Mode,
		assignedBy:       s.AssignedBy,
		cancelReason:     s.CancelReason,
		assignedAt:       s.AssignedAt,
		acceptedAt:       s.AcceptedAt,
		pickedUpAt:       s.PickedUpAt,
		outForDeliveryAt: s.OutForDeliveryAt,
		deliveredAt:      s.DeliveredAt,
		cancelledAt:      s.CancelledAt,
		version:          s.Version,
		isConstructed:    true,
	}, nil
}

func (a *Assignment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}
	return nil
}

func (a *Assignment) Snapshot() Snapshot {
	return Snapshot{
		ID:               a.id,
		OrderID:          a.orderID,
		PartnerID:        a.partnerID,
		SlotID:           a.slotID,
		Status:           a.status,
		Active:           a.active,
		Codes:            a.codes,
		Mode:             a.mode,
		AssignedBy:       a.assignedBy,
		CancelReason:     a.cancelReason,
		AssignedAt:       a.assignedAt,
		AcceptedAt:       a.acceptedAt,
		PickedUpAt:       a.pickedUpAt,
		OutForDeliveryAt: a.outForDeliveryAt,
		DeliveredAt:      a.deliveredAt,
		CancelledAt:      a.cancelledAt,
		Version:          a.version,
	}
}

func (a *Assignment) ID() kernel.UUID { return a.id }
func (a *Assignment) OrderID() kernel.UUID { return a.orderID }
func (a *Assignment) PartnerID() kernel.UUID { return a.partnerID }
func (a *Assignment) SlotID() *kernel.UUID { return a.slotID }
func (a *Assignment) Status() Status { return a.status }
func (a *Assignment) IsActive() bool { return a.active }
func (a *Assignment) Codes() Codes { return a.codes }
func (a *Assignment) Mode() Mode { return a.mode }
func (a *Assignment) AssignedAt() time.Time { return a.assignedAt }
func (a *Assignment) PickedUpAt() *time.Time { return a.pickedUpAt }
func (a *Assignment) Version() int64 { return a.version }

// Carries reports whether an item confirmed at confirmedAt travels with this
// assignment. Items confirmed after pickup were not handed to the partner.
func (a *Assignment) Carries(confirmedAt time.Time) bool {
	return a.pickedUpAt == nil || !confirmedAt.After(*a.pickedUpAt)
}

// MarkPersisted advances the version after the repository stored a change.
func (a *Assignment) MarkPersisted(version int64) {
	a.version = version
}

// Accept records the partner's acknowledgement.
func (a *Assignment) Accept(actor kernel.Actor, items []ItemRef, now time.Time) (kernel.Outcome, error) {
	if err := a.checkActor(actor, "accept"); err != nil {
		return 0, err
	}
	switch a.status {
	case Accepted:
		return kernel.OutcomeUnchanged, nil
	case Assigned:
	default:
		return 0, a.preconditionFailed("accept")
	}

	a.status = Accepted
	a.acceptedAt = &now
	a.record(events.DeliveryAccepted, actor, "", items, now)
	return kernel.OutcomeApplied, nil
}

// PickUp verifies the vendor's pickup code. A wrong code changes nothing.
func (a *Assignment) PickUp(actor kernel.Actor, code string, items []ItemRef, now time.Time) (kernel.Outcome, error) {
	if err := a.checkActor(actor, "pick up"); err != nil {
		return 0, err
	}
	if a.status != Accepted && !a.status.HasPickedUp() {
		return 0, a.preconditionFailed("pick up")
	}
	if !a.codes.Pickup.Matches(code) {
		return 0, fmt.Errorf("pickup code for assignment %s: %w", a.id, errs.ErrInvalidOtp)
	}
	if a.status.HasPickedUp() {
		return kernel.OutcomeUnchanged, nil
	}

	a.status = PickedUp
	a.pickedUpAt = &now
	a.record(events.PickedUp, actor, "", items, now)
	return kernel.OutcomeApplied, nil
}

// StartDelivery marks the partner as en route to the customer.
func (a *Assignment) StartDelivery(actor kernel.Actor, items []ItemRef, now time.Time) (kernel.Outcome, error) {
	if err := a.checkActor(actor, "start delivery"); err != nil {
		return 0, err
	}
	switch a.status {
	case OutForDelivery, Delivered:
		return kernel.OutcomeUnchanged, nil
	case PickedUp:
	default:
		return 0, a.preconditionFailed("start delivery")
	}

	a.status = OutForDelivery
	a.outForDeliveryAt = &now
	a.record(events.OutForDelivery, actor, "", items, now)
	return kernel.OutcomeApplied, nil
}

// Deliver verifies the customer's delivery code. The delivered event is
// raised by each item as it mirrors the delivery, not by the assignment.
func (a *Assignment) Deliver(actor kernel.Actor, code string, now time.Time) (kernel.Outcome, error) {
	if err := a.checkActor(actor, "deliver"); err != nil {
		return 0, err
	}
	if !a.status.HasPickedUp() {
		return 0, a.preconditionFailed("deliver")
	}
	if !a.codes.Delivery.Matches(code) {
		return 0, fmt.Errorf("delivery code for assignment %s: %w", a.id, errs.ErrInvalidOtp)
	}
	if a.status == Delivered {
		return kernel.OutcomeUnchanged, nil
	}

	a.status = Delivered
	a.deliveredAt = &now
	return kernel.OutcomeApplied, nil
}

// CancelByPartner releases the order so another partner can be assigned.
// Once the goods are picked up the partner can no longer back out.
func (a *Assignment) CancelByPartner(actor kernel.Actor, reason string, items []ItemRef, now time.Time) (kernel.Outcome, error) {
	if err := a.checkActor(actor, "cancel"); err != nil {
		return 0, err
	}
	switch {
	case a.status == Cancelled:
		return kernel.OutcomeUnchanged, nil
	case a.status.HasPickedUp():
		return 0, a.preconditionFailed("cancel")
	}

	a.cancel(reason, now)
	a.record(events.DeliveryCancelled, actor, reason, items, now)
	return kernel.OutcomeApplied, nil
}

// Withdraw ends the assignment because nothing is left to deliver. Item
// cancellation already raised the customer-facing events.
func (a *Assignment) Withdraw(reason string, now time.Time) (kernel.Outcome, error) {
	switch {
	case a.status == Cancelled:
		return kernel.OutcomeUnchanged, nil
	case a.status == Delivered:
		return 0, a.preconditionFailed("withdraw")
	}

	a.cancel(reason, now)
	return kernel.OutcomeApplied, nil
}

// Retire deactivates a delivered assignment so the order can take a new one
// for items confirmed after pickup. The delivery record itself is kept.
func (a *Assignment) Retire() (kernel.Outcome, error) {
	if a.status != Delivered {
		return 0, a.preconditionFailed("retire")
	}
	if !a.active {
		return kernel.OutcomeUnchanged, nil
	}
	a.active = false
	return kernel.OutcomeApplied, nil
}

func (a *Assignment) cancel(reason string, now time.Time) {
	a.status = Cancelled
	a.active = false
	a.cancelReason = reason
	a.cancelledAt = &now
}

// checkActor lets partners act only on their own assignment. Admins may act
// on any assignment.
func (a *Assignment) checkActor(actor kernel.Actor, action string) error {
	switch actor.Role {
	case kernel.RoleAdmin:
		return nil
	case kernel.RolePartner:
		if actor.ID == a.partnerID.String() {
			return nil
		}
	}
	return errs.NewPreconditionFailedError("assignment", a.id,
		fmt.Sprintf("held by partner %s", a.partnerID), action+" as "+string(actor.Role)+" "+actor.ID)
}

func (a *Assignment) record(kind events.Kind, actor kernel.Actor, reason string, items []ItemRef, now time.Time) {
	assignmentID, partnerID := a.id, a.partnerID
	for _, ref := range items {
		a.Record(events.Event{
			Kind:         kind,
			OrderID:      a.orderID,
			ItemID:       ref.ItemID,
			VendorID:     ref.VendorID,
			AssignmentID: &assignmentID,
			PartnerID:    &partnerID,
			Actor:        actor,
			Reason:       reason,
			OccurredAt:   now,
		})
	}
}

func (a *Assignment) preconditionFailed(action string) error {
	return errs.NewPreconditionFailedError("assignment", a.id, a.status.String(), action)
}
