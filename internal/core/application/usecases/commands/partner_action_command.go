package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrAcceptAssignmentCommandIsNotConstructed = errors.New(
		"AcceptAssignmentCommand must be created via NewAcceptAssignmentCommand constructor",
	)
	ErrMarkPickedUpCommandIsNotConstructed = errors.New(
		"MarkPickedUpCommand must be created via NewMarkPickedUpCommand constructor",
	)
	ErrMarkOutForDeliveryCommandIsNotConstructed = errors.New(
		"MarkOutForDeliveryCommand must be created via NewMarkOutForDeliveryCommand constructor",
	)
	ErrMarkDeliveredCommandIsNotConstructed = errors.New(
		"MarkDeliveredCommand must be created via NewMarkDeliveredCommand constructor",
	)
	ErrCancelDeliveryCommandIsNotConstructed = errors.New(
		"CancelDeliveryCommand must be created via NewCancelDeliveryCommand constructor",
	)
)

// partnerAction is what every partner-side command carries: the item the
// partner is looking at and who the partner is. The assignment is the
// active one of the item's order.
type partnerAction struct {
	itemID kernel.UUID
	actor  kernel.Actor
	guard  guard.ConstructorGuard
}

func newPartnerAction(itemID kernel.UUID, actor kernel.Actor) (partnerAction, error) {
	if err := errors.Join(itemID.Validate(), actor.Role.Validate()); err != nil {
		return partnerAction{}, err
	}
	if actor.Role != kernel.RolePartner && actor.Role != kernel.RoleAdmin {
		return partnerAction{}, errs.NewValueIsInvalidError("delivery actor role " + string(actor.Role))
	}
	return partnerAction{itemID: itemID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (a partnerAction) ItemID() kernel.UUID { return a.itemID }
func (a partnerAction) Actor() kernel.Actor { return a.actor }

// AcceptAssignmentCommand is the partner acknowledging the assignment.
type AcceptAssignmentCommand struct{ partnerAction }

func NewAcceptAssignmentCommand(itemID kernel.UUID, actor kernel.Actor) (AcceptAssignmentCommand, error) {
	a, err := newPartnerAction(itemID, actor)
	return AcceptAssignmentCommand{a}, err
}

func (c AcceptAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrAcceptAssignmentCommandIsNotConstructed)
}

// MarkPickedUpCommand carries the pickup code the vendor handed over.
type MarkPickedUpCommand struct {
	partnerAction
	code string
}

func NewMarkPickedUpCommand(itemID kernel.UUID, actor kernel.Actor, code string) (MarkPickedUpCommand, error) {
	a, err := newPartnerAction(itemID, actor)
	if err != nil {
		return MarkPickedUpCommand{}, err
	}
	if strings.TrimSpace(code) == "" {
		return MarkPickedUpCommand{}, errs.NewValueIsRequiredError("pickup code")
	}
	return MarkPickedUpCommand{partnerAction: a, code: code}, nil
}

func (c MarkPickedUpCommand) Validate() error {
	return c.guard.Validate(ErrMarkPickedUpCommandIsNotConstructed)
}

func (c MarkPickedUpCommand) Code() string { return c.code }

type MarkOutForDeliveryCommand struct{ partnerAction }

func NewMarkOutForDeliveryCommand(itemID kernel.UUID, actor kernel.Actor) (MarkOutForDeliveryCommand, error) {
	a, err := newPartnerAction(itemID, actor)
	return MarkOutForDeliveryCommand{a}, err
}

func (c MarkOutForDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrMarkOutForDeliveryCommandIsNotConstructed)
}

// MarkDeliveredCommand carries the delivery code the customer read out.
type MarkDeliveredCommand struct {
	partnerAction
	code string
}

func NewMarkDeliveredCommand(itemID kernel.UUID, actor kernel.Actor, code string) (MarkDeliveredCommand, error) {
	a, err := newPartnerAction(itemID, actor)
	if err != nil {
		return MarkDeliveredCommand{}, err
	}
	if strings.TrimSpace(code) == "" {
		return MarkDeliveredCommand{}, errs.NewValueIsRequiredError("delivery code")
	}
	return MarkDeliveredCommand{partnerAction: a, code: code}, nil
}

func (c MarkDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveredCommandIsNotConstructed)
}

func (c MarkDeliveredCommand) Code() string { return c.code }

// CancelDeliveryCommand is the partner backing out before pickup.
type CancelDeliveryCommand struct {
	partnerAction
	reason string
}

func NewCancelDeliveryCommand(itemID kernel.UUID, actor kernel.Actor, reason string) (CancelDeliveryCommand, error) {
	a, err := newPartnerAction(itemID, actor)
	if err != nil {
		return CancelDeliveryCommand{}, err
	}
	return CancelDeliveryCommand{partnerAction: a, reason: strings.TrimSpace(reason)}, nil
}

func (c CancelDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCancelDeliveryCommandIsNotConstructed)
}

func (c CancelDeliveryCommand) Reason() string { return c.reason }
