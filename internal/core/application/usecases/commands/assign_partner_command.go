package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignPartnerCommandIsNotConstructed = errors.New(
	"AssignPartnerCommand must be created via NewAssignPartnerCommand constructor",
)

// AssignPartnerCommand binds a delivery partner to an order with confirmed
// items. It is idempotent: an order that already has an active assignment
// keeps it.
type AssignPartnerCommand struct {
	orderID   kernel.UUID
	mode      delivery.Mode
	actor     kernel.Actor
	partnerID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignPartnerCommand builds the command. partnerID restricts matching to
// one partner, who must still be eligible; it is only honoured in manual mode.
func NewAssignPartnerCommand(
	orderID kernel.UUID,
	mode delivery.Mode,
	actor kernel.Actor,
	partnerID *kernel.UUID,
) (AssignPartnerCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AssignPartnerCommand{}, err
	}
	switch mode {
	case delivery.ModeAuto, delivery.ModeRetry:
		partnerID = nil
	case delivery.ModeManual:
	default:
		return AssignPartnerCommand{}, errs.NewValueIsInvalidError("assignment mode " + string(mode))
	}

	return AssignPartnerCommand{
		orderID:   orderID,
		mode:      mode,
		actor:     actor,
		partnerID: partnerID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignPartnerCommand) Validate() error {
	return c.guard.Validate(ErrAssignPartnerCommandIsNotConstructed)
}

func (c AssignPartnerCommand) OrderID() kernel.UUID { return c.orderID }
func (c AssignPartnerCommand) Mode() delivery.Mode { return c.mode }
func (c AssignPartnerCommand) Actor() kernel.Actor { return c.actor }
func (c AssignPartnerCommand) PartnerID() *kernel.UUID { return c.partnerID }
