package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelItemCommandIsNotConstructed = errors.New(
	"CancelItemCommand must be created via NewCancelItemCommand constructor",
)

// CancelItemCommand withdraws a pending or confirmed item on the customer's
// behalf. Admins may cancel for the customer.
type CancelItemCommand struct {
	itemID kernel.UUID
	actor  kernel.Actor
	reason string

	guard guard.ConstructorGuard
}

func NewCancelItemCommand(itemID kernel.UUID, actor kernel.Actor, reason string) (CancelItemCommand, error) {
	if err := errors.Join(itemID.Validate(), actor.Role.Validate()); err != nil {
		return CancelItemCommand{}, err
	}
	if actor.Role != kernel.RoleCustomer && actor.Role != kernel.RoleAdmin {
		return CancelItemCommand{}, errs.NewValueIsInvalidError("cancelling role " + string(actor.Role))
	}
	return CancelItemCommand{
		itemID: itemID,
		actor:  actor,
		reason: strings.TrimSpace(reason),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c CancelItemCommand) Validate() error {
	return c.guard.Validate(ErrCancelItemCommandIsNotConstructed)
}

func (c CancelItemCommand) ItemID() kernel.UUID { return c.itemID }
func (c CancelItemCommand) Actor() kernel.Actor { return c.actor }
func (c CancelItemCommand) Reason() string { return c.reason }
