package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmItemCommandIsNotConstructed = errors.New(
	"ConfirmItemCommand must be created via NewConfirmItemCommand constructor",
)

// ConfirmItemCommand accepts a pending item, either by its vendor or by the
// auto-approval scheduler acting as the system.
type ConfirmItemCommand struct {
	itemID kernel.UUID
	actor  kernel.Actor

	guard guard.ConstructorGuard
}

func NewConfirmItemCommand(itemID kernel.UUID, actor kernel.Actor) (ConfirmItemCommand, error) {
	if err := errors.Join(itemID.Validate(), actor.Role.Validate()); err != nil {
		return ConfirmItemCommand{}, err
	}
	return ConfirmItemCommand{itemID: itemID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c ConfirmItemCommand) Validate() error {
	return c.guard.Validate(ErrConfirmItemCommandIsNotConstructed)
}

func (c ConfirmItemCommand) ItemID() kernel.UUID { return c.itemID }
func (c ConfirmItemCommand) Actor() kernel.Actor { return c.actor }
