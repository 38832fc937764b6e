package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRejectItemCommandIsNotConstructed = errors.New(
	"RejectItemCommand must be created via NewRejectItemCommand constructor",
)

// RejectItemCommand is the vendor's refusal of a pending item.
type RejectItemCommand struct {
	itemID kernel.UUID
	actor  kernel.Actor
	reason string

	guard guard.ConstructorGuard
}

func NewRejectItemCommand(itemID kernel.UUID, actor kernel.Actor, reason string) (RejectItemCommand, error) {
	if err := errors.Join(itemID.Validate(), actor.Role.Validate()); err != nil {
		return RejectItemCommand{}, err
	}
	return RejectItemCommand{
		itemID: itemID,
		actor:  actor,
		reason: strings.TrimSpace(reason),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c RejectItemCommand) Validate() error {
	return c.guard.Validate(ErrRejectItemCommandIsNotConstructed)
}

func (c RejectItemCommand) ItemID() kernel.UUID { return c.itemID }
func (c RejectItemCommand) Actor() kernel.Actor { return c.actor }
func (c RejectItemCommand) Reason() string { return c.reason }
