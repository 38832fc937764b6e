package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrSetPartnerAvailabilityCommandIsNotConstructed = errors.New(
	"SetPartnerAvailabilityCommand must be created via NewSetPartnerAvailabilityCommand constructor",
)

// SetPartnerAvailabilityCommand toggles whether a partner takes new work.
type SetPartnerAvailabilityCommand struct {
	partnerID kernel.UUID
	available bool

	guard guard.ConstructorGuard
}

func NewSetPartnerAvailabilityCommand(partnerID kernel.UUID, available bool) (SetPartnerAvailabilityCommand, error) {
	if err := partnerID.Validate(); err != nil {
		return SetPartnerAvailabilityCommand{}, err
	}
	return SetPartnerAvailabilityCommand{
		partnerID: partnerID,
		available: available,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SetPartnerAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetPartnerAvailabilityCommandIsNotConstructed)
}

func (c SetPartnerAvailabilityCommand) PartnerID() kernel.UUID { return c.partnerID }
func (c SetPartnerAvailabilityCommand) Available() bool { return c.available }
