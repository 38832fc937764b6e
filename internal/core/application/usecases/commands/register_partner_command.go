package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRegisterPartnerCommandIsNotConstructed = errors.New(
		"RegisterPartnerCommand must be created via NewRegisterPartnerCommand constructor",
	)
	ErrNameIsRequired        = errors.New("name is required")
	ErrServiceAreaIsRequired = errors.New("at least one pincode or sector is required")
	ErrSuccessRateIsInvalid  = errors.New("success rate must be between 0 and 1")
)

// RegisterPartnerCommand onboards a delivery partner with a service area.
// New partners start unavailable.
type RegisterPartnerCommand struct { //nolint:recvcheck //using for validation
	partnerID   kernel.UUID
	name        string
	pincodes    []kernel.Pincode
	sectorIDs   []kernel.UUID
	maxPerSlot  int
	successRate float64

	guard guard.ConstructorGuard
}

func NewRegisterPartnerCommand(
	name string,
	pincodes []kernel.Pincode,
	sectorIDs []kernel.UUID,
	maxPerSlot int,
	successRate float64,
) (RegisterPartnerCommand, error) {
	command := RegisterPartnerCommand{
		partnerID:  kernel.NewUUID(),
		maxPerSlot: maxPerSlot,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setName(name),
		command.setArea(pincodes, sectorIDs),
		command.setSuccessRate(successRate),
	); err != nil {
		return RegisterPartnerCommand{}, err
	}

	return command, nil
}

func (c RegisterPartnerCommand) Validate() error {
	return c.guard.Validate(ErrRegisterPartnerCommandIsNotConstructed)
}

func (c RegisterPartnerCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c RegisterPartnerCommand) Name() string {
	return c.name
}

func (c RegisterPartnerCommand) Pincodes() []kernel.Pincode {
	return c.pincodes
}

func (c RegisterPartnerCommand) SectorIDs() []kernel.UUID {
	return c.sectorIDs
}

func (c RegisterPartnerCommand) MaxPerSlot() int {
	return c.maxPerSlot
}

func (c RegisterPartnerCommand) SuccessRate() float64 {
	return c.successRate
}

func (c *RegisterPartnerCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *RegisterPartnerCommand) setArea(pincodes []kernel.Pincode, sectorIDs []kernel.UUID) error {
	if len(pincodes) == 0 && len(sectorIDs) == 0 {
		return ErrServiceAreaIsRequired
	}

	c.pincodes = pincodes
	c.sectorIDs = sectorIDs
	return nil
}

func (c *RegisterPartnerCommand) setSuccessRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return ErrSuccessRateIsInvalid
	}

	c.successRate = rate
	return nil
}
