package delivery

import (
	"errors"
	"slices"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrPartnerIsNotConstructed = errors.New("Partner must be created via NewPartner or RestorePartner")

// Partner is a delivery partner who can be matched to confirmed orders.
//
// Partner follows these invariants:
//   - Must have a valid identifier and a non-empty name
//   - Success rate lies in [0, 1]
//   - MaxPerSlot is zero (use the slot's own capacity) or positive
type Partner struct {
	id          kernel.UUID
	name        string
	available   bool
	pincodes    []kernel.Pincode
	sectorIDs   []kernel.UUID
	maxPerSlot  int
	successRate float64

	isConstructed bool
}

// NewPartner creates an unavailable partner with no service area.
func NewPartner(id kernel.UUID, name string, successRate float64, maxPerSlot int) (*Partner, error) {
	p := &Partner{isConstructed: true}
	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setSuccessRate(successRate),
		p.setMaxPerSlot(maxPerSlot),
	); err != nil {
		return nil, err
	}
	return p, nil
}

// RestorePartner rebuilds a partner from storage.
func RestorePartner(
	id kernel.UUID,
	name string,
	available bool,
	pincodes []kernel.Pincode,
	sectorIDs []kernel.UUID,
	maxPerSlot int,
	successRate float64,
) (*Partner, error) {
	p, err := NewPartner(id, name, successRate, maxPerSlot)
	if err != nil {
		return nil, err
	}
	p.available = available
	p.pincodes = pincodes
	p.sectorIDs = sectorIDs
	return p, nil
}

func (p *Partner) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPartnerIsNotConstructed
	}
	return nil
}

func (p *Partner) ID() kernel.UUID { return p.id }
func (p *Partner) Name() string { return p.name }
func (p *Partner) IsAvailable() bool { return p.available }
func (p *Partner) Pincodes() []kernel.Pincode { return p.pincodes }
func (p *Partner) SectorIDs() []kernel.UUID { return p.sectorIDs }
func (p *Partner) MaxPerSlot() int { return p.maxPerSlot }
func (p *Partner) SuccessRate() float64 { return p.successRate }

// SetAvailability toggles the partner and reports whether anything changed.
func (p *Partner) SetAvailability(available bool) bool {
	if p.available == available {
		return false
	}
	p.available = available
	return true
}

// ServeArea replaces the pincodes and sectors the partner covers.
func (p *Partner) ServeArea(pincodes []kernel.Pincode, sectorIDs []kernel.UUID) error {
	for _, id := range sectorIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	p.pincodes = slices.Clone(pincodes)
	p.sectorIDs = slices.Clone(sectorIDs)
	return nil
}

// Serves reports whether the partner covers the pincode or the sector.
func (p *Partner) Serves(pincode kernel.Pincode, sectorID kernel.UUID) bool {
	if !pincode.IsEmpty() && slices.Contains(p.pincodes, pincode) {
		return true
	}
	return slices.ContainsFunc(p.sectorIDs, sectorID.IsEqual)
}

func (p *Partner) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Partner) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *Partner) setSuccessRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return errs.NewValueIsOutOfRangeError("success rate", rate, 0, 1)
	}
	p.successRate = rate
	return nil
}

func (p *Partner) setMaxPerSlot(limit int) error {
	if limit < 0 {
		return errs.NewValueIsOutOfRangeError("max per slot", limit, 0, "unbounded")
	}
	p.maxPerSlot = limit
	return nil
}
