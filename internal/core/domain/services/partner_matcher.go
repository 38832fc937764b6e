package services

import (
	"cmp"
	"fmt"
	"slices"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/geo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Candidate is a partner together with the load figures the matcher ranks on.
type Candidate struct {
	Partner *delivery.Partner

	// ActiveAssignments counts the partner's live assignments across all orders.
	ActiveAssignments int

	// SlotLoad counts the partner's live assignments in the requested slot.
	SlotLoad int
}

// MatchRequest describes the order being matched.
type MatchRequest struct {
	Pincode  kernel.Pincode
	SectorID kernel.UUID
	Slot     *geo.Slot

	// Exclude lists partners that already cancelled this order.
	Exclude []kernel.UUID
}

// PartnerMatcher selects the delivery partner for an order.
//
// Eligible partners are available, serve the order's pincode or sector, are
// not excluded and have room in the slot. Among them the matcher prefers the
// fewest active assignments, then the highest success rate, then the lowest
// id so the choice is deterministic.
type PartnerMatcher struct{}

func NewPartnerMatcher() PartnerMatcher {
	return PartnerMatcher{}
}

// Match returns the best candidate or an error wrapping
// errs.ErrAssignmentUnavailable.
func (m PartnerMatcher) Match(req MatchRequest, candidates []Candidate) (*delivery.Partner, error) {
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Partner.Validate(); err != nil {
			return nil, err
		}
		if m.isEligible(req, c) {
			eligible = append(eligible, c)
		}
	}

	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: no eligible partner for pincode %q among %d candidates",
			errs.ErrAssignmentUnavailable, req.Pincode, len(candidates))
	}

	best := slices.MinFunc(eligible, func(a, b Candidate) int {
		if c := cmp.Compare(a.ActiveAssignments, b.ActiveAssignments); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Partner.SuccessRate(), a.Partner.SuccessRate()); c != 0 {
			return c
		}
		return cmp.Compare(a.Partner.ID().String(), b.Partner.ID().String())
	})
	return best.Partner, nil
}

func (m PartnerMatcher) isEligible(req MatchRequest, c Candidate) bool {
	p := c.Partner
	if !p.IsAvailable() {
		return false
	}
	if slices.ContainsFunc(req.Exclude, p.ID().IsEqual) {
		return false
	}
	if !p.Serves(req.Pincode, req.SectorID) {
		return false
	}
	if limit := slotLimit(p, req.Slot); limit > 0 && c.SlotLoad >= limit {
		return false
	}
	return true
}

// slotLimit is the partner's own per-slot limit, falling back to the slot
// capacity. Zero means unlimited.
func slotLimit(p *delivery.Partner, slot *geo.Slot) int {
	if slot == nil {
		return 0
	}
	if p.MaxPerSlot() > 0 {
		return p.MaxPerSlot()
	}
	return slot.Capacity
}
