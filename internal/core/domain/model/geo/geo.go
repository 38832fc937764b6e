// Package geo describes delivery sectors and time slots.
package geo

import (
	"errors"
	"slices"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Sector is a named group of pincodes served together.
type Sector struct {
	ID       kernel.UUID
	Name     string
	Pincodes []kernel.Pincode
}

func NewSector(id kernel.UUID, name string, pincodes []kernel.Pincode) (Sector, error) {
	if err := id.Validate(); err != nil {
		return Sector{}, err
	}
	if strings.TrimSpace(name) == "" {
		return Sector{}, errs.NewValueIsRequiredError("sector name")
	}
	return Sector{ID: id, Name: name, Pincodes: pincodes}, nil
}

func (s Sector) Covers(p kernel.Pincode) bool {
	return slices.Contains(s.Pincodes, p)
}

// Priority orders vendor preparation work by how early a slot starts.
type Priority int

const (
	PriorityHigh Priority = iota + 1
	PriorityMedium
	PriorityLow
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

var (
	highPriorityUntil   = kernel.MustTimeOfDay("10:00")
	mediumPriorityUntil = kernel.MustTimeOfDay("14:00")
)

// Slot is a delivery time window within a sector.
type Slot struct {
	ID       kernel.UUID
	SectorID kernel.UUID
	Name     string
	Window   kernel.Window
	// Capacity is the number of assignments the slot accepts per partner
	// when the partner sets no limit of its own. Zero means unlimited.
	Capacity int
}

func NewSlot(id, sectorID kernel.UUID, name string, window kernel.Window, capacity int) (Slot, error) {
	if err := errors.Join(id.Validate(), sectorID.Validate()); err != nil {
		return Slot{}, err
	}
	if capacity < 0 {
		return Slot{}, errs.NewValueIsOutOfRangeError("slot capacity", capacity, 0, "unbounded")
	}
	return Slot{ID: id, SectorID: sectorID, Name: name, Window: window, Capacity: capacity}, nil
}

// Priority is high for slots starting at or before 10:00, medium up to
// 14:00 and low afterwards.
func (s Slot) Priority() Priority {
	switch {
	case s.Window.Start <= highPriorityUntil:
		return PriorityHigh
	case s.Window.Start <= mediumPriorityUntil:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
