// Package partnerrepo maps delivery partners to the partners table and
// computes their current load for the matcher.
package partnerrepo

import (
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PartnerDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name        string
	Available   bool
	Pincodes    pq.StringArray `gorm:"type:text[]"`
	SectorIDs   pq.StringArray `gorm:"type:text[];column:sector_ids"`
	MaxPerSlot  int
	SuccessRate float64
}

func (PartnerDTO) TableName() string {
	return "partners"
}

func fromDomain(p *delivery.Partner) PartnerDTO {
	pincodes := make(pq.StringArray, 0, len(p.Pincodes()))
	for _, pc := range p.Pincodes() {
		pincodes = append(pincodes, pc.String())
	}
	sectors := make(pq.StringArray, 0, len(p.SectorIDs()))
	for _, id := range p.SectorIDs() {
		sectors = append(sectors, id.String())
	}
	return PartnerDTO{
		ID:          p.ID().Bytes(),
		Name:        p.Name(),
		Available:   p.IsAvailable(),
		Pincodes:    pincodes,
		SectorIDs:   sectors,
		MaxPerSlot:  p.MaxPerSlot(),
		SuccessRate: p.SuccessRate(),
	}
}

func toDomain(dto PartnerDTO) (*delivery.Partner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	pincodes := make([]kernel.Pincode, 0, len(dto.Pincodes))
	for _, s := range dto.Pincodes {
		pc, err := kernel.NewPincode(s)
		if err != nil {
			return nil, err
		}
		pincodes = append(pincodes, pc)
	}
	sectors := make([]kernel.UUID, 0, len(dto.SectorIDs))
	for _, s := range dto.SectorIDs {
		sid, err := kernel.UUIDFromString(s)
		if err != nil {
			return nil, err
		}
		sectors = append(sectors, sid)
	}
	return delivery.RestorePartner(id, dto.Name, dto.Available, pincodes, sectors, dto.MaxPerSlot, dto.SuccessRate)
}
