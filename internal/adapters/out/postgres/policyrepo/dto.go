// Package policyrepo maps vendor auto-approval policies to the
// vendor_policies table.
package policyrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/vendor"

	"github.com/google/uuid"
)

// PolicyDTO stores business hours as minutes after midnight.
type PolicyDTO struct {
	VendorID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	AutoApprove        bool
	TimeoutMinutes     int
	AutoApproveUnder   *string `gorm:"type:numeric(12,2)"`
	BusinessHoursStart int
	BusinessHoursEnd   int
	BusinessHoursOnly  bool
	Version            int64
	UpdatedAt          time.Time
}

func (PolicyDTO) TableName() string {
	return "vendor_policies"
}

func fromDomain(p vendor.Policy) PolicyDTO {
	dto := PolicyDTO{
		VendorID:           p.VendorID.Bytes(),
		AutoApprove:        p.AutoApprove,
		TimeoutMinutes:     p.TimeoutMinutes,
		BusinessHoursStart: int(p.BusinessHours.Start),
		BusinessHoursEnd:   int(p.BusinessHours.End),
		BusinessHoursOnly:  p.BusinessHoursOnly,
		Version:            p.Version,
	}
	if p.AutoApproveUnder != nil {
		limit := p.AutoApproveUnder.String()
		dto.AutoApproveUnder = &limit
	}
	return dto
}

func toDomain(dto PolicyDTO) (vendor.Policy, error) {
	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return vendor.Policy{}, err
	}
	p := vendor.Policy{
		VendorID:       vendorID,
		AutoApprove:    dto.AutoApprove,
		TimeoutMinutes: dto.TimeoutMinutes,
		BusinessHours: kernel.Window{
			Start: kernel.TimeOfDay(dto.BusinessHoursStart),
			End:   kernel.TimeOfDay(dto.BusinessHoursEnd),
		},
		BusinessHoursOnly: dto.BusinessHoursOnly,
		Version:           dto.Version,
	}
	if dto.AutoApproveUnder != nil {
		limit, err := kernel.MoneyFromString(*dto.AutoApproveUnder)
		if err != nil {
			return vendor.Policy{}, err
		}
		p.AutoApproveUnder = &limit
	}
	return p, nil
}
