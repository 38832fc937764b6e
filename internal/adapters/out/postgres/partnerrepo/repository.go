package partnerrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPartnerRepository implements ports.PartnerRepository using GORM.
// Partners raise no lifecycle events, so nothing is tracked.
type GormPartnerRepository struct {
	db *gorm.DB
}

func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

func (r *GormPartnerRepository) Add(ctx context.Context, p *delivery.Partner) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := fromDomain(p)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewPreconditionFailedError("partner", p.ID(), "registered", "register again")
		}
		return err
	}
	return nil
}

func (r *GormPartnerRepository) Update(ctx context.Context, p *delivery.Partner) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := fromDomain(p)
	result := r.db.WithContext(ctx).Model(&PartnerDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"name":         dto.Name,
		"available":    dto.Available,
		"pincodes":     dto.Pincodes,
		"sector_ids":   dto.SectorIDs,
		"max_per_slot": dto.MaxPerSlot,
		"success_rate": dto.SuccessRate,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("partner", p.ID().String())
	}
	return nil
}

func (r *GormPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Partner, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PartnerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("partner", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

type loadRow struct {
	PartnerID uuid.UUID
	Active    int
	SlotLoad  int
}

// ListCandidates returns available partners with the number of live
// assignments each holds, overall and in slotID.
func (r *GormPartnerRepository) ListCandidates(ctx context.Context, slotID *kernel.UUID) ([]services.Candidate, error) {
	var dtos []PartnerDTO
	if err := r.db.WithContext(ctx).Where("available").Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return []services.Candidate{}, nil
	}

	var slot *uuid.UUID
	if slotID != nil {
		raw := slotID.Bytes()
		slot = &raw
	}
	var rows []loadRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT partner_id,
		       count(*) AS active,
		       count(*) FILTER (WHERE ?::uuid IS NOT NULL AND slot_id = ?::uuid) AS slot_load
		FROM delivery_assignments
		WHERE active AND status NOT IN ('delivered', 'cancelled')
		GROUP BY partner_id`, slot, slot).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	loads := make(map[uuid.UUID]loadRow, len(rows))
	for _, row := range rows {
		loads[row.PartnerID] = row
	}

	candidates := make([]services.Candidate, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		load := loads[dto.ID]
		candidates = append(candidates, services.Candidate{
			Partner:           p,
			ActiveAssignments: load.Active,
			SlotLoad:          load.SlotLoad,
		})
	}
	return candidates, nil
}
