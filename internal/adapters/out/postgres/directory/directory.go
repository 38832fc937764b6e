// Package directory serves sectors and delivery slots from the reference
// tables maintained by operations.
package directory

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/geo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type SectorDTO struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name     string
	Pincodes pq.StringArray `gorm:"type:text[]"`
}

func (SectorDTO) TableName() string {
	return "sectors"
}

// SlotDTO stores the window as minutes after midnight.
type SlotDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SectorID    uuid.UUID `gorm:"type:uuid"`
	Name        string
	StartMinute int
	EndMinute   int
	Capacity    int
}

func (SlotDTO) TableName() string {
	return "delivery_slots"
}

// GormGeoDirectory implements ports.GeoDirectory using GORM.
type GormGeoDirectory struct {
	db *gorm.DB
}

func NewGormGeoDirectory(db *gorm.DB) *GormGeoDirectory {
	return &GormGeoDirectory{db: db}
}

// ResolveSector returns the sector covering pincode. When several do, the
// first by name wins.
func (d *GormGeoDirectory) ResolveSector(ctx context.Context, pincode kernel.Pincode) (geo.Sector, error) {
	if pincode.IsEmpty() {
		return geo.Sector{}, errs.NewValueIsRequiredError("pincode")
	}

	var dto SectorDTO
	err := d.db.WithContext(ctx).
		Where("? = ANY(pincodes)", pincode.String()).
		Order("name, id").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return geo.Sector{}, errs.NewObjectNotFoundError("sector for pincode", pincode.String())
		}
		return geo.Sector{}, err
	}
	return sectorToDomain(dto)
}

func (d *GormGeoDirectory) GetSlot(ctx context.Context, id kernel.UUID) (geo.Slot, error) {
	if err := id.Validate(); err != nil {
		return geo.Slot{}, err
	}

	var dto SlotDTO
	if err := d.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return geo.Slot{}, errs.NewObjectNotFoundError("slot", id.String())
		}
		return geo.Slot{}, err
	}
	return slotToDomain(dto)
}

func (d *GormGeoDirectory) ListSlots(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]geo.Slot, error) {
	out := make(map[kernel.UUID]geo.Slot, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []SlotDTO
	if err := d.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}
	for _, dto := range dtos {
		slot, err := slotToDomain(dto)
		if err != nil {
			return nil, err
		}
		out[slot.ID] = slot
	}
	return out, nil
}

func sectorToDomain(dto SectorDTO) (geo.Sector, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return geo.Sector{}, err
	}
	pincodes := make([]kernel.Pincode, 0, len(dto.Pincodes))
	for _, s := range dto.Pincodes {
		p, err := kernel.NewPincode(s)
		if err != nil {
			return geo.Sector{}, err
		}
		pincodes = append(pincodes, p)
	}
	return geo.NewSector(id, dto.Name, pincodes)
}

func slotToDomain(dto SlotDTO) (geo.Slot, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return geo.Slot{}, err
	}
	sectorID, err := kernel.UUIDFromBytes(dto.SectorID[:])
	if err != nil {
		return geo.Slot{}, err
	}
	window := kernel.Window{Start: kernel.TimeOfDay(dto.StartMinute), End: kernel.TimeOfDay(dto.EndMinute)}
	return geo.NewSlot(id, sectorID, dto.Name, window, dto.Capacity)
}
