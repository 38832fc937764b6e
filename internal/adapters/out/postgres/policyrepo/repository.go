package policyrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPolicyRepository implements ports.PolicyRepository using GORM.
type GormPolicyRepository struct {
	db *gorm.DB
}

func NewGormPolicyRepository(db *gorm.DB) *GormPolicyRepository {
	return &GormPolicyRepository{db: db}
}

func (r *GormPolicyRepository) Get(ctx context.Context, vendorID kernel.UUID) (vendor.Policy, error) {
	if err := vendorID.Validate(); err != nil {
		return vendor.Policy{}, err
	}

	var dto PolicyDTO
	if err := r.db.WithContext(ctx).First(&dto, "vendor_id = ?", vendorID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return vendor.Policy{}, errs.NewObjectNotFoundError("vendor policy", vendorID.String())
		}
		return vendor.Policy{}, err
	}
	return toDomain(dto)
}

func (r *GormPolicyRepository) GetMany(ctx context.Context, vendorIDs []kernel.UUID) (map[kernel.UUID]vendor.Policy, error) {
	out := make(map[kernel.UUID]vendor.Policy, len(vendorIDs))
	if len(vendorIDs) == 0 {
		return out, nil
	}
	raw := make([]uuid.UUID, 0, len(vendorIDs))
	for _, id := range vendorIDs {
		raw = append(raw, id.Bytes())
	}

	var dtos []PolicyDTO
	if err := r.db.WithContext(ctx).Where("vendor_id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out[p.VendorID] = p
	}
	return out, nil
}

// Save inserts at version 1 when policy.Version is zero, otherwise replaces
// the row only if it is still at policy.Version. Losing either race yields a
// ConcurrencyConflictError.
func (r *GormPolicyRepository) Save(ctx context.Context, policy vendor.Policy) (int64, error) {
	if err := policy.Validate(); err != nil {
		return 0, err
	}

	dto := fromDomain(policy)
	dto.UpdatedAt = time.Now().UTC()

	if policy.Version == 0 {
		dto.Version = 1
		if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
			if pgerr.IsUniqueViolation(err) {
				return 0, errs.NewConcurrencyConflictErrorWithCause("vendor policy", policy.VendorID, 0, err)
			}
			return 0, err
		}
		return 1, nil
	}

	next := policy.Version + 1
	result := r.db.WithContext(ctx).Model(&PolicyDTO{}).
		Where("vendor_id = ? AND version = ?", dto.VendorID, policy.Version).
		Updates(map[string]any{
			"auto_approve":         dto.AutoApprove,
			"timeout_minutes":      dto.TimeoutMinutes,
			"auto_approve_under":   dto.AutoApproveUnder,
			"business_hours_start": dto.BusinessHoursStart,
			"business_hours_end":   dto.BusinessHoursEnd,
			"business_hours_only":  dto.BusinessHoursOnly,
			"version":              next,
			"updated_at":           dto.UpdatedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, errs.NewConcurrencyConflictError("vendor policy", policy.VendorID, policy.Version)
	}
	return next, nil
}
