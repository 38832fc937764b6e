package assignmentrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAssignmentRepository implements ports.AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(source events.Source)
}

func NewGormAssignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAssignmentRepository {
	return &GormAssignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new assignment at version 1. The insert targets the partial
// unique index on active rows with DO NOTHING, so a concurrent winner shows up
// as zero affected rows instead of an error that would abort the transaction.
func (r *GormAssignmentRepository) Add(ctx context.Context, a *delivery.Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	dto := fromDomain(a)
	dto.Version = 1
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "order_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "active"}}},
			DoNothing:   true,
		}).
		Create(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("active assignment of order", a.OrderID(), 0)
	}

	a.MarkPersisted(1)
	r.track(a)
	return nil
}

// Update is a compare-and-swap on version.
func (r *GormAssignmentRepository) Update(ctx context.Context, a *delivery.Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	dto := fromDomain(a)
	columns := dto.transitionColumns()
	columns["version"] = a.Version() + 1

	result := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("id = ? AND version = ?", dto.ID, a.Version()).
		Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&AssignmentDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("assignment", a.ID().String())
		}
		return errs.NewConcurrencyConflictError("assignment", a.ID(), a.Version())
	}

	a.MarkPersisted(a.Version() + 1)
	r.track(a)
	return nil
}

func (r *GormAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormAssignmentRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Assignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	err := r.db.WithContext(ctx).First(&dto, "order_id = ? AND active", orderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active assignment of order", orderID.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormAssignmentRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*delivery.Assignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AssignmentDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Order("assigned_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

func (r *GormAssignmentRepository) ListActiveByOrders(
	ctx context.Context,
	orderIDs []kernel.UUID,
) ([]*delivery.Assignment, error) {
	if len(orderIDs) == 0 {
		return []*delivery.Assignment{}, nil
	}
	raw := make([]uuid.UUID, 0, len(orderIDs))
	for _, id := range orderIDs {
		raw = append(raw, id.Bytes())
	}

	var dtos []AssignmentDTO
	if err := r.db.WithContext(ctx).Where("order_id IN ? AND active", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

func (r *GormAssignmentRepository) track(source events.Source) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(source)
	}
}

func toDomainAll(dtos []AssignmentDTO) ([]*delivery.Assignment, error) {
	out := make([]*delivery.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
