package orderrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker receives aggregates whose events must be flushed with the
// transaction. It is nil for read-only use outside a unit of work.
type aggregateTracker interface {
	TrackAggregate(source events.Source)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order and all of its items at version 1.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	for i := range dto.Items {
		dto.Items[i].Version = 1
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	for _, item := range aggregate.Items() {
		item.MarkPersisted(1)
	}
	r.track(aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetByItem(ctx context.Context, itemID kernel.UUID) (*order.Order, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	var item ItemDTO
	err := r.db.WithContext(ctx).Select("order_id").First(&item, "id = ?", itemID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("item", itemID.String())
		}
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(item.OrderID[:])
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, orderID)
}

// UpdateItem writes the lifecycle columns only if the row is still at
// item.Version(). A row at another version yields a ConcurrencyConflictError.
func (r *GormOrderRepository) UpdateItem(ctx context.Context, item *order.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	dto := itemFromDomain(item.Snapshot())
	columns := dto.lifecycleColumns()
	columns["version"] = item.Version() + 1

	result := r.db.WithContext(ctx).Model(&ItemDTO{}).
		Where("id = ? AND version = ?", dto.ID, item.Version()).
		Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, item)
	}

	item.MarkPersisted(item.Version() + 1)
	r.track(item)
	return nil
}

func (r *GormOrderRepository) missingOrStale(ctx context.Context, item *order.Item) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ItemDTO{}).Where("id = ?", item.ID().Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("item", item.ID().String())
	}
	return errs.NewConcurrencyConflictError("item", item.ID(), item.Version())
}

func (r *GormOrderRepository) ListPendingItems(
	ctx context.Context,
	after ports.PageCursor,
	limit int,
) ([]*order.Item, error) {
	query := r.db.WithContext(ctx).Where("status = ?", order.Pending.String())
	if !after.IsZero() {
		query = query.Where("(created_at, id) > (?, ?)", after.CreatedAt, after.ID.Bytes())
	}

	var dtos []ItemDTO
	if err := query.Order("created_at, id").Limit(limit).Find(&dtos).Error; err != nil {
		return nil, err
	}
	return itemsToDomain(dtos)
}

func (r *GormOrderRepository) ListVendorItems(
	ctx context.Context,
	vendorID kernel.UUID,
	statuses ...order.ItemStatus,
) ([]*order.Item, error) {
	if err := vendorID.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID.Bytes())
	if len(statuses) > 0 {
		names := make([]string, 0, len(statuses))
		for _, s := range statuses {
			names = append(names, s.String())
		}
		query = query.Where("status IN ?", names)
	}

	var dtos []ItemDTO
	if err := query.Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return itemsToDomain(dtos)
}

// ListAwaitingAssignment finds orders with confirmed items and no assignment
// in progress: new confirmations whose matching failed, orders whose partner
// cancelled without a replacement, and items confirmed after the order's
// previous run was delivered.
func (r *GormOrderRepository) ListAwaitingAssignment(
	ctx context.Context,
	after ports.PageCursor,
	limit int,
) ([]ports.OrderRef, error) {
	query := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = orders.id AND i.status = ?)",
			order.Confirmed.String()).
		Where("NOT EXISTS (SELECT 1 FROM delivery_assignments a WHERE a.order_id = orders.id AND a.active AND a.status <> ?)",
			delivery.Delivered.String())
	if !after.IsZero() {
		query = query.Where("(orders.created_at, orders.id) > (?, ?)", after.CreatedAt, after.ID.Bytes())
	}

	var rows []struct {
		ID        uuid.UUID
		CreatedAt time.Time
	}
	err := query.Select("orders.id, orders.created_at").
		Order("orders.created_at, orders.id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	refs := make([]ports.OrderRef, 0, len(rows))
	for _, row := range rows {
		id, err := kernel.UUIDFromBytes(row.ID[:])
		if err != nil {
			return nil, err
		}
		refs = append(refs, ports.OrderRef{ID: id, CreatedAt: row.CreatedAt})
	}
	return refs, nil
}

func (r *GormOrderRepository) track(source events.Source) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(source)
	}
}

func itemsToDomain(dtos []ItemDTO) ([]*order.Item, error) {
	items := make([]*order.Item, 0, len(dtos))
	for _, dto := range dtos {
		item, err := itemToDomain(dto)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
