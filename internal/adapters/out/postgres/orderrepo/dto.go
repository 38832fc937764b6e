// Package orderrepo maps orders and their line items to the orders and
// order_items tables.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row. Items are loaded through the association.
type OrderDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID     uuid.UUID  `gorm:"type:uuid"`
	AddressLine    string
	AddressPincode string
	SlotID         *uuid.UUID `gorm:"type:uuid"`
	PaymentStatus  string
	Total          string     `gorm:"type:numeric(12,2)"`
	CreatedAt      time.Time
	Items          []ItemDTO  `gorm:"foreignKey:OrderID"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is the order_items row. The decision actor is stored flat and is
// NULL until a vendor, customer or the scheduler decides on the item.
type ItemDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid"`
	VendorID      uuid.UUID `gorm:"type:uuid"`
	ProductID     uuid.UUID `gorm:"type:uuid"`
	ProductName   string
	UnitPrice     string `gorm:"type:numeric(12,2)"`
	Quantity      int
	LineTotal     string `gorm:"type:numeric(12,2)"`
	Notes         string
	Status        string
	DecidedByRole *string
	DecidedByID   *string
	DecidedByName *string
	CancelReason  string
	CreatedAt     time.Time
	ConfirmedAt   *time.Time
	CancelledAt   *time.Time
	DeliveredAt   *time.Time
	Version       int64
}

func (ItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	snap := o.Snapshot()
	dto := OrderDTO{
		ID:             snap.ID.Bytes(),
		CustomerID:     snap.CustomerID.Bytes(),
		AddressLine:    snap.Address.Line,
		AddressPincode: snap.Address.Pincode.String(),
		SlotID:         optionalID(snap.SlotID),
		PaymentStatus:  string(snap.Payment),
		Total:          snap.Total.String(),
		CreatedAt:      snap.CreatedAt,
		Items:          make([]ItemDTO, 0, len(o.Items())),
	}
	for _, item := range o.Items() {
		dto.Items = append(dto.Items, itemFromDomain(item.Snapshot()))
	}
	return dto
}

func itemFromDomain(s order.ItemSnapshot) ItemDTO {
	dto := ItemDTO{
		ID:           s.ID.Bytes(),
		OrderID:      s.OrderID.Bytes(),
		VendorID:     s.VendorID.Bytes(),
		ProductID:    s.Product.ID.Bytes(),
		ProductName:  s.Product.Name,
		UnitPrice:    s.UnitPrice.String(),
		Quantity:     s.Quantity,
		LineTotal:    s.LineTotal.String(),
		Notes:        s.Notes,
		Status:       s.Status.String(),
		CancelReason: s.CancelReason,
		CreatedAt:    s.CreatedAt,
		ConfirmedAt:  s.ConfirmedAt,
		CancelledAt:  s.CancelledAt,
		DeliveredAt:  s.DeliveredAt,
		Version:      s.Version,
	}
	if s.DecidedBy != nil {
		role, id, name := string(s.DecidedBy.Role), s.DecidedBy.ID, s.DecidedBy.Name
		dto.DecidedByRole = &role
		dto.DecidedByID = &id
		dto.DecidedByName = &name
	}
	return dto
}

// lifecycleColumns lists the columns a state transition may change. Updates
// go through a map so NULLs are written too.
func (dto ItemDTO) lifecycleColumns() map[string]any {
	return map[string]any{
		"status":          dto.Status,
		"decided_by_role": dto.DecidedByRole,
		"decided_by_id":   dto.DecidedByID,
		"decided_by_name": dto.DecidedByName,
		"cancel_reason":   dto.CancelReason,
		"confirmed_at":    dto.ConfirmedAt,
		"cancelled_at":    dto.CancelledAt,
		"delivered_at":    dto.DeliveredAt,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	slotID, err := restoreOptionalID(dto.SlotID)
	if err != nil {
		return nil, err
	}
	address, err := kernel.NewAddress(dto.AddressLine, dto.AddressPincode)
	if err != nil {
		return nil, err
	}
	total, err := kernel.MoneyFromString(dto.Total)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, err := itemToDomain(itemDTO)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.OrderSnapshot{
		ID:         id,
		CustomerID: customerID,
		Address:    address,
		SlotID:     slotID,
		Payment:    order.PaymentStatus(dto.PaymentStatus),
		Total:      total,
		CreatedAt:  dto.CreatedAt,
	}, items)
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.OrderID, dto.VendorID, dto.ProductID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	status, err := order.ParseItemStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	unitPrice, err := kernel.MoneyFromString(dto.UnitPrice)
	if err != nil {
		return nil, err
	}
	lineTotal, err := kernel.MoneyFromString(dto.LineTotal)
	if err != nil {
		return nil, err
	}

	var decidedBy *kernel.Actor
	if dto.DecidedByRole != nil {
		actor := kernel.Actor{Role: kernel.Role(*dto.DecidedByRole)}
		if dto.DecidedByID != nil {
			actor.ID = *dto.DecidedByID
		}
		if dto.DecidedByName != nil {
			actor.Name = *dto.DecidedByName
		}
		decidedBy = &actor
	}

	return order.RestoreItem(order.ItemSnapshot{
		ID:           ids[0],
		OrderID:      ids[1],
		VendorID:     ids[2],
		Product:      order.Product{ID: ids[3], Name: dto.ProductName},
		UnitPrice:    unitPrice,
		Quantity:     dto.Quantity,
		LineTotal:    lineTotal,
		Notes:        dto.Notes,
		Status:       status,
		DecidedBy:    decidedBy,
		CancelReason: dto.CancelReason,
		CreatedAt:    dto.CreatedAt,
		ConfirmedAt:  dto.ConfirmedAt,
		CancelledAt:  dto.CancelledAt,
		DeliveredAt:  dto.DeliveredAt,
		Version:      dto.Version,
	})
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
