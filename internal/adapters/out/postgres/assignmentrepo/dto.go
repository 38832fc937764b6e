// Package assignmentrepo maps delivery assignments to the
// delivery_assignments table. The table keeps the full history of an order;
// a partial unique index allows one active row per order.
package assignmentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type AssignmentDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID  `gorm:"type:uuid"`
	PartnerID        uuid.UUID  `gorm:"type:uuid"`
	SlotID           *uuid.UUID `gorm:"type:uuid"`
	Status           string
	Active           bool
	PickupCode       string
	DeliveryCode     string
	Mode             string
	AssignedByRole   string
	AssignedByID     string
	AssignedByName   string
	CancelReason     string
	AssignedAt       time.Time
	AcceptedAt       *time.Time
	PickedUpAt       *time.Time
	OutForDeliveryAt *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
	Version          int64
}

func (AssignmentDTO) TableName() string {
	return "delivery_assignments"
}

func fromDomain(a *delivery.Assignment) AssignmentDTO {
	s := a.Snapshot()
	dto := AssignmentDTO{
		ID:               s.ID.Bytes(),
		OrderID:          s.OrderID.Bytes(),
		PartnerID:        s.PartnerID.Bytes(),
		Status:           s.Status.String(),
		Active:           s.Active,
		PickupCode:       s.Codes.Pickup.String(),
		DeliveryCode:     s.Codes.Delivery.String(),
		Mode:             string(s.Mode),
		AssignedByRole:   string(s.AssignedBy.Role),
		AssignedByID:     s.AssignedBy.ID,
		AssignedByName:   s.AssignedBy.Name,
		CancelReason:     s.CancelReason,
		AssignedAt:       s.AssignedAt,
		AcceptedAt:       s.AcceptedAt,
		PickedUpAt:       s.PickedUpAt,
		OutForDeliveryAt: s.OutForDeliveryAt,
		DeliveredAt:      s.DeliveredAt,
		CancelledAt:      s.CancelledAt,
		Version:          s.Version,
	}
	if s.SlotID != nil {
		raw := s.SlotID.Bytes()
		dto.SlotID = &raw
	}
	return dto
}

// transitionColumns lists what a transition may change after insert.
func (dto AssignmentDTO) transitionColumns() map[string]any {
	return map[string]any{
		"status":              dto.Status,
		"active":              dto.Active,
		"cancel_reason":       dto.CancelReason,
		"accepted_at":         dto.AcceptedAt,
		"picked_up_at":        dto.PickedUpAt,
		"out_for_delivery_at": dto.OutForDeliveryAt,
		"delivered_at":        dto.DeliveredAt,
		"cancelled_at":        dto.CancelledAt,
	}
}

func toDomain(dto AssignmentDTO) (*delivery.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return nil, err
	}
	var slotID *kernel.UUID
	if dto.SlotID != nil {
		sid, err := kernel.UUIDFromBytes(dto.SlotID[:])
		if err != nil {
			return nil, err
		}
		slotID = &sid
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreAssignment(delivery.Snapshot{
		ID:        id,
		OrderID:   orderID,
		PartnerID: partnerID,
		SlotID:    slotID,
		Status:    status,
		Active:    dto.Active,
		Codes: delivery.Codes{
			Pickup:   delivery.Code(dto.PickupCode),
			Delivery: delivery.Code(dto.DeliveryCode),
		},
		Mode: delivery.Mode(dto.Mode),
		AssignedBy: kernel.Actor{
			Role: kernel.Role(dto.AssignedByRole),
			ID:   dto.AssignedByID,
			Name: dto.AssignedByName,
		},
		CancelReason:     dto.CancelReason,
		AssignedAt:       dto.AssignedAt,
		AcceptedAt:       dto.AcceptedAt,
		PickedUpAt:       dto.PickedUpAt,
		OutForDeliveryAt: dto.OutForDeliveryAt,
		DeliveredAt:      dto.DeliveredAt,
		CancelledAt:      dto.CancelledAt,
		Version:          dto.Version,
	})
}
