package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/geo"
	"fulfillment/internal/core/domain/model/kernel"
)

// GeoDirectory resolves delivery geography. It is read-only reference data.
type GeoDirectory interface {
	// ResolveSector returns errs.ErrObjectNotFound for pincodes no sector covers.
	ResolveSector(ctx context.Context, pincode kernel.Pincode) (geo.Sector, error)

	GetSlot(ctx context.Context, id kernel.UUID) (geo.Slot, error)

	// ListSlots returns the slots that exist among ids, keyed by id.
	ListSlots(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]geo.Slot, error)
}
