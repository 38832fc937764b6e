package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetVendorQueueQueryIsNotConstructed = errors.New(
	"GetVendorQueueQuery must be created via NewGetVendorQueueQuery constructor",
)

// GetVendorQueueQuery reads what a vendor has to act on: items awaiting a
// decision and confirmed items to prepare, batched by delivery slot.
//
// Example:
//
//	query, _ := NewGetVendorQueueQuery(vendorID)
//	queue, err := handler.Handle(ctx, query)
//	for _, p := range queue.Pending {
//	    if p.Item.Urgent {
//	        fmt.Printf("%s: %d min left\n", p.Item.Product.Name, *p.Item.MinutesRemaining)
//	    }
//	}
type GetVendorQueueQuery struct {
	vendorID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewGetVendorQueueQuery(vendorID kernel.UUID) (GetVendorQueueQuery, error) {
	if err := vendorID.Validate(); err != nil {
		return GetVendorQueueQuery{}, err
	}
	return GetVendorQueueQuery{vendorID: vendorID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetVendorQueueQuery) Validate() error {
	return q.guard.Validate(ErrGetVendorQueueQueryIsNotConstructed)
}

func (q GetVendorQueueQuery) VendorID() kernel.UUID { return q.vendorID }
