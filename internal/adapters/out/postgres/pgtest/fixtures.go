package pgtest

import (
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

// PlacedAt is whole seconds so values survive timestamptz unchanged.
var PlacedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// NewOrder builds an unsaved order with one item per price, all from vendorID.
func NewOrder(t require.TestingT, vendorID kernel.UUID, pincode string, placedAt time.Time, prices ...string) *order.Order {
	address, err := kernel.NewAddress("12 MG Road", pincode)
	require.NoError(t, err)

	specs := make([]order.ItemSpec, 0, len(prices))
	for _, price := range prices {
		specs = append(specs, order.ItemSpec{
			ID:        kernel.NewUUID(),
			VendorID:  vendorID,
			Product:   order.Product{ID: kernel.NewUUID(), Name: "Filter Coffee"},
			UnitPrice: kernel.MustMoney(price),
			Quantity:  1,
		})
	}
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), address, nil, order.PaymentPaid, specs, placedAt)
	require.NoError(t, err)
	return o
}

// NewPartner builds an available partner serving pincode.
func NewPartner(t require.TestingT, name string, pincode string) *delivery.Partner {
	p, err := delivery.NewPartner(kernel.NewUUID(), name, 0.9, 0)
	require.NoError(t, err)
	pc, err := kernel.NewPincode(pincode)
	require.NoError(t, err)
	require.NoError(t, p.ServeArea([]kernel.Pincode{pc}, nil))
	p.SetAvailability(true)
	return p
}

// NewAssignment builds an unsaved assignment of o to partnerID covering all items.
func NewAssignment(t require.TestingT, o *order.Order, partnerID kernel.UUID) *delivery.Assignment {
	refs := make([]delivery.ItemRef, 0, len(o.Items()))
	for _, item := range o.Items() {
		refs = append(refs, delivery.ItemRef{ItemID: item.ID(), VendorID: item.VendorID()})
	}
	a, err := delivery.NewAssignment(
		kernel.NewUUID(), o.ID(), partnerID, nil,
		delivery.Codes{Pickup: "4821", Delivery: "9173"},
		delivery.ModeAuto, kernel.SystemActor(), refs, PlacedAt.Add(time.Minute),
	)
	require.NoError(t, err)
	return a
}
