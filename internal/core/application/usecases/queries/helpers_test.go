package queries_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/vendor"

	"github.com/stretchr/testify/require"
)

var (
	placedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	vendorID = kernel.MustUUID("6f1d2a5c-3b7e-4c1a-9d0f-1a2b3c4d5e6f")
)

func itemSpec(price string) order.ItemSpec {
	return order.ItemSpec{
		ID:        kernel.NewUUID(),
		VendorID:  vendorID,
		Product:   order.Product{ID: kernel.NewUUID(), Name: "Masala Dosa"},
		UnitPrice: kernel.MustMoney(price),
		Quantity:  1,
	}
}

// storedOrder returns an order as read back from storage with every item in
// status.
func storedOrder(t *testing.T, pincode string, slotID *kernel.UUID, status order.ItemStatus, prices ...string) *order.Order {
	t.Helper()
	address, err := kernel.NewAddress("4th Cross, Indiranagar", pincode)
	require.NoError(t, err)
	specs := make([]order.ItemSpec, 0, len(prices))
	for _, p := range prices {
		specs = append(specs, itemSpec(p))
	}
	placed, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), address, slotID, order.PaymentPaid, specs, placedAt)
	require.NoError(t, err)

	items := make([]*order.Item, 0, len(prices))
	for _, item := range placed.Items() {
		snap := item.Snapshot()
		snap.Status = status
		snap.Version = 2
		restored, err := order.RestoreItem(snap)
		require.NoError(t, err)
		items = append(items, restored)
	}
	o, err := order.RestoreOrder(placed.Snapshot(), items)
	require.NoError(t, err)
	return o
}

func activeAssignment(t *testing.T, o *order.Order, status delivery.Status) *delivery.Assignment {
	t.Helper()
	a, err := delivery.RestoreAssignment(delivery.Snapshot{
		ID:         kernel.NewUUID(),
		OrderID:    o.ID(),
		PartnerID:  kernel.NewUUID(),
		Status:     status,
		Active:     true,
		Codes:      delivery.Codes{Pickup: "1234", Delivery: "5678"},
		Mode:       delivery.ModeAuto,
		AssignedBy: kernel.SystemActor(),
		AssignedAt: placedAt.Add(5 * time.Minute),
		Version:    1,
	})
	require.NoError(t, err)
	return a
}

func savedPolicy() vendor.Policy {
	limit := kernel.MustMoney("500")
	return vendor.Policy{
		VendorID:         vendorID,
		AutoApprove:      true,
		TimeoutMinutes:   15,
		AutoApproveUnder: &limit,
		Version:          1,
	}
}
