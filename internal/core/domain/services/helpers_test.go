package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func restoredItem(t *testing.T, status order.ItemStatus, createdAt time.Time) *order.Item {
	t.Helper()
	item, err := order.RestoreItem(order.ItemSnapshot{
		ID:        kernel.NewUUID(),
		OrderID:   kernel.NewUUID(),
		VendorID:  kernel.NewUUID(),
		Product:   order.Product{ID: kernel.NewUUID(), Name: "Dosa"},
		UnitPrice: kernel.MustMoney("120"),
		Quantity:  1,
		LineTotal: kernel.MustMoney("120"),
		Status:    status,
		CreatedAt: createdAt,
		Version:   1,
	})
	require.NoError(t, err)
	return item
}

func restoredAssignment(t *testing.T, status delivery.Status, active bool) *delivery.Assignment {
	t.Helper()
	a, err := delivery.RestoreAssignment(delivery.Snapshot{
		ID:        kernel.NewUUID(),
		OrderID:   kernel.NewUUID(),
		PartnerID: kernel.NewUUID(),
		Status:    status,
		Active:    active,
		Codes:     delivery.Codes{Pickup: "1111", Delivery: "2222"},
		Version:   1,
	})
	require.NoError(t, err)
	return a
}

func availablePartner(t *testing.T, id string, rate float64, pincodes ...kernel.Pincode) *delivery.Partner {
	t.Helper()
	p, err := delivery.NewPartner(kernel.MustUUID(id), "partner "+id[:4], rate, 0)
	require.NoError(t, err)
	require.NoError(t, p.ServeArea(pincodes, nil))
	p.SetAvailability(true)
	return p
}
