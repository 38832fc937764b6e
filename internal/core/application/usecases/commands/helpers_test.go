package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	noon        = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	vendorID    = kernel.MustUUID("6f1d2a5c-3b7e-4c1a-9d0f-1a2b3c4d5e6f")
	customerID  = kernel.MustUUID("0b4c8e2a-7d3f-4a6b-8c1e-2f3a4b5c6d7e")
	testPincode = kernel.Pincode("560001")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func vendorActor() kernel.Actor {
	return kernel.Actor{Role: kernel.RoleVendor, ID: vendorID.String(), Name: "Idli House"}
}

func customerActor() kernel.Actor {
	return kernel.Actor{Role: kernel.RoleCustomer, ID: customerID.String()}
}

func partnerActor(id kernel.UUID) kernel.Actor {
	return kernel.Actor{Role: kernel.RolePartner, ID: id.String(), Name: "Ravi"}
}

func spec(price string, qty int) order.ItemSpec {
	return order.ItemSpec{
		ID:        kernel.NewUUID(),
		VendorID:  vendorID,
		Product:   order.Product{ID: kernel.NewUUID(), Name: "Thali"},
		UnitPrice: kernel.MustMoney(price),
		Quantity:  qty,
	}
}

// storedOrder builds an order as a repository would return it: persisted
// once and with its placement events already flushed.
func storedOrder(t *testing.T, specs ...order.ItemSpec) *order.Order {
	t.Helper()
	address, err := kernel.NewAddress("12 MG Road", string(testPincode))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), customerID, address, nil, order.PaymentPaid, specs, noon.Add(-time.Hour))
	require.NoError(t, err)
	for _, item := range o.Items() {
		item.MarkPersisted(1)
	}
	o.PullEvents()
	return o
}

// confirmedOrder is storedOrder with every item confirmed by the vendor.
func confirmedOrder(t *testing.T, specs ...order.ItemSpec) *order.Order {
	t.Helper()
	o := storedOrder(t, specs...)
	for _, item := range o.Items() {
		_, err := item.Confirm(vendorActor(), noon.Add(-30*time.Minute))
		require.NoError(t, err)
		item.MarkPersisted(2)
	}
	o.PullEvents()
	return o
}

func testCodes() delivery.Codes {
	return delivery.Codes{Pickup: "4821", Delivery: "9173"}
}

func storedAssignment(t *testing.T, o *order.Order, partnerID kernel.UUID, status delivery.Status) *delivery.Assignment {
	t.Helper()
	a, err := delivery.RestoreAssignment(delivery.Snapshot{
		ID:         kernel.NewUUID(),
		OrderID:    o.ID(),
		PartnerID:  partnerID,
		Status:     status,
		Active:     status != delivery.Cancelled,
		Codes:      testCodes(),
		Mode:       delivery.ModeAuto,
		AssignedBy: kernel.SystemActor(),
		AssignedAt: noon.Add(-20 * time.Minute),
		Version:    1,
	})
	require.NoError(t, err)
	return a
}

func servingPartner(t *testing.T, rate float64) *delivery.Partner {
	t.Helper()
	p, err := delivery.NewPartner(kernel.NewUUID(), "Ravi", rate, 0)
	require.NoError(t, err)
	require.NoError(t, p.ServeArea([]kernel.Pincode{testPincode}, nil))
	p.SetAvailability(true)
	return p
}

// mockedUoW wires a MockUoW to fresh repository mocks.
type mockedUoW struct {
	uow         *MockUoW
	orders      *MockOrderRepository
	assignments *MockAssignmentRepository
	partners    *MockPartnerRepository
	policies    *MockPolicyRepository
}

func newMockedUoW() mockedUoW {
	m := mockedUoW{
		uow:         &MockUoW{},
		orders:      &MockOrderRepository{},
		assignments: &MockAssignmentRepository{},
		partners:    &MockPartnerRepository{},
		policies:    &MockPolicyRepository{},
	}
	m.uow.On("OrderRepository").Return(m.orders).Maybe()
	m.uow.On("AssignmentRepository").Return(m.assignments).Maybe()
	m.uow.On("PartnerRepository").Return(m.partners).Maybe()
	m.uow.On("PolicyRepository").Return(m.policies).Maybe()
	m.uow.On("Rollback", mock.Anything).Return(nil).Maybe()
	return m
}

func (m mockedUoW) assertExpectations(t *testing.T) {
	t.Helper()
	m.uow.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.assignments.AssertExpectations(t)
	m.partners.AssertExpectations(t)
	m.policies.AssertExpectations(t)
}
