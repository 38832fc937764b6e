package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand records a customer's checkout. Items get fresh ids when
// the caller leaves them empty.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(customerID, address, &slotID, order.PaymentPaid, specs, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customerID    kernel.UUID
	address       kernel.Address
	slotID        *kernel.UUID
	payment       order.PaymentStatus
	items         []order.ItemSpec
	declaredTotal *kernel.Money

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand validates the checkout input. declaredTotal, when
// given, must equal the sum of line totals.
func NewPlaceOrderCommand(
	customerID kernel.UUID,
	address kernel.Address,
	slotID *kernel.UUID,
	payment order.PaymentStatus,
	items []order.ItemSpec,
	declaredTotal *kernel.Money,
) (PlaceOrderCommand, error) {
	if err := errors.Join(customerID.Validate(), payment.Validate()); err != nil {
		return PlaceOrderCommand{}, err
	}
	if len(items) == 0 {
		return PlaceOrderCommand{}, errs.NewValueIsRequiredError("items")
	}

	specs := make([]order.ItemSpec, len(items))
	for i, spec := range items {
		if spec.ID.Validate() != nil {
			spec.ID = kernel.NewUUID()
		}
		specs[i] = spec
	}

	return PlaceOrderCommand{
		orderID:       kernel.NewUUID(),
		customerID:    customerID,
		address:       address,
		slotID:        slotID,
		payment:       payment,
		items:         specs,
		declaredTotal: declaredTotal,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c PlaceOrderCommand) CustomerID() kernel.UUID { return c.customerID }
func (c PlaceOrderCommand) Address() kernel.Address { return c.address }
func (c PlaceOrderCommand) SlotID() *kernel.UUID { return c.slotID }
func (c PlaceOrderCommand) Payment() order.PaymentStatus { return c.payment }
func (c PlaceOrderCommand) Items() []order.ItemSpec { return c.items }
func (c PlaceOrderCommand) DeclaredTotal() *kernel.Money { return c.declaredTotal }
