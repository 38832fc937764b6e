package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// PaymentStatus is informational; the engine never moves money.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentPaid       PaymentStatus = "paid"
	PaymentOnDelivery PaymentStatus = "cod"
	PaymentRefunded   PaymentStatus = "refunded"
)

func (p PaymentStatus) Validate() error {
	switch p {
	case PaymentPending, PaymentPaid, PaymentOnDelivery, PaymentRefunded:
		return nil
	default:
		return errs.NewValueIsInvalidError("payment status " + string(p))
	}
}

// Order is the aggregate root for a customer's purchase. Its header is
// immutable after placement; all lifecycle state lives on the items.
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID
	address    kernel.Address
	slotID     *kernel.UUID
	payment    PaymentStatus
	total      kernel.Money
	createdAt  time.Time
	items      []*Item

	isConstructed bool
}

// NewOrder places an order. Every item starts pending and records order_placed.
func NewOrder(
	id, customerID kernel.UUID,
	address kernel.Address,
	slotID *kernel.UUID,
	payment PaymentStatus,
	specs []ItemSpec,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(id.Validate(), customerID.Validate(), payment.Validate()); err != nil {
		return nil, err
	}
	if slotID != nil {
		if err := slotID.Validate(); err != nil {
			return nil, err
		}
	}
	if len(specs) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	o := &Order{
		id:            id,
		customerID:    customerID,
		address:       address,
		slotID:        slotID,
		payment:       payment,
		total:         kernel.ZeroMoney(),
		createdAt:     now,
		isConstructed: true,
	}

	seen := make(map[kernel.UUID]struct{}, len(specs))
	customer := kernel.Actor{Role: kernel.RoleCustomer, ID: customerID.String()}
	for _, spec := range specs {
		if _, dup := seen[spec.ID]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("duplicate item id %s", spec.ID))
		}
		seen[spec.ID] = struct{}{}

		item, err := newItem(id, spec, now)
		if err != nil {
			return nil, err
		}
		total, err := o.total.Add(item.lineTotal)
		if err != nil {
			return nil, err
		}
		o.total = total
		item.record(events.OrderPlaced, customer, "", now)
		o.items = append(o.items, item)
	}

	return o, nil
}

// OrderSnapshot is the persisted header of an order.
type OrderSnapshot struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	Address    kernel.Address
	SlotID     *kernel.UUID
	Payment    PaymentStatus
	Total      kernel.Money
	CreatedAt  time.Time
}

// RestoreOrder rebuilds an order from storage and re-checks the total invariant.
func RestoreOrder(s OrderSnapshot, items []*Item) (*Order, error) {
	if err := errors.Join(s.ID.Validate(), s.CustomerID.Validate(), s.Total.Validate()); err != nil {
		return nil, err
	}

	sum := kernel.ZeroMoney()
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if !item.orderID.IsEqual(s.ID) {
			return nil, errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("item %s belongs to order %s", item.id, item.orderID))
		}
		var err error
		if sum, err = sum.Add(item.lineTotal); err != nil {
			return nil, err
		}
	}
	if !sum.IsEqual(s.Total) {
		return nil, errs.NewValueIsInvalidErrorWithCause("order total",
			fmt.Errorf("total %s does not match line totals %s", s.Total, sum))
	}

	return &Order{
		id:            s.ID,
		customerID:    s.CustomerID,
		address:       s.Address,
		slotID:        s.SlotID,
		payment:       s.Payment,
		total:         s.Total,
		createdAt:     s.CreatedAt,
		items:         items,
		isConstructed: true,
	}, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) Snapshot() OrderSnapshot {
	return OrderSnapshot{
		ID:         o.id,
		CustomerID: o.customerID,
		Address:    o.address,
		SlotID:     o.slotID,
		Payment:    o.payment,
		Total:      o.total,
		CreatedAt:  o.createdAt,
	}
}

func (o *Order) ID() kernel.UUID { return o.id }
func (o *Order) CustomerID() kernel.UUID { return o.customerID }
func (o *Order) Address() kernel.Address { return o.address }
func (o *Order) SlotID() *kernel.UUID { return o.slotID }
func (o *Order) Payment() PaymentStatus { return o.payment }
func (o *Order) Total() kernel.Money { return o.total }
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// Items returns the items in placement order.
func (o *Order) Items() []*Item {
	return o.items
}

// Item looks up an item of this order.
func (o *Order) Item(id kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.id.IsEqual(id) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("item", id)
}

// ItemsWithStatus returns the items currently in status s.
func (o *Order) ItemsWithStatus(s ItemStatus) []*Item {
	var out []*Item
	for _, item := range o.items {
		if item.status == s {
			out = append(out, item)
		}
	}
	return out
}

// HasConfirmedItems reports whether the order is ready for a delivery partner.
func (o *Order) HasConfirmedItems() bool {
	return len(o.ItemsWithStatus(Confirmed)) > 0
}

// HasLiveItems reports whether any item still needs fulfillment.
func (o *Order) HasLiveItems() bool {
	for _, item := range o.items {
		if item.status.IsLive() {
			return true
		}
	}
	return false
}

// PullEvents drains the events recorded on every item.
func (o *Order) PullEvents() []events.Event {
	var out []events.Event
	for _, item := range o.items {
		out = append(out, item.PullEvents()...)
	}
	return out
}
