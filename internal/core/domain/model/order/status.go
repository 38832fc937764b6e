package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// ItemStatus is the stored lifecycle state of a line item.
type ItemStatus int

const (
	// Unknown catches uninitialized values.
	Unknown ItemStatus = iota

	// Pending items wait for the vendor or the auto-approval scheduler.
	Pending

	// Confirmed items are accepted by the vendor and eligible for delivery.
	Confirmed

	// Cancelled is terminal. Vendor rejection and customer cancellation both end here.
	Cancelled

	// Delivered is terminal.
	Delivered
)

func getStatusStrings() map[ItemStatus]string {
	return map[ItemStatus]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Confirmed: "confirmed",
		Cancelled: "cancelled",
		Delivered: "delivered",
	}
}

// ParseItemStatus maps the persisted name back to an ItemStatus.
func ParseItemStatus(s string) (ItemStatus, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("item status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s ItemStatus) Validate() error {
	if s < Pending || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("item status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s ItemStatus) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s ItemStatus) IsTerminal() bool {
	return s == Cancelled || s == Delivered
}

// IsLive reports whether the item still needs fulfillment work.
func (s ItemStatus) IsLive() bool {
	return s == Pending || s == Confirmed
}
