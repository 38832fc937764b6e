package delivery

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state of an assignment.
type Status int

const (
	Unknown Status = iota
	Assigned
	Accepted
	PickedUp
	OutForDelivery
	Delivered
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Assigned:       "assigned",
		Accepted:       "accepted",
		PickedUp:       "picked_up",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("assignment status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s < Assigned || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("assignment status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// HasPickedUp reports whether the goods have left the vendor.
func (s Status) HasPickedUp() bool {
	return s == PickedUp || s == OutForDelivery || s == Delivered
}

func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}
