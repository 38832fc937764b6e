package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Pincode is a six digit postal code. The empty Pincode means "unknown".
type Pincode string

// NewPincode trims and validates a postal code.
func NewPincode(s string) (Pincode, error) {
	s = strings.TrimSpace(s)
	if len(s) != 6 {
		return "", errs.NewValueIsInvalidErrorWithCause("pincode", fmt.Errorf("%q is not 6 digits", s))
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", errs.NewValueIsInvalidErrorWithCause("pincode", fmt.Errorf("%q is not numeric", s))
		}
	}
	return Pincode(s), nil
}

func (p Pincode) IsEmpty() bool {
	return p == ""
}

func (p Pincode) String() string {
	return string(p)
}

// Address is the customer's delivery address as captured at checkout.
// Pincode is optional: its absence is reported when assignment is attempted.
type Address struct {
	Line    string
	Pincode Pincode
}

// NewAddress validates the pincode when one is given.
func NewAddress(line, pincode string) (Address, error) {
	addr := Address{Line: strings.TrimSpace(line)}
	if strings.TrimSpace(pincode) == "" {
		return addr, nil
	}
	p, err := NewPincode(pincode)
	if err != nil {
		return Address{}, err
	}
	addr.Pincode = p
	return addr, nil
}

func (a Address) HasPincode() bool {
	return !a.Pincode.IsEmpty()
}
