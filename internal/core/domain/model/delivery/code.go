package delivery

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Code is an opaque one-time code handed to the vendor (pickup) or the
// customer (delivery) and read back by the partner.
type Code string

func NewCode(s string) (Code, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errs.NewValueIsRequiredError("code")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("%q is not numeric", s))
		}
	}
	return Code(s), nil
}

// Matches compares in constant time.
func (c Code) Matches(input string) bool {
	if c == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c), []byte(strings.TrimSpace(input))) == 1
}

func (c Code) String() string {
	return string(c)
}

// Codes is the pair issued with each assignment.
type Codes struct {
	Pickup   Code
	Delivery Code
}

func (c Codes) Validate() error {
	if c.Pickup == "" || c.Delivery == "" {
		return errs.NewValueIsRequiredError("pickup and delivery codes")
	}
	return nil
}
