package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateVendorPolicyCommandIsNotConstructed = errors.New(
	"UpdateVendorPolicyCommand must be created via NewUpdateVendorPolicyCommand constructor",
)

// UpdateVendorPolicyCommand replaces a vendor's policy. policy.Version is the
// version the caller last read; zero means "create or overwrite".
type UpdateVendorPolicyCommand struct {
	policy vendor.Policy
	guard  guard.ConstructorGuard
}

func NewUpdateVendorPolicyCommand(policy vendor.Policy) (UpdateVendorPolicyCommand, error) {
	if err := policy.Validate(); err != nil {
		return UpdateVendorPolicyCommand{}, err
	}
	return UpdateVendorPolicyCommand{policy: policy, guard: guard.NewConstructorGuard()}, nil
}

func (c UpdateVendorPolicyCommand) Validate() error {
	return c.guard.Validate(ErrUpdateVendorPolicyCommandIsNotConstructed)
}

func (c UpdateVendorPolicyCommand) Policy() vendor.Policy { return c.policy }
