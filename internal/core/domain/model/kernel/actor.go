package kernel

import (
	"fulfillment/internal/pkg/errs"
)

// Role names who performed a lifecycle transition.
type Role string

const (
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
	RolePartner  Role = "partner"
	RoleAdmin    Role = "admin"
	RoleSystem   Role = "system"
)

func (r Role) Validate() error {
	switch r {
	case RoleVendor, RoleCustomer, RolePartner, RoleAdmin, RoleSystem:
		return nil
	default:
		return errs.NewValueIsInvalidError("role " + string(r))
	}
}

// Actor is recorded on every transition and carried into event payloads.
type Actor struct {
	Role Role
	ID   string
	Name string
}

// SystemActor is the actor used by the auto-approval scheduler and retry jobs.
func SystemActor() Actor {
	return Actor{Role: RoleSystem, ID: "system", Name: "auto-approval"}
}

// NewActor validates role and id.
func NewActor(role Role, id, name string) (Actor, error) {
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	if id == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor id")
	}
	return Actor{Role: role, ID: id, Name: name}, nil
}

func (a Actor) IsSystem() bool {
	return a.Role == RoleSystem
}
