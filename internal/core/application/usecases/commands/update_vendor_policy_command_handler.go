package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/pkg/errs"
)

// UpdateVendorPolicyCommandHandler saves a policy with optimistic locking.
type UpdateVendorPolicyCommandHandler struct {
	uowFactory PolicyUoWFactory
}

func NewUpdateVendorPolicyCommandHandler(uowFactory PolicyUoWFactory) UpdateVendorPolicyCommandHandler {
	return UpdateVendorPolicyCommandHandler{uowFactory: uowFactory}
}

func (h UpdateVendorPolicyCommandHandler) Handle(ctx context.Context, cmd UpdateVendorPolicyCommand) (vendor.Policy, error) {
	if err := cmd.Validate(); err != nil {
		return vendor.Policy{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return vendor.Policy{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	policy := cmd.Policy()
	repo := uow.PolicyRepository()

	if policy.Version == 0 {
		stored, err := repo.Get(ctx, policy.VendorID)
		switch {
		case err == nil:
			policy.Version = stored.Version
		case !errors.Is(err, errs.ErrObjectNotFound):
			return vendor.Policy{}, err
		}
	}

	version, err := repo.Save(ctx, policy)
	if err != nil {
		return vendor.Policy{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return vendor.Policy{}, err
	}

	policy.Version = version
	return policy, nil
}
