package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/vendor"
)

type PolicyRepository interface {
	// Get returns errs.ErrObjectNotFound for vendors without a saved policy.
	Get(ctx context.Context, vendorID kernel.UUID) (vendor.Policy, error)

	// GetMany returns the saved policies of the given vendors, keyed by vendor.
	GetMany(ctx context.Context, vendorIDs []kernel.UUID) (map[kernel.UUID]vendor.Policy, error)

	// Save inserts the policy when Version is zero and otherwise replaces it
	// only if the stored version equals policy.Version. It returns the new version.
	Save(ctx context.Context, policy vendor.Policy) (int64, error)
}
