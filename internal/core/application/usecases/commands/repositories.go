// Package commands contains the lifecycle operations that change state.
// Every command is created through its constructor, validated by its handler,
// and executed inside a unit of work whose commit also stores the raised events.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces give each handler exactly the repositories it uses.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	PartnerRepoFactory interface {
		PartnerRepository() ports.PartnerRepository
	}

	PolicyRepoFactory interface {
		PolicyRepository() ports.PolicyRepository
	}

	// OrderUoW is used when only orders and items change.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// LifecycleUoW covers item and assignment transitions.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetByItem(ctx, itemID)
	//   a, err := uow.AssignmentRepository().GetActiveByOrder(ctx, o.ID())
	//   // ... transition and update
	//
	//   err = uow.Commit(ctx)
	LifecycleUoW interface {
		TxManager
		OrderRepoFactory
		AssignmentRepoFactory
	}

	LifecycleUoWFactory interface {
		Create() LifecycleUoW
	}

	// AssignmentUoW additionally reads partner candidates.
	AssignmentUoW interface {
		TxManager
		OrderRepoFactory
		AssignmentRepoFactory
		PartnerRepoFactory
	}

	AssignmentUoWFactory interface {
		Create() AssignmentUoW
	}

	PartnerUoW interface {
		TxManager
		PartnerRepoFactory
	}

	PartnerUoWFactory interface {
		Create() PartnerUoW
	}

	// LifecyclePolicyUoW reads pending items together with their vendors' policies.
	LifecyclePolicyUoW interface {
		TxManager
		OrderRepoFactory
		PolicyRepoFactory
	}

	LifecyclePolicyUoWFactory interface {
		Create() LifecyclePolicyUoW
	}

	PolicyUoW interface {
		TxManager
		PolicyRepoFactory
	}

	PolicyUoWFactory interface {
		Create() PolicyUoW
	}
)
