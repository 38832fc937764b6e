package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
)

// AssignmentRepository persists delivery assignments. Storage guarantees at
// most one active assignment per order; Add fails with
// errs.ErrConcurrencyConflict when another active one already exists.
type AssignmentRepository interface {
	Add(ctx context.Context, a *delivery.Assignment) error

	// Update is a compare-and-swap on the assignment version.
	Update(ctx context.Context, a *delivery.Assignment) error

	Get(ctx context.Context, id kernel.UUID) (*delivery.Assignment, error)

	// GetActiveByOrder returns errs.ErrObjectNotFound when the order has no
	// active assignment.
	GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Assignment, error)

	// ListByOrder returns the assignment history of an order, oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*delivery.Assignment, error)

	// ListActiveByOrders returns the active assignment of each order that has one.
	ListActiveByOrders(ctx context.Context, orderIDs []kernel.UUID) ([]*delivery.Assignment, error)
}
