// Package ports defines the contracts between the fulfillment core and its
// adapters: persistence, geography lookup, code issuing and event transport.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository persists orders and their items.
//
// Items are written individually with a compare-and-swap on their version:
// an update that finds the row at a different version fails with
// errs.ErrConcurrencyConflict and changes nothing.
type OrderRepository interface {
	// Add persists a new order together with all of its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get loads an order with its items.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByItem loads the order that owns itemID.
	GetByItem(ctx context.Context, itemID kernel.UUID) (*order.Order, error)

	// UpdateItem stores the item's lifecycle fields if the stored version
	// still equals item.Version(), then advances the version.
	UpdateItem(ctx context.Context, item *order.Item) error

	// ListPendingItems returns up to limit pending items positioned after
	// the cursor, oldest first.
	ListPendingItems(ctx context.Context, after PageCursor, limit int) ([]*order.Item, error)

	// ListVendorItems returns a vendor's items in any of statuses, oldest first.
	ListVendorItems(ctx context.Context, vendorID kernel.UUID, statuses ...order.ItemStatus) ([]*order.Item, error)

	// ListAwaitingAssignment returns orders positioned after the cursor that
	// have confirmed items and no assignment in progress, oldest first. An
	// active assignment that is already delivered does not count as in progress.
	ListAwaitingAssignment(ctx context.Context, after PageCursor, limit int) ([]OrderRef, error)
}

// PageCursor is a keyset position in a listing ordered by (created_at, id).
// The zero value starts at the first row.
type PageCursor struct {
	CreatedAt time.Time
	ID        kernel.UUID
}

func (c PageCursor) IsZero() bool {
	return c.CreatedAt.IsZero()
}

// ItemCursor positions a listing right after item.
func ItemCursor(item *order.Item) PageCursor {
	return PageCursor{CreatedAt: item.CreatedAt(), ID: item.ID()}
}

// OrderRef identifies an order in a keyset listing.
type OrderRef struct {
	ID        kernel.UUID
	CreatedAt time.Time
}

func (r OrderRef) Cursor() PageCursor {
	return PageCursor{CreatedAt: r.CreatedAt, ID: r.ID}
}
