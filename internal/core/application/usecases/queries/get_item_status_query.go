package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetItemStatusQueryIsNotConstructed = errors.New(
	"GetItemStatusQuery must be created via NewGetItemStatusQuery constructor",
)

// GetItemStatusQuery reads one item with its derived display status.
//
// Example:
//
//	query, err := NewGetItemStatusQuery(itemID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
//	fmt.Println(view.CurrentStatus, view.Warning)
type GetItemStatusQuery struct {
	itemID kernel.UUID
	guard  guard.ConstructorGuard
}

func NewGetItemStatusQuery(itemID kernel.UUID) (GetItemStatusQuery, error) {
	if err := itemID.Validate(); err != nil {
		return GetItemStatusQuery{}, err
	}
	return GetItemStatusQuery{itemID: itemID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetItemStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetItemStatusQueryIsNotConstructed)
}

func (q GetItemStatusQuery) ItemID() kernel.UUID { return q.itemID }
