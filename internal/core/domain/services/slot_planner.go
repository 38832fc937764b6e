package services

import (
	"cmp"
	"slices"

	"fulfillment/internal/core/domain/model/geo"
	"fulfillment/internal/core/domain/model/order"
)

// PlanEntry is a confirmed item and the slot its order is scheduled in.
type PlanEntry struct {
	Item *order.Item
	Slot *geo.Slot
}

// SlotGroup is one preparation batch. Slot is nil for unscheduled orders.
type SlotGroup struct {
	Slot     *geo.Slot
	Priority geo.Priority
	Items    []*order.Item
}

// SlotPlanner orders a vendor's preparation work: earlier slots first,
// unscheduled items last, oldest items first within a group.
type SlotPlanner struct{}

func NewSlotPlanner() SlotPlanner {
	return SlotPlanner{}
}

func (SlotPlanner) Plan(entries []PlanEntry) []SlotGroup {
	byKey := make(map[string]*SlotGroup)
	var groups []*SlotGroup
	for _, e := range entries {
		key := ""
		if e.Slot != nil {
			key = e.Slot.ID.String()
		}
		g, ok := byKey[key]
		if !ok {
			g = &SlotGroup{Slot: e.Slot, Priority: geo.PriorityLow}
			if e.Slot != nil {
				g.Priority = e.Slot.Priority()
			}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.Items = append(g.Items, e.Item)
	}

	slices.SortStableFunc(groups, func(a, b *SlotGroup) int {
		if (a.Slot == nil) != (b.Slot == nil) {
			if a.Slot == nil {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		if a.Slot == nil {
			return 0
		}
		return cmp.Compare(a.Slot.Window.Start, b.Slot.Window.Start)
	})

	out := make([]SlotGroup, 0, len(groups))
	for _, g := range groups {
		slices.SortStableFunc(g.Items, func(a, b *order.Item) int {
			return a.CreatedAt().Compare(b.CreatedAt())
		})
		out = append(out, *g)
	}
	return out
}
