// Package order provides the Order aggregate and its line items.
//
// An Order is placed once by a customer and is never edited afterwards. Each
// Item belongs to exactly one vendor and carries its own lifecycle:
//
//	Pending ──┬──> Confirmed ──┬──> Delivered
//	          │                │
//	          └──> Cancelled <─┘
//
// Key business rules:
//   - The order total equals the sum of line totals at placement
//   - Cancelled and Delivered are terminal
//   - Repeating a transition whose target state already holds is a no-op
//   - Every applied transition records exactly one lifecycle event
//   - Items carry a version used for compare-and-swap persistence
package order
