// Package delivery models the binding of an order to a delivery partner.
//
// An Assignment moves through
//
//	Assigned ──> Accepted ──> PickedUp ──> OutForDelivery ──> Delivered
//	   │            │            │               │
//	   └────────────┴────────────┴───────────────┴──> Cancelled
//
// At most one assignment per order is active. A partner cancellation ends the
// active assignment and leaves it in history; a new one may then be created
// for a different partner. Pickup and delivery are verified with one-time
// codes issued when the assignment is created.
//
// Partner is the delivery partner aggregate: availability, served pincodes
// and sectors, per-slot capacity and historic success rate.
package delivery
