// Package services contains stateless domain services that coordinate
// several aggregates:
//
//   - PartnerMatcher picks the delivery partner for a confirmed order
//   - StatusProjector derives the user-facing status of an item
//   - SlotPlanner groups a vendor's confirmed items into preparation batches
//
// None of them touch storage; the application layer loads the inputs.
package services
