// Package kernel provides the value objects shared by every aggregate of the
// fulfillment engine.
//
// The package includes:
//   - UUID: identifiers for orders, items, assignments, vendors and partners
//   - Money: exact non-negative rupee amounts (github.com/govalues/decimal)
//   - TimeOfDay and Window: wall-clock times and half-open daily intervals used
//     for business hours and delivery slots
//   - Pincode and Address: the geographic input of partner matching
//   - Actor: who performed a transition (vendor, customer, partner, admin, system)
//
// Values are immutable; constructors validate and return errs.* errors.
package kernel
