// Package order provides the Order aggregate root for the order engine.
// It implements order identity, captured line items, type-specific payloads
// and a status state machine keyed by order type.
//
// The package includes:
//   - Order: The aggregate root managing identity, money invariants and lifecycle
//   - Status / OrderType: enums backing the per-type transition table
//   - Item: a line item captured immutably at order time
//   - HistoryEntry: an append-only record of every accepted transition
//
// Key business rules:
//   - total == subtotal + deliveryFee at creation, never recomputed afterwards
//   - status changes only through the transition table for the order's type
//   - a transition to the current status is an accepted no-op
//   - history is append-only and ordered by the sequence transitions are applied
//   - orders are never deleted, only moved to the terminal completed/cancelled states
package order
