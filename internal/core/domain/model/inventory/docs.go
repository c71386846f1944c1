// Package inventory contains the per-branch product availability model.
//
// A Record tracks one product at one branch: whether it is available at
// all, how much physical stock remains, and an optional daily sales limit
// with a counter that resets when the business day rolls over. Records
// decide reservations; the ledger adapter makes the decision atomic under
// concurrency.
package inventory
