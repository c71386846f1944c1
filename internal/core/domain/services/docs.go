// Package services provides domain services that orchestrate business
// operations across multiple aggregates of the ordering system.
//
// The package includes:
//   - BranchResolver: decides which branch serves a delivery coordinate,
//     zone polygons first, then nearest branch within its radius
//   - FeeEtaCalculator: prices delivery and estimates readiness time
//
// Domain services hold the rules that span branches, zones and orders and
// therefore do not belong to a single aggregate root.
package services
