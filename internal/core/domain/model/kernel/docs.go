// Package kernel provides core domain primitives used throughout the order engine.
// It implements fundamental building blocks following Domain-Driven Design principles.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//   - Location: A value object representing a geographic coordinate with great-circle distance
//   - Polygon: A value object representing a delivery-zone ring with point containment
//
// These primitives enforce domain invariants and validation rules, ensuring that
// domain objects are always in a valid state. They are designed to be immutable
// and thread-safe, making them suitable for concurrent use.
package kernel
