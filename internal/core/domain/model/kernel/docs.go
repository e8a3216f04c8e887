// Package kernel provides the value objects shared by every aggregate of the
// order and insurance fund model.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid; its zero
//     value is invalid
//   - Money: non-negative monetary amount backed by github.com/shopspring/decimal,
//     rounded to two decimal places
//
// Both types are immutable and safe for concurrent use.
package kernel
