// Package layout computes the storage cell a variant would need if its
// alternatives shared one block of raw memory.
//
// # Layout Rules
//
//   - Discriminant: 1 byte for <=256 alternatives, 2 for <=65536, else 4
//   - Payload: size of the widest alternative, aligned to the strictest one
//   - Cell: discriminant, padding up to the payload alignment, payload,
//     trailing padding to a multiple of the cell alignment
//
// Boxed alternatives count as the size of the box (one pointer), which is what
// keeps a self-referential variant finite.
//
// The Go implementation stores the live alternative behind a pointer, so these
// numbers are diagnostic. They are reported by Table.Layout.
//
// This package is internal to the variant module.
package layout
