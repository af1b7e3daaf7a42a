// Package variant provides discriminated unions for Go: values holding exactly
// one live instance of a type from a fixed, closed set.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	variant/             Of2, Of3, Of4, Box, dispatch tables, assignment
//	├── errors/          Structured error types with phase and kind
//	├── describe/        Export of an alternative set as a WIT variant type
//	├── expr/            Arithmetic expression trees built on variants
//	├── filebuf/         Buffered, transcoding file stream
//	└── internal/
//	    ├── resolve/     Which alternative applies to a type or argument list
//	    ├── layout/      Storage cell size and alignment
//	    └── plan/        Compiled deep copy and equality per Go type
//
// # Quick Start
//
//	var v variant.Of2[int, string]
//	v.Set0(42)
//	fmt.Println(v.Which()) // 0
//
//	if err := variant.Assign(&v, "hi"); err != nil {
//	    log.Fatal(err)
//	}
//	s, _ := variant.Get[string](&v) // "hi"
//
//	_, err := v.Get0() // type mismatch: string is live
//
// # Alternatives
//
// The order of the type parameters is the alternative order. When several
// alternatives could accept a value, the first declared one wins; ambiguity is
// never reported. Two alternatives with the same type make the variant
// invalid: Compile reports this, and any other use panics with the same error.
//
// # Recursive Types
//
// An alternative that contains the variant itself is declared through Box,
// which owns its value on the heap:
//
//	type Node struct {
//	    variant.Of2[Leaf, variant.Box[Pair]]
//	}
//
//	type Pair struct {
//	    L, R Node
//	}
//
// Boxes are transparent: Get[Pair], Ref[Pair] and Apply see a Pair.
//
// # Visiting
//
// Apply hands a pointer to the live, unwrapped value to a Visitor. Match2,
// Match3 and Match4 take one typed function per alternative:
//
//	n := variant.Match2(&v,
//	    func(i *int) int { return *i },
//	    func(s *string) int { return len(*s) },
//	)
//
// # Assignment
//
// Assign and the typed SetN setters copy the new value before touching the
// variant, so a failing copy leaves the variant unchanged. See Assign for the
// order in which the target alternative is chosen.
//
// # Copying
//
// Setters never write through storage another copy can see, so a copy made
// by Go assignment keeps its value when the original is set or assigned. The
// exception is a boxed alternative, whose allocation is kept and therefore
// shared. Get and the GetN accessors return deep copies. Clone copies deeply,
// through boxes, nested variants, slices, maps and Clone methods. Move hands
// the storage over and leaves the source holding a fresh zero value;
// MoveFrom does the same into an existing variant and destroys the value it
// replaces.
//
// # Thread Safety
//
// Variants and boxes are plain values and are NOT safe for concurrent use.
// This covers concurrent reads too: the first access of a zero variant
// allocates its default value. Once a variant has been set, or read through
// Get, GetN or Apply, concurrent reads without writers are safe.
// Dispatch tables are built once per type and may be shared freely.
package variant
