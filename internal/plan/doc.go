// Package plan compiles per-type copy and equality plans.
//
// A plan is built once per reflect.Type and cached. Copying follows the value
// semantics the variant containers promise:
//
//   - a type with a Clone method returning its own type is copied through it
//   - structs and arrays are copied field by field, element by element
//   - slices and maps get fresh storage, elements copied by their own plans
//   - pointers, channels, funcs and interfaces are copied as Go copies them
//
// Equality uses an Equal method taking the same type when one exists and falls
// back to reflect.DeepEqual for values with no such method anywhere inside.
//
// A type whose copy is a plain assignment is reported as Pure, letting callers
// skip reflection on the hot path.
//
// This package is internal to the variant module.
package plan
