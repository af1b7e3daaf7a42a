// Package resolve decides which alternative of a closed set applies to a type
// or an argument list.
//
// Three questions are answered, each with an alternative index or NoMatch:
//
//	IndexOfExact(T)            alternative whose unwrapped type is identical to T
//	FirstConstructible(Args)   first alternative that can be built from Args
//	FirstAssignable(T)         first alternative a value of type T is assignable to
//
// Declaration order breaks ties: the first matching alternative wins and
// ambiguity is never reported. Answers are memoised per source signature, so a
// decision is computed once per type and then read from the cache.
//
// # Constructibility
//
//	0 args   every alternative (its zero value); the first one wins
//	1 arg    identical type, Go assignability, or a conversion between numeric
//	         kinds, between string and []byte/[]rune, or between types with the
//	         same kind (int to string rune conversion and slice to array
//	         conversions are excluded)
//	N args   a struct with exactly N fields, all exported, each assignable from
//	         the argument in the same position
//
// A boxed alternative is constructible from whatever its pointee is
// constructible from.
//
// This package is internal to the variant module.
package resolve
