// Package errors provides structured error types for the variant library.
//
// Errors are categorized by Phase (which operation failed) and Kind (error category).
// The Error type carries the variant type path, the Go type that was requested or
// supplied, the type of the alternative that was active, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseGet, errors.KindTypeMismatch).
//		Path("variant.Of2[int,string]").
//		GoType("string").
//		Active("int").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseGet, path, "string", "int")
//	err := errors.NoAlternative(errors.PhaseCompile, path, "[]int")
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when Phase and Kind are equal; a target
// with an empty Phase matches any phase.
package errors
