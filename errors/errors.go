package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which operation produced the error
type Phase string

const (
	PhaseCompile   Phase = "compile"   // alternative set resolution, table build
	PhaseConstruct Phase = "construct" // building a variant or a box
	PhaseAssign    Phase = "assign"    // assignment strategy
	PhaseGet       Phase = "get"       // typed access to the live alternative
	PhaseVisit     Phase = "visit"     // dispatch through the table
	PhaseDescribe  Phase = "describe"  // WIT export
	PhaseStream    Phase = "stream"    // filebuf operations
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch         Kind = "type_mismatch"
	KindNoAlternative        Kind = "no_alternative"
	KindDuplicateAlternative Kind = "duplicate_alternative"
	KindInvalidVariant       Kind = "invalid_variant"
	KindConstruction         Kind = "construction"
	KindUnsupported          Kind = "unsupported"
	KindInvalidInput         Kind = "invalid_input"
	KindNilPointer           Kind = "nil_pointer"
	KindNotOpen              Kind = "not_open"
	KindInvalidMode          Kind = "invalid_mode"
	KindIO                   Kind = "io"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Active string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.Active != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.Active != "" {
			b.WriteString("requested ")
			b.WriteString(e.GoType)
			b.WriteString(", active ")
			b.WriteString(e.Active)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("active ")
			b.WriteString(e.Active)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.Active != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// An empty Phase on the target matches every phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return (t.Phase == "" || e.Phase == t.Phase) && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the variant type path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the requested or supplied Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Active sets the type name of the live alternative
func (b *Builder) Active(t string) *Builder {
	b.err.Active = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error for a requested type that is not live
func TypeMismatch(phase Phase, path []string, requested, active string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: requested,
		Active: active,
	}
}

// NoAlternative reports that no alternative can be built or assigned from goType
func NoAlternative(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNoAlternative,
		Path:   path,
		GoType: goType,
		Detail: "no alternative is constructible or assignable from this type",
	}
}

// DuplicateAlternative reports two alternatives that unwrap to the same type
func DuplicateAlternative(path []string, goType string, first, second int) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindDuplicateAlternative,
		Path:   path,
		GoType: goType,
		Detail: fmt.Sprintf("alternatives %d and %d have the same type", first, second),
	}
}

// InvalidDiscriminant creates an invalid discriminant error
func InvalidDiscriminant(phase Phase, path []string, disc, count int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariant,
		Path:   path,
		Detail: fmt.Sprintf("discriminant %d out of range (%d alternatives)", disc, count),
		Value:  disc,
	}
}

// Construction wraps a failure raised while building a value.
// recovered is the panic value when the failure was a panic.
func Construction(phase Phase, path []string, goType string, recovered any) *Error {
	err := &Error{
		Phase:  phase,
		Kind:   KindConstruction,
		Path:   path,
		GoType: goType,
		Value:  recovered,
	}
	if cause, ok := recovered.(error); ok {
		err.Cause = cause
	} else {
		err.Detail = fmt.Sprintf("panic: %v", recovered)
	}
	return err
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotOpen reports an operation on a closed stream
func NotOpen(op string) *Error {
	return &Error{
		Phase:  PhaseStream,
		Kind:   KindNotOpen,
		Detail: op + ": stream is not open",
	}
}

// InvalidMode reports an unsupported open mode combination
func InvalidMode(mode fmt.Stringer) *Error {
	return &Error{
		Phase:  PhaseStream,
		Kind:   KindInvalidMode,
		Detail: fmt.Sprintf("unsupported open mode %s", mode),
		Value:  mode,
	}
}

// IO wraps an operating system or transcoding failure
func IO(op string, cause error) *Error {
	return &Error{
		Phase:  PhaseStream,
		Kind:   KindIO,
		Detail: op,
		Cause:  cause,
	}
}
