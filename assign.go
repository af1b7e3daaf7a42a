package variant

import (
	"reflect"
	"strings"

	"github.com/samber/lo"

	"github.com/wippyai/variant/errors"
)

// Variant is implemented by *Of2, *Of3, *Of4 and by pointers to structs that
// embed one of them. It cannot be implemented outside this package.
type Variant interface {
	state() *cell
	table() (*Table, error)
}

// source is implemented by variant values and pointers alike. It exposes the
// live value to assignment and conversion.
type source interface {
	liveValue() (reflect.Value, reflect.Type)
}

func (c *cell) liveValue() (reflect.Value, reflect.Type) {
	e := &c.tab.entries[c.which]
	return reflect.ValueOf(e.unwrap(c.live())).Elem(), e.typ
}

// IsVariant reports whether x is a variant value or a pointer to one.
func IsVariant(x any) bool {
	_, ok := x.(source)
	return ok
}

// Compile returns the dispatch table of V, reporting an invalid alternative
// set as an error instead of panicking on first use.
func Compile[V any, PV interface {
	*V
	Variant
}]() (*Table, error) {
	var v V
	return PV(&v).table()
}

// argValue turns x into a reflect.Value. A variant is replaced by its live
// value unless its own type is an alternative of tab.
func argValue(tab *Table, x any) (reflect.Value, reflect.Type) {
	if x == nil {
		return reflect.Value{}, nil
	}
	t := reflect.TypeOf(x)
	if src, ok := x.(source); ok && tab.set.IndexOfExact(t) == NoMatch {
		return src.liveValue()
	}
	return reflect.ValueOf(x), t
}

// Assign stores x in v following the assignment strategy:
//
//  1. x has the exact type of the live alternative: assign in place.
//  2. x has the exact type of another alternative: build it in a temporary
//     and swap it in.
//  3. otherwise, assign in place when the live alternative accepts x, else
//     build the first assignable, then the first constructible, alternative
//     in a temporary and swap it in.
//
// A Box[T] declared as an alternative counts as that alternative's exact type
// and contributes the T it owns. x is copied before v is touched. If copying
// panics the panic is returned as a construction error and v is unchanged. A
// variant x contributes its live value. An x that fits no alternative is a
// compile-phase error.
func Assign(v Variant, x any) error {
	c := v.state()
	src, t := argValue(c.tab, x)
	set := c.tab.set

	i := set.IndexOfExact(t)
	if i == NoMatch {
		i, src, t = c.tab.unbox(src, t)
	}
	if i != NoMatch {
		if i == c.which {
			return c.assignLive(src)
		}
		return c.constructAt(errors.PhaseAssign, i, []reflect.Value{src})
	}

	if set.Assignable(c.which, t) {
		return c.assignLive(src)
	}

	i = set.FirstAssignable(t)
	if i == NoMatch {
		i = set.FirstConstructible(t)
	}
	if i == NoMatch {
		return errors.NoAlternative(errors.PhaseCompile, c.tab.path, typeName(t))
	}
	return c.constructAt(errors.PhaseAssign, i, []reflect.Value{src})
}

// Make constructs a V from args. A single argument of an alternative's exact
// type, or of a boxed alternative's Box type, selects that alternative;
// otherwise the first alternative constructible from the arguments is built.
// With no arguments the result is the default value.
func Make[V any, PV interface {
	*V
	Variant
}](args ...any) (V, error) {
	var out V
	tab, err := PV(&out).table()
	if err != nil {
		return out, err
	}

	vals := make([]reflect.Value, len(args))
	types := make([]reflect.Type, len(args))
	for k, arg := range args {
		if len(args) == 1 {
			vals[k], types[k] = argValue(tab, arg)
		} else if arg != nil {
			vals[k], types[k] = reflect.ValueOf(arg), reflect.TypeOf(arg)
		}
	}

	return makeFrom[V, PV](tab, vals, types)
}

func makeFrom[V any, PV interface {
	*V
	Variant
}](tab *Table, vals []reflect.Value, types []reflect.Type) (V, error) {
	var out V
	i := NoMatch
	if len(types) == 1 {
		i = tab.set.IndexOfExact(types[0])
		if i == NoMatch {
			i, vals[0], types[0] = tab.unbox(vals[0], types[0])
		}
	}
	if i == NoMatch {
		i = tab.set.FirstConstructible(types...)
	}
	if i == NoMatch {
		return out, errors.NoAlternative(errors.PhaseCompile, tab.path, signature(types))
	}

	if err := PV(&out).state().constructAt(errors.PhaseConstruct, i, vals); err != nil {
		var zero V
		return zero, err
	}
	return out, nil
}

// MustMake is like Make but panics on error.
func MustMake[V any, PV interface {
	*V
	Variant
}](args ...any) V {
	v, err := Make[V, PV](args...)
	if err != nil {
		panic(err)
	}
	return v
}

// Convert constructs a V from the live value of another variant.
func Convert[V any, PV interface {
	*V
	Variant
}](src any) (V, error) {
	var out V
	live, ok := src.(source)
	if !ok {
		return out, errors.InvalidInput(errors.PhaseConstruct, "convert source is not a variant")
	}
	tab, err := PV(&out).table()
	if err != nil {
		return out, err
	}
	val, t := live.liveValue()
	return makeFrom[V, PV](tab, []reflect.Value{val}, []reflect.Type{t})
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}

func signature(types []reflect.Type) string {
	return "(" + strings.Join(lo.Map(types, func(t reflect.Type, _ int) string {
		return typeName(t)
	}), ", ") + ")"
}
