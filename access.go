package variant

import (
	"reflect"

	"github.com/wippyai/variant/internal/plan"
)

// Get returns a deep copy of the live value as a T. T is an alternative's
// unwrapped type, or the Box type of a boxed alternative. A T that is not the
// live alternative fails with a get-phase type mismatch; a T that is no
// alternative at all fails with a compile-phase error.
func Get[T any](v Variant) (T, error) {
	p, err := Ref[T](v)
	if err != nil {
		var zero T
		return zero, err
	}
	return plan.Clone(*p), nil
}

// Ref returns a pointer to the live value for in-place mutation. It follows
// the same rules as Get.
func Ref[T any](v Variant) (*T, error) {
	ref, err := v.state().refOf(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return ref.(*T), nil
}

// Take moves the live value out. v keeps its discriminant and is left holding
// a zero T. A boxed alternative taken as its unwrapped T keeps its allocation.
func Take[T any](v Variant) (T, error) {
	p, err := Ref[T](v)
	if err != nil {
		var zero T
		return zero, err
	}
	out := *p
	c := v.state()
	if e := &c.tab.entries[c.which]; e.boxed && e.stored != reflect.TypeFor[T]() {
		var zero T
		*p = zero
	} else {
		c.ptr = e.zero()
	}
	return out, nil
}

// GetAt returns a deep copy of the unwrapped live value if alternative i is
// live.
func GetAt(v Variant, i int) (any, error) {
	return v.state().valueAt(i)
}

// RefAt returns a pointer to the unwrapped live value if alternative i is live.
func RefAt(v Variant, i int) (any, error) {
	return v.state().refAt(i)
}

// Which returns the discriminant of v.
func Which(v Variant) int {
	return v.state().which
}

// Holds reports whether the live alternative of v has the unwrapped type T.
func Holds[T any](v Variant) bool {
	c := v.state()
	return c.tab.set.IndexOfExact(reflect.TypeFor[T]()) == c.which
}

// TableOf returns the dispatch table of v.
func TableOf(v Variant) *Table {
	return v.state().tab
}

// TableFor returns the dispatch table of v, or the error that makes its
// alternative set invalid.
func TableFor(v Variant) (*Table, error) {
	return v.table()
}
