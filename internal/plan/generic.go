package plan

import "reflect"

// Clone returns an independent copy of v.
func Clone[T any](v T) T {
	p := mustFor(reflect.TypeFor[T]())
	if p.pure {
		return v
	}
	var out T
	p.copy(reflect.ValueOf(&out).Elem(), reflect.ValueOf(&v).Elem())
	return out
}

// CopyInto overwrites *dst with an independent copy of *src.
func CopyInto[T any](dst, src *T) {
	p := mustFor(reflect.TypeFor[T]())
	if p.pure {
		*dst = *src
		return
	}
	p.copy(reflect.ValueOf(dst).Elem(), reflect.ValueOf(src).Elem())
}

// Equal reports whether a and b hold equal values.
func Equal[T any](a, b *T) bool {
	p := mustFor(reflect.TypeFor[T]())
	return p.equal(reflect.ValueOf(a).Elem(), reflect.ValueOf(b).Elem())
}

func mustFor(t reflect.Type) *Plan {
	p, err := For(t)
	if err != nil {
		panic(err)
	}
	return p
}
