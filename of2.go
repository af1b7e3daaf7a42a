package variant

import (
	"fmt"
	"reflect"
)

// Of2 holds exactly one value of type A or B. A is alternative 0 and B is
// alternative 1.
//
// The zero Of2 holds the zero A. A copy made by Go assignment is not changed
// by setting or assigning the other copy, but a boxed value stays shared
// until one side is replaced; Clone makes a fully independent copy. A struct
// that embeds an Of2 is a variant too:
//
//	type Node struct {
//		variant.Of2[Leaf, variant.Box[Pair]]
//	}
//
// An Of2 is not safe for concurrent use, and that includes concurrent reads:
// the first access of a zero Of2 allocates its default value.
type Of2[A, B any] struct {
	c cell
}

func types2[A, B any]() []reflect.Type {
	return []reflect.Type{
		reflect.TypeFor[A](),
		reflect.TypeFor[B](),
	}
}

func (v *Of2[A, B]) state() *cell {
	if v.c.tab == nil {
		v.c.tab = mustTable[Of2[A, B]](types2[A, B])
	}
	return &v.c
}

func (v *Of2[A, B]) table() (*Table, error) {
	return tableOf[Of2[A, B]](types2[A, B])
}

func (v Of2[A, B]) liveValue() (reflect.Value, reflect.Type) {
	return v.state().liveValue()
}

// Which returns the index of the live alternative.
func (v *Of2[A, B]) Which() int {
	return v.state().which
}

// TypeName returns the name of the live alternative's unwrapped type. It is
// meant for diagnostics.
func (v *Of2[A, B]) TypeName() string {
	return v.state().activeName()
}

// Clone returns a deep copy of v. Boxed values are reallocated.
func (v *Of2[A, B]) Clone() Of2[A, B] {
	return Of2[A, B]{c: v.state().clone()}
}

// Move returns a variant owning v's storage. v keeps its discriminant and
// holds a fresh zero value of that alternative.
func (v *Of2[A, B]) Move() Of2[A, B] {
	return Of2[A, B]{c: v.state().move()}
}

// MoveFrom replaces v's value with the value of o and destroys the value v
// held. o keeps its discriminant and holds a fresh zero value of that
// alternative. o may live inside v's own value.
func (v *Of2[A, B]) MoveFrom(o *Of2[A, B]) {
	if v == o {
		return
	}
	moved := o.state().move()
	v.state().replace(&moved)
}

// Swap exchanges the contents of v and o without copying either value.
func (v *Of2[A, B]) Swap(o *Of2[A, B]) {
	v.state().swap(o.state())
}

// Equal reports whether v and o hold the same alternative with equal values.
func (v *Of2[A, B]) Equal(o Of2[A, B]) bool {
	return v.state().equal(o.state())
}

// Reset destroys the live value and returns v to its zero state.
func (v *Of2[A, B]) Reset() {
	v.state().reset()
}

func (v Of2[A, B]) String() string {
	ref, _ := v.liveValue()
	return fmt.Sprintf("%s(%v)", v.state().activeName(), ref.Interface())
}

// Get0 returns a copy of the live A.
func (v *Of2[A, B]) Get0() (A, error) {
	return getAt[A](v.state(), 0)
}

// Ref0 returns a pointer to the live A.
func (v *Of2[A, B]) Ref0() (*A, error) {
	return storedAt[A](v.state(), 0)
}

// Set0 stores a copy of x as alternative 0.
func (v *Of2[A, B]) Set0(x A) {
	setAt(v.state(), 0, x)
}

// Get1 returns a copy of the live B.
func (v *Of2[A, B]) Get1() (B, error) {
	return getAt[B](v.state(), 1)
}

// Ref1 returns a pointer to the live B.
func (v *Of2[A, B]) Ref1() (*B, error) {
	return storedAt[B](v.state(), 1)
}

// Set1 stores a copy of x as alternative 1.
func (v *Of2[A, B]) Set1(x B) {
	setAt(v.state(), 1, x)
}
