package variant

import (
	"fmt"
	"reflect"
)

// Of3 holds exactly one value of type A, B or C, alternatives 0
// through 2 in that order. It behaves like Of2.
type Of3[A, B, C any] struct {
	c cell
}

func types3[A, B, C any]() []reflect.Type {
	return []reflect.Type{
		reflect.TypeFor[A](),
		reflect.TypeFor[B](),
		reflect.TypeFor[C](),
	}
}

func (v *Of3[A, B, C]) state() *cell {
	if v.c.tab == nil {
		v.c.tab = mustTable[Of3[A, B, C]](types3[A, B, C])
	}
	return &v.c
}

func (v *Of3[A, B, C]) table() (*Table, error) {
	return tableOf[Of3[A, B, C]](types3[A, B, C])
}

func (v Of3[A, B, C]) liveValue() (reflect.Value, reflect.Type) {
	return v.state().liveValue()
}

// Which returns the index of the live alternative.
func (v *Of3[A, B, C]) Which() int {
	return v.state().which
}

// TypeName returns the name of the live alternative's unwrapped type. It is
// meant for diagnostics.
func (v *Of3[A, B, C]) TypeName() string {
	return v.state().activeName()
}

// Clone returns a deep copy of v. Boxed values are reallocated.
func (v *Of3[A, B, C]) Clone() Of3[A, B, C] {
	return Of3[A, B, C]{c: v.state().clone()}
}

// Move returns a variant owning v's storage. v keeps its discriminant and
// holds a fresh zero value of that alternative.
func (v *Of3[A, B, C]) Move() Of3[A, B, C] {
	return Of3[A, B, C]{c: v.state().move()}
}

// MoveFrom replaces v's value with the value of o and destroys the value v
// held. o keeps its discriminant and holds a fresh zero value of that
// alternative. o may live inside v's own value.
func (v *Of3[A, B, C]) MoveFrom(o *Of3[A, B, C]) {
	if v == o {
		return
	}
	moved := o.state().move()
	v.state().replace(&moved)
}

// Swap exchanges the contents of v and o without copying either value.
func (v *Of3[A, B, C]) Swap(o *Of3[A, B, C]) {
	v.state().swap(o.state())
}

// Equal reports whether v and o hold the same alternative with equal values.
func (v *Of3[A, B, C]) Equal(o Of3[A, B, C]) bool {
	return v.state().equal(o.state())
}

// Reset destroys the live value and returns v to its zero state.
func (v *Of3[A, B, C]) Reset() {
	v.state().reset()
}

func (v Of3[A, B, C]) String() string {
	ref, _ := v.liveValue()
	return fmt.Sprintf("%s(%v)", v.state().activeName(), ref.Interface())
}

// Get0 returns a copy of the live A.
func (v *Of3[A, B, C]) Get0() (A, error) {
	return getAt[A](v.state(), 0)
}

// Ref0 returns a pointer to the live A.
func (v *Of3[A, B, C]) Ref0() (*A, error) {
	return storedAt[A](v.state(), 0)
}

// Set0 stores a copy of x as alternative 0.
func (v *Of3[A, B, C]) Set0(x A) {
	setAt(v.state(), 0, x)
}

// Get1 returns a copy of the live B.
func (v *Of3[A, B, C]) Get1() (B, error) {
	return getAt[B](v.state(), 1)
}

// Ref1 returns a pointer to the live B.
func (v *Of3[A, B, C]) Ref1() (*B, error) {
	return storedAt[B](v.state(), 1)
}

// Set1 stores a copy of x as alternative 1.
func (v *Of3[A, B, C]) Set1(x B) {
	setAt(v.state(), 1, x)
}

// Get2 returns a copy of the live C.
func (v *Of3[A, B, C]) Get2() (C, error) {
	return getAt[C](v.state(), 2)
}

// Ref2 returns a pointer to the live C.
func (v *Of3[A, B, C]) Ref2() (*C, error) {
	return storedAt[C](v.state(), 2)
}

// Set2 stores a copy of x as alternative 2.
func (v *Of3[A, B, C]) Set2(x C) {
	setAt(v.state(), 2, x)
}
