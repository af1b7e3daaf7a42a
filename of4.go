package variant

import (
	"fmt"
	"reflect"
)

// Of4 holds exactly one value of type A, B, C or D, alternatives 0
// through 3 in that order. It behaves like Of2.
type Of4[A, B, C, D any] struct {
	c cell
}

func types4[A, B, C, D any]() []reflect.Type {
	return []reflect.Type{
		reflect.TypeFor[A](),
		reflect.TypeFor[B](),
		reflect.TypeFor[C](),
		reflect.TypeFor[D](),
	}
}

func (v *Of4[A, B, C, D]) state() *cell {
	if v.c.tab == nil {
		v.c.tab = mustTable[Of4[A, B, C, D]](types4[A, B, C, D])
	}
	return &v.c
}

func (v *Of4[A, B, C, D]) table() (*Table, error) {
	return tableOf[Of4[A, B, C, D]](types4[A, B, C, D])
}

func (v Of4[A, B, C, D]) liveValue() (reflect.Value, reflect.Type) {
	return v.state().liveValue()
}

// Which returns the index of the live alternative.
func (v *Of4[A, B, C, D]) Which() int {
	return v.state().which
}

// TypeName returns the name of the live alternative's unwrapped type. It is
// meant for diagnostics.
func (v *Of4[A, B, C, D]) TypeName() string {
	return v.state().activeName()
}

// Clone returns a deep copy of v. Boxed values are reallocated.
func (v *Of4[A, B, C, D]) Clone() Of4[A, B, C, D] {
	return Of4[A, B, C, D]{c: v.state().clone()}
}

// Move returns a variant owning v's storage. v keeps its discriminant and
// holds a fresh zero value of that alternative.
func (v *Of4[A, B, C, D]) Move() Of4[A, B, C, D] {
	return Of4[A, B, C, D]{c: v.state().move()}
}

// MoveFrom replaces v's value with the value of o and destroys the value v
// held. o keeps its discriminant and holds a fresh zero value of that
// alternative. o may live inside v's own value.
func (v *Of4[A, B, C, D]) MoveFrom(o *Of4[A, B, C, D]) {
	if v == o {
		return
	}
	moved := o.state().move()
	v.state().replace(&moved)
}

// Swap exchanges the contents of v and o without copying either value.
func (v *Of4[A, B, C, D]) Swap(o *Of4[A, B, C, D]) {
	v.state().swap(o.state())
}

// Equal reports whether v and o hold the same alternative with equal values.
func (v *Of4[A, B, C, D]) Equal(o Of4[A, B, C, D]) bool {
	return v.state().equal(o.state())
}

// Reset destroys the live value and returns v to its zero state.
func (v *Of4[A, B, C, D]) Reset() {
	v.state().reset()
}

func (v Of4[A, B, C, D]) String() string {
	ref, _ := v.liveValue()
	return fmt.Sprintf("%s(%v)", v.state().activeName(), ref.Interface())
}

// Get0 returns a copy of the live A.
func (v *Of4[A, B, C, D]) Get0() (A, error) {
	return getAt[A](v.state(), 0)
}

// Ref0 returns a pointer to the live A.
func (v *Of4[A, B, C, D]) Ref0() (*A, error) {
	return storedAt[A](v.state(), 0)
}

// Set0 stores a copy of x as alternative 0.
func (v *Of4[A, B, C, D]) Set0(x A) {
	setAt(v.state(), 0, x)
}

// Get1 returns a copy of the live B.
func (v *Of4[A, B, C, D]) Get1() (B, error) {
	return getAt[B](v.state(), 1)
}

// Ref1 returns a pointer to the live B.
func (v *Of4[A, B, C, D]) Ref1() (*B, error) {
	return storedAt[B](v.state(), 1)
}

// Set1 stores a copy of x as alternative 1.
func (v *Of4[A, B, C, D]) Set1(x B) {
	setAt(v.state(), 1, x)
}

// Get2 returns a copy of the live C.
func (v *Of4[A, B, C, D]) Get2() (C, error) {
	return getAt[C](v.state(), 2)
}

// Ref2 returns a pointer to the live C.
func (v *Of4[A, B, C, D]) Ref2() (*C, error) {
	return storedAt[C](v.state(), 2)
}

// Set2 stores a copy of x as alternative 2.
func (v *Of4[A, B, C, D]) Set2(x C) {
	setAt(v.state(), 2, x)
}

// Get3 returns a copy of the live D.
func (v *Of4[A, B, C, D]) Get3() (D, error) {
	return getAt[D](v.state(), 3)
}

// Ref3 returns a pointer to the live D.
func (v *Of4[A, B, C, D]) Ref3() (*D, error) {
	return storedAt[D](v.state(), 3)
}

// Set3 stores a copy of x as alternative 3.
func (v *Of4[A, B, C, D]) Set3(x D) {
	setAt(v.state(), 3, x)
}
