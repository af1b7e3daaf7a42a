package variant

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/wippyai/variant/internal/plan"
)

// Box owns one heap-allocated T. It lets an alternative refer to the variant
// type that contains it:
//
//	type Node struct {
//		variant.Of2[Leaf, variant.Box[Pair]]
//	}
//
//	type Pair struct {
//		L, R Node
//	}
//
// A Box is never empty. The zero Box owns a fresh zero T on first access, and a
// Box that has been moved from owns a new zero T.
//
// Used as an alternative, a Box is unwrapped transparently: Get, Ref, Take,
// Apply and TypeName all see the T, not the Box.
type Box[T any] struct {
	p *T
}

// NewBox returns a Box owning v.
func NewBox[T any](v T) Box[T] {
	return Box[T]{p: &v}
}

// Get returns the owned value for reading and writing.
func (b *Box[T]) Get() *T {
	if b.p == nil {
		b.p = new(T)
	}
	return b.p
}

// Value returns the owned value.
func (b *Box[T]) Value() T {
	return *b.Get()
}

// Set assigns v to the owned value. The allocation is kept.
func (b *Box[T]) Set(v T) {
	*b.Get() = v
}

// Clone returns a Box owning a deep copy of the value.
func (b *Box[T]) Clone() Box[T] {
	v := plan.Clone(*b.Get())
	return Box[T]{p: &v}
}

// Move transfers the allocation to the returned Box and leaves b owning a
// fresh zero T.
func (b *Box[T]) Move() Box[T] {
	out := Box[T]{p: b.Get()}
	b.p = new(T)
	return out
}

// Swap exchanges the allocations of b and o.
func (b *Box[T]) Swap(o *Box[T]) {
	b.p, o.p = o.p, b.p
}

// Equal reports whether both boxes own equal values.
func (b *Box[T]) Equal(o Box[T]) bool {
	return plan.Equal(b.Get(), o.Get())
}

func (b Box[T]) String() string {
	if b.p == nil {
		var zero T
		return fmt.Sprint(zero)
	}
	return fmt.Sprint(*b.p)
}

// boxer is implemented by *Box[T]. The dispatch table uses it to unwrap a boxed
// alternative without knowing T statically.
type boxer interface {
	elemType() reflect.Type
	ref() any
	assignBox(src any)
	materialise()
}

func (*Box[T]) elemType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (b *Box[T]) ref() any {
	return b.Get()
}

// assignBox copies the value owned by src, a *Box[T], into b's allocation.
func (b *Box[T]) assignBox(src any) {
	*b.Get() = *src.(*Box[T]).Get()
}

func (b *Box[T]) materialise() {
	b.Get()
}

var (
	boxerType = reflect.TypeFor[boxer]()
	boxPkg    = reflect.TypeFor[Box[int]]().PkgPath()
)

// unwrapBox reports the pointee type when t is a Box. Types that merely embed a
// Box are not boxes.
func unwrapBox(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Struct || t.PkgPath() != boxPkg || !strings.HasPrefix(t.Name(), "Box[") {
		return nil, false
	}
	if !reflect.PointerTo(t).Implements(boxerType) {
		return nil, false
	}
	return reflect.New(t).Interface().(boxer).elemType(), true
}
