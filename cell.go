package variant

import (
	"reflect"

	"github.com/wippyai/variant/errors"
	"github.com/wippyai/variant/internal/plan"
)

// cell is the storage shared by every arity: the discriminant and a pointer to
// the live alternative, stored with its declared type. A nil ptr is the lazily
// materialised default state, alternative 0 holding its zero value.
type cell struct {
	tab   *Table
	ptr   any
	which int
}

// live returns the pointer to the live alternative, allocating the default
// value on first use.
func (c *cell) live() any {
	if c.ptr == nil {
		c.ptr = c.tab.entries[c.which].zero()
	}
	return c.ptr
}

// ref returns a pointer to the live value with any box unwrapped.
func (c *cell) ref() any {
	return c.tab.entries[c.which].unwrap(c.live())
}

func (c *cell) activeName() string {
	return c.tab.entries[c.which].name
}

// swap exchanges discriminant and storage. It runs no alternative code.
func (c *cell) swap(o *cell) {
	c.which, o.which = o.which, c.which
	c.ptr, o.ptr = o.ptr, c.ptr
}

// destroy releases the live alternative and leaves the cell unconstructed.
func (c *cell) destroy() {
	if c.ptr == nil {
		return
	}
	c.tab.entries[c.which].destroy(c.ptr)
	c.ptr = nil
}

// adopt installs stored as alternative i: the new state is placed in a
// temporary, swapped in, and the temporary, now holding the old value, is
// destroyed.
func (c *cell) adopt(i int, stored any) {
	tmp := cell{tab: c.tab, which: i, ptr: stored}
	c.swap(&tmp)
	tmp.destroy()
}

// constructAt builds alternative i from args in a temporary and swaps it in.
// On error the cell is unchanged.
func (c *cell) constructAt(phase errors.Phase, i int, args []reflect.Value) error {
	val, err := c.tab.construct(phase, i, args)
	if err != nil {
		return err
	}
	c.adopt(i, c.tab.entries[i].build(val))
	return nil
}

// assignLive assigns src to the live alternative in place. A boxed alternative
// keeps its allocation. Any other alternative gets a new one, so a copy of the
// variant made by Go assignment keeps the old value.
func (c *cell) assignLive(src reflect.Value) error {
	val, err := c.tab.construct(errors.PhaseAssign, c.which, []reflect.Value{src})
	if err != nil {
		return err
	}
	e := &c.tab.entries[c.which]
	if e.boxed {
		reflect.ValueOf(c.ref()).Elem().Set(val)
		return nil
	}
	c.ptr = e.build(val)
	return nil
}

func (c *cell) clone() cell {
	return cell{
		tab:   c.tab,
		which: c.which,
		ptr:   c.tab.entries[c.which].clone(c.live()),
	}
}

// move hands the storage to the returned cell and refills c with the default
// value of the same alternative.
func (c *cell) move() cell {
	out := cell{tab: c.tab, which: c.which, ptr: c.live()}
	c.ptr = c.tab.entries[c.which].zero()
	return out
}

func (c *cell) equal(o *cell) bool {
	if c.which != o.which {
		return false
	}
	return c.tab.entries[c.which].equal(c.live(), o.live())
}

// replace takes over the state of o, which is left unconstructed, and
// destroys the value c held.
func (c *cell) replace(o *cell) {
	c.swap(o)
	o.destroy()
}

// reset destroys the live alternative and returns to the default state.
func (c *cell) reset() {
	c.destroy()
	c.which = 0
}

// refOf returns a pointer to the live value if its unwrapped or declared type
// is t.
func (c *cell) refOf(t reflect.Type) (any, error) {
	i := c.tab.set.IndexOfExact(t)
	stored := false
	if i == NoMatch {
		i = c.tab.boxedIndex(t)
		stored = i != NoMatch
	}
	if i == NoMatch {
		return nil, errors.New(errors.PhaseCompile, errors.KindNoAlternative).
			Path(c.tab.path...).
			GoType(t.String()).
			Detail("not an alternative of this variant").
			Build()
	}
	if i != c.which {
		return nil, errors.TypeMismatch(errors.PhaseGet, c.tab.path, t.String(), c.activeName())
	}
	if stored {
		return c.live(), nil
	}
	return c.ref(), nil
}

// refAt returns a pointer to the unwrapped live value if alternative i is live.
func (c *cell) refAt(i int) (any, error) {
	if i < 0 || i >= len(c.tab.entries) {
		return nil, errors.InvalidDiscriminant(errors.PhaseGet, c.tab.path, i, len(c.tab.entries))
	}
	if i != c.which {
		return nil, errors.TypeMismatch(errors.PhaseGet, c.tab.path, c.tab.entries[i].name, c.activeName())
	}
	return c.ref(), nil
}

// valueAt returns a deep copy of the unwrapped live value if alternative i is
// live.
func (c *cell) valueAt(i int) (any, error) {
	ref, err := c.refAt(i)
	if err != nil {
		return nil, err
	}
	e := &c.tab.entries[i]
	out := reflect.New(e.typ)
	e.vplan.Copy(out.Elem(), reflect.ValueOf(ref).Elem())
	return out.Elem().Interface(), nil
}

// storedAt returns the live alternative with its declared type.
func storedAt[T any](c *cell, i int) (*T, error) {
	if i != c.which {
		return nil, errors.TypeMismatch(errors.PhaseGet, c.tab.path, reflect.TypeFor[T]().String(), c.activeName())
	}
	return c.live().(*T), nil
}

// getAt returns a deep copy of the live alternative with its declared type.
func getAt[T any](c *cell, i int) (T, error) {
	p, err := storedAt[T](c, i)
	if err != nil {
		var zero T
		return zero, err
	}
	return plan.Clone(*p), nil
}

// setAt assigns x, of the declared type of alternative i. The copy of x is made
// before the cell is touched, so a panic leaves it unchanged. Only a live boxed
// alternative is written in place; everything else gets a new allocation.
func setAt[T any](c *cell, i int, x T) {
	v := plan.Clone(x)
	switch {
	case c.which != i || c.ptr == nil:
		c.adopt(i, &v)
	case c.tab.entries[i].boxed:
		c.ptr.(boxer).assignBox(&v)
	default:
		c.ptr = &v
	}
}
