package variant

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/variant/errors"
	"github.com/wippyai/variant/internal/layout"
	"github.com/wippyai/variant/internal/plan"
	"github.com/wippyai/variant/internal/resolve"
)

// NoMatch is returned by resolution helpers when no alternative applies.
const NoMatch = resolve.NoMatch

// Releaser is implemented by alternatives that hold resources. Release is
// called when the alternative is destroyed: replaced by another alternative or
// dropped by Reset. Release must not fail.
type Releaser interface {
	Release()
}

var releaserType = reflect.TypeFor[Releaser]()

// Alternative describes one member of a variant's alternative set.
type Alternative struct {
	Type   reflect.Type // unwrapped type
	Stored reflect.Type // declared type, a Box when Boxed
	Index  int
	Boxed  bool
}

// Layout reports what a raw storage cell for the set would need: a
// discriminant followed by a payload sized and aligned for every alternative.
type Layout struct {
	Size             uintptr
	Align            uintptr
	DiscriminantSize uintptr
	PayloadOffset    uintptr
	PayloadSize      uintptr
	Widest           int
	Strictest        int
}

// Table is the dispatch table of one variant type. It is built once per type,
// on first use, and shared by every value of that type.
type Table struct {
	typ     reflect.Type
	set     *resolve.Set
	entries []entry
	path    []string
	layout  Layout
}

// entry holds the operations for one alternative.
type entry struct {
	stored  reflect.Type
	typ     reflect.Type
	plan    *plan.Plan // stored type
	vplan   *plan.Plan // unwrapped type
	unwrap  func(ptr any) any
	name    string
	boxed   bool
	release bool
}

// Type returns the variant type the table belongs to.
func (t *Table) Type() reflect.Type {
	return t.typ
}

// Len returns the number of alternatives.
func (t *Table) Len() int {
	return len(t.entries)
}

// Alternatives returns the alternative descriptors in declaration order.
func (t *Table) Alternatives() []Alternative {
	out := make([]Alternative, len(t.entries))
	for i, e := range t.entries {
		out[i] = Alternative{Index: i, Type: e.typ, Stored: e.stored, Boxed: e.boxed}
	}
	return out
}

// Layout returns the storage layout of the set.
func (t *Table) Layout() Layout {
	return t.layout
}

// IndexOf returns the alternative whose unwrapped type is typ, or NoMatch.
func (t *Table) IndexOf(typ reflect.Type) int {
	return t.set.IndexOfExact(typ)
}

// FirstConstructible returns the first alternative constructible from the
// argument types, or NoMatch.
func (t *Table) FirstConstructible(args ...reflect.Type) int {
	return t.set.FirstConstructible(args...)
}

// FirstAssignable returns the first alternative a value of type typ is
// assignable to, or NoMatch.
func (t *Table) FirstAssignable(typ reflect.Type) int {
	return t.set.FirstAssignable(typ)
}

// boxedIndex returns the boxed alternative whose declared Box type is typ, or
// NoMatch.
func (t *Table) boxedIndex(typ reflect.Type) int {
	for i := range t.entries {
		if t.entries[i].boxed && t.entries[i].stored == typ {
			return i
		}
	}
	return NoMatch
}

// unbox resolves a value of a boxed alternative's declared Box type to that
// alternative and the value the box owns. Other values come back unchanged
// with NoMatch.
func (t *Table) unbox(val reflect.Value, typ reflect.Type) (int, reflect.Value, reflect.Type) {
	i := t.boxedIndex(typ)
	if i == NoMatch {
		return NoMatch, val, typ
	}
	box := reflect.New(typ)
	box.Elem().Set(val)
	return i, reflect.ValueOf(box.Interface().(boxer).ref()).Elem(), t.entries[i].typ
}

// zero allocates alternative i holding its zero value. A boxed alternative
// gets a box that already owns its zero value.
func (e *entry) zero() any {
	p := reflect.New(e.stored).Interface()
	if e.boxed {
		p.(boxer).materialise()
	}
	return p
}

// build allocates alternative i holding val, which has the unwrapped type.
func (e *entry) build(val reflect.Value) any {
	p := reflect.New(e.stored).Interface()
	reflect.ValueOf(e.unwrap(p)).Elem().Set(val)
	return p
}

func (e *entry) clone(ptr any) any {
	p := reflect.New(e.stored)
	e.plan.Copy(p.Elem(), reflect.ValueOf(ptr).Elem())
	return p.Interface()
}

func (e *entry) equal(a, b any) bool {
	return e.plan.Equal(reflect.ValueOf(a).Elem(), reflect.ValueOf(b).Elem())
}

func (e *entry) destroy(ptr any) {
	if !e.release {
		return
	}
	if r, ok := e.unwrap(ptr).(Releaser); ok {
		r.Release()
	}
}

type compiled struct {
	tab *Table
	err error
}

var tables sync.Map // reflect.Type -> *compiled

// tableOf returns the cached table for V, compiling it from the declared
// alternatives on first use.
func tableOf[V any](alternatives func() []reflect.Type) (*Table, error) {
	typ := reflect.TypeFor[V]()
	if cached, ok := tables.Load(typ); ok {
		c := cached.(*compiled)
		return c.tab, c.err
	}

	tab, err := compileTable(typ, alternatives())
	actual, _ := tables.LoadOrStore(typ, &compiled{tab: tab, err: err})
	c := actual.(*compiled)
	return c.tab, c.err
}

func mustTable[V any](alternatives func() []reflect.Type) *Table {
	tab, err := tableOf[V](alternatives)
	if err != nil {
		panic(err)
	}
	return tab
}

func compileTable(typ reflect.Type, stored []reflect.Type) (*Table, error) {
	path := []string{typ.String()}

	set, err := resolve.NewSet(path, stored, unwrapBox)
	if err != nil {
		Logger().Debug("variant rejected",
			zap.String("variant", typ.String()),
			zap.Error(err))
		return nil, err
	}

	tab := &Table{
		typ:     typ,
		set:     set,
		entries: make([]entry, set.Len()),
		path:    path,
	}

	for i := range tab.entries {
		alt := set.At(i)
		sp, err := plan.For(alt.Stored)
		if err != nil {
			return nil, err
		}
		vp, err := plan.For(alt.Type)
		if err != nil {
			return nil, err
		}

		e := &tab.entries[i]
		e.stored = alt.Stored
		e.typ = alt.Type
		e.plan = sp
		e.vplan = vp
		e.name = alt.Type.String()
		e.boxed = alt.Boxed
		e.release = reflect.PointerTo(alt.Type).Implements(releaserType)
		if alt.Boxed {
			e.unwrap = func(ptr any) any { return ptr.(boxer).ref() }
		} else {
			e.unwrap = func(ptr any) any { return ptr }
		}
	}

	info := layout.Calculate(stored)
	tab.layout = Layout{
		Size:             info.Size,
		Align:            info.Align,
		DiscriminantSize: info.DiscSize,
		PayloadOffset:    info.PayloadOffset,
		PayloadSize:      info.PayloadSize,
		Widest:           info.Widest,
		Strictest:        info.Strictest,
	}

	Logger().Debug("variant compiled",
		zap.String("variant", typ.String()),
		zap.Strings("alternatives", set.Names()),
		zap.Uintptr("size", info.Size),
		zap.Uintptr("align", info.Align))

	return tab, nil
}

// construct builds the unwrapped value of alternative i from args: a zero
// value, a converted single argument, or a struct from its fields. The result
// is an independent copy. A panic while copying is returned as a construction
// error.
func (t *Table) construct(phase errors.Phase, i int, args []reflect.Value) (val reflect.Value, err error) {
	e := &t.entries[i]

	defer func() {
		if r := recover(); r != nil {
			Logger().Debug("variant construction failed",
				zap.String("variant", t.typ.String()),
				zap.String("alternative", e.name),
				zap.Any("panic", r))
			err = errors.Construction(phase, t.path, e.name, r)
		}
	}()

	tmp := reflect.New(e.typ).Elem()
	switch {
	case len(args) == 0:
	case len(args) == 1 && !args[0].IsValid():
	case len(args) == 1 && resolve.Convertible(args[0].Type(), e.typ):
		if args[0].Type().AssignableTo(e.typ) {
			tmp.Set(args[0])
		} else {
			tmp.Set(args[0].Convert(e.typ))
		}
	default:
		for k, arg := range args {
			if arg.IsValid() {
				tmp.Field(k).Set(arg)
			}
		}
	}

	if e.vplan.Pure() {
		return tmp, nil
	}
	out := reflect.New(e.typ).Elem()
	e.vplan.Copy(out, tmp)
	return out, nil
}
