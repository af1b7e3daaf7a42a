package plan

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/wippyai/variant/errors"
)

// Plan is the compiled copy and equality procedure for one Go type.
type Plan struct {
	Type   reflect.Type
	copy   func(dst, src reflect.Value)
	equal  func(a, b reflect.Value) bool
	pure   bool
	custom bool
}

// Pure reports whether assignment alone yields an independent copy.
func (p *Plan) Pure() bool {
	return p.pure
}

// Copy writes an independent copy of src into dst. dst must be settable.
func (p *Plan) Copy(dst, src reflect.Value) {
	p.copy(dst, src)
}

// Equal reports whether a and b hold equal values.
func (p *Plan) Equal(a, b reflect.Value) bool {
	return p.equal(a, b)
}

// Compiler builds and caches plans.
type Compiler struct {
	cache sync.Map // reflect.Type -> *Plan
}

// NewCompiler creates an empty compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

var defaultCompiler = NewCompiler()

// For returns the plan for t from the shared compiler.
func For(t reflect.Type) (*Plan, error) {
	return defaultCompiler.Compile(t)
}

// Compile returns the cached plan for t, building it on first use.
func (c *Compiler) Compile(t reflect.Type) (*Plan, error) {
	if t == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindNilPointer).
			Detail("Go type cannot be nil").
			Build()
	}

	if cached, ok := c.cache.Load(t); ok {
		return cached.(*Plan), nil
	}

	b := &builder{building: make(map[reflect.Type]*Plan)}
	p := b.compile(t)

	for typ, built := range b.building {
		c.cache.LoadOrStore(typ, built)
	}
	actual, _ := c.cache.LoadOrStore(t, p)
	return actual.(*Plan), nil
}

type builder struct {
	building map[reflect.Type]*Plan
	pending  map[reflect.Type]bool
}

func (b *builder) compile(t reflect.Type) *Plan {
	if p, ok := b.building[t]; ok {
		if b.pending[t] {
			// recursive reference, flags are not known yet
			return &Plan{
				Type:   t,
				copy:   func(dst, src reflect.Value) { p.copy(dst, src) },
				equal:  func(x, y reflect.Value) bool { return p.equal(x, y) },
				custom: true,
			}
		}
		return p
	}

	p := &Plan{Type: t}
	b.building[t] = p
	if b.pending == nil {
		b.pending = make(map[reflect.Type]bool)
	}
	b.pending[t] = true
	defer delete(b.pending, t)

	switch t.Kind() {
	case reflect.Struct:
		b.compileStruct(p)
	case reflect.Array:
		b.compileArray(p)
	case reflect.Slice:
		b.compileSlice(p)
	case reflect.Map:
		b.compileMap(p)
	default:
		p.pure = true
	}

	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		if fn, ok := cloneMethod(t); ok {
			p.copy = fn
			p.pure = false
		}
		if fn, ok := equalMethod(t); ok {
			p.equal = fn
			p.custom = true
		}
	}

	if p.copy == nil {
		p.copy = assign
	}
	if p.equal == nil {
		p.equal = deepEqual
	}
	return p
}

func (b *builder) compileStruct(p *Plan) {
	t := p.Type
	fields := make([]*Plan, t.NumField())
	p.pure = true
	for i := range fields {
		fields[i] = b.compile(t.Field(i).Type)
		p.pure = p.pure && fields[i].pure
		p.custom = p.custom || fields[i].custom
	}

	if !p.pure {
		p.copy = func(dst, src reflect.Value) {
			dst.Set(src)
			src = addressable(src)
			for i, fp := range fields {
				if !fp.pure {
					fp.copy(field(dst, i), field(src, i))
				}
			}
		}
	}
	if p.custom {
		p.equal = func(a, b reflect.Value) bool {
			a, b = addressable(a), addressable(b)
			for i, fp := range fields {
				if !fp.equal(field(a, i), field(b, i)) {
					return false
				}
			}
			return true
		}
	}
}

func (b *builder) compileArray(p *Plan) {
	elem := b.compile(p.Type.Elem())
	p.pure = elem.pure
	p.custom = elem.custom

	if !p.pure {
		p.copy = func(dst, src reflect.Value) {
			dst.Set(src)
			for i := 0; i < src.Len(); i++ {
				elem.copy(dst.Index(i), src.Index(i))
			}
		}
	}
	if p.custom {
		p.equal = func(a, b reflect.Value) bool {
			for i := 0; i < a.Len(); i++ {
				if !elem.equal(a.Index(i), b.Index(i)) {
					return false
				}
			}
			return true
		}
	}
}

func (b *builder) compileSlice(p *Plan) {
	elem := b.compile(p.Type.Elem())
	p.custom = elem.custom

	p.copy = func(dst, src reflect.Value) {
		if src.IsNil() {
			dst.SetZero()
			return
		}
		n := src.Len()
		out := reflect.MakeSlice(p.Type, n, n)
		if elem.pure {
			reflect.Copy(out, src)
		} else {
			for i := 0; i < n; i++ {
				elem.copy(out.Index(i), src.Index(i))
			}
		}
		dst.Set(out)
	}
	if p.custom {
		p.equal = func(a, b reflect.Value) bool {
			if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
				return false
			}
			for i := 0; i < a.Len(); i++ {
				if !elem.equal(a.Index(i), b.Index(i)) {
					return false
				}
			}
			return true
		}
	}
}

func (b *builder) compileMap(p *Plan) {
	elem := b.compile(p.Type.Elem())
	p.custom = elem.custom

	p.copy = func(dst, src reflect.Value) {
		if src.IsNil() {
			dst.SetZero()
			return
		}
		out := reflect.MakeMapWithSize(p.Type, src.Len())
		iter := src.MapRange()
		for iter.Next() {
			if elem.pure {
				out.SetMapIndex(iter.Key(), iter.Value())
				continue
			}
			v := reflect.New(p.Type.Elem()).Elem()
			elem.copy(v, iter.Value())
			out.SetMapIndex(iter.Key(), v)
		}
		dst.Set(out)
	}
	if p.custom {
		p.equal = func(a, b reflect.Value) bool {
			if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
				return false
			}
			iter := a.MapRange()
			for iter.Next() {
				other := b.MapIndex(iter.Key())
				if !other.IsValid() || !elem.equal(iter.Value(), other) {
					return false
				}
			}
			return true
		}
	}
}

// cloneMethod finds Clone() T on T or *T.
func cloneMethod(t reflect.Type) (func(dst, src reflect.Value), bool) {
	if m, ok := t.MethodByName("Clone"); ok && m.Type.NumIn() == 1 && m.Type.NumOut() == 1 && m.Type.Out(0) == t {
		return func(dst, src reflect.Value) {
			dst.Set(m.Func.Call([]reflect.Value{src})[0])
		}, true
	}
	if m, ok := reflect.PointerTo(t).MethodByName("Clone"); ok && m.Type.NumIn() == 1 && m.Type.NumOut() == 1 && m.Type.Out(0) == t {
		return func(dst, src reflect.Value) {
			dst.Set(m.Func.Call([]reflect.Value{addressable(src).Addr()})[0])
		}, true
	}
	return nil, false
}

// equalMethod finds Equal(T) bool on T or *T.
func equalMethod(t reflect.Type) (func(a, b reflect.Value) bool, bool) {
	match := func(m reflect.Method) bool {
		return m.Type.NumIn() == 2 && m.Type.In(1) == t && m.Type.NumOut() == 1 && m.Type.Out(0).Kind() == reflect.Bool
	}
	if m, ok := t.MethodByName("Equal"); ok && match(m) {
		return func(a, b reflect.Value) bool {
			return m.Func.Call([]reflect.Value{a, b})[0].Bool()
		}, true
	}
	if m, ok := reflect.PointerTo(t).MethodByName("Equal"); ok && match(m) {
		return func(a, b reflect.Value) bool {
			return m.Func.Call([]reflect.Value{addressable(a).Addr(), b})[0].Bool()
		}, true
	}
	return nil, false
}

func assign(dst, src reflect.Value) {
	dst.Set(src)
}

func deepEqual(a, b reflect.Value) bool {
	return reflect.DeepEqual(a.Interface(), b.Interface())
}

// addressable returns v itself when addressable, otherwise a fresh addressable copy.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}

// field returns field i of the addressable struct v with the read-only flag cleared.
func field(v reflect.Value, i int) reflect.Value {
	f := v.Field(i)
	if f.CanSet() {
		return f
	}
	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
}
