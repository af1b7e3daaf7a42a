package describe

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/variant"
	"github.com/wippyai/variant/errors"
)

var (
	variantType = reflect.TypeFor[variant.Variant]()
	boxPkg      = reflect.TypeFor[variant.Box[int]]().PkgPath()
)

// WIT returns the alternative set of tab as a WIT variant type definition.
func WIT(tab *variant.Table) (*wit.TypeDef, error) {
	if tab == nil {
		return nil, errors.NilPointer(errors.PhaseDescribe, nil, "*variant.Table")
	}
	d := &describer{active: make(map[reflect.Type]bool)}
	return d.variant(tab, tab.Type(), []string{tab.Type().String()})
}

// Of returns the WIT definition of v's variant type. The definition is named
// after v's own type, so a struct embedding a variant keeps its name.
func Of(v variant.Variant) (*wit.TypeDef, error) {
	tab, err := variant.TableFor(v)
	if err != nil {
		return nil, err
	}
	named := reflect.TypeOf(v).Elem()
	d := &describer{active: make(map[reflect.Type]bool)}
	return d.variant(tab, named, []string{named.String()})
}

// CaseNames returns the WIT case names WIT gives the alternatives of tab, in
// declaration order.
func CaseNames(tab *variant.Table) []string {
	names := lo.Map(tab.Alternatives(), func(alt variant.Alternative, _ int) string {
		return caseName(alt.Type, alt.Index)
	})
	seen := make(map[string]int, len(names))
	for i, n := range names {
		if seen[n]++; seen[n] > 1 {
			names[i] = n + "-" + strconv.Itoa(i)
		}
	}
	return names
}

type describer struct {
	// active holds the composite types being described, to detect recursion.
	active map[reflect.Type]bool
}

func (d *describer) enter(t reflect.Type, path []string) error {
	if d.active[t] {
		return errors.New(errors.PhaseDescribe, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("recursive type %s has no WIT representation", t).
			Build()
	}
	d.active[t] = true
	return nil
}

func (d *describer) leave(t reflect.Type) {
	delete(d.active, t)
}

func (d *describer) variant(tab *variant.Table, named reflect.Type, path []string) (*wit.TypeDef, error) {
	if err := d.enter(tab.Type(), path); err != nil {
		return nil, err
	}
	defer d.leave(tab.Type())

	names := CaseNames(tab)
	cases := make([]wit.Case, 0, tab.Len())
	for _, alt := range tab.Alternatives() {
		c := wit.Case{Name: names[alt.Index]}
		if !isEmptyStruct(alt.Type) {
			typ, err := d.typ(alt.Type, sub(path, names[alt.Index]))
			if err != nil {
				return nil, err
			}
			c.Type = typ
		}
		cases = append(cases, c)
	}

	return &wit.TypeDef{
		Name: typeDefName(named),
		Kind: &wit.Variant{Cases: cases},
	}, nil
}

func (d *describer) typ(t reflect.Type, path []string) (wit.Type, error) {
	if reflect.PointerTo(t).Implements(variantType) {
		tab, err := variant.TableFor(reflect.New(t).Interface().(variant.Variant))
		if err != nil {
			return nil, err
		}
		return d.variant(tab, t, path)
	}
	if elem, ok := boxElem(t); ok {
		return d.typ(elem, path)
	}

	switch t.Kind() {
	case reflect.Bool:
		return wit.Bool{}, nil
	case reflect.Int8:
		return wit.S8{}, nil
	case reflect.Int16:
		return wit.S16{}, nil
	case reflect.Int32:
		return wit.S32{}, nil
	case reflect.Int, reflect.Int64:
		return wit.S64{}, nil
	case reflect.Uint8:
		return wit.U8{}, nil
	case reflect.Uint16:
		return wit.U16{}, nil
	case reflect.Uint32:
		return wit.U32{}, nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return wit.U64{}, nil
	case reflect.Float32:
		return wit.F32{}, nil
	case reflect.Float64:
		return wit.F64{}, nil
	case reflect.String:
		return wit.String{}, nil
	case reflect.Slice:
		return d.list(t, path)
	case reflect.Array:
		return d.tuple(t, path)
	case reflect.Map:
		return d.mapping(t, path)
	case reflect.Pointer:
		elem, err := d.typ(t.Elem(), sub(path, "[elem]"))
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.Option{Type: elem}}, nil
	case reflect.Struct:
		return d.record(t, path)
	}

	return nil, errors.New(errors.PhaseDescribe, errors.KindUnsupported).
		Path(path...).
		GoType(t.String()).
		Detail("%s values have no WIT representation", t.Kind()).
		Build()
}

func (d *describer) list(t reflect.Type, path []string) (wit.Type, error) {
	if err := d.enter(t, path); err != nil {
		return nil, err
	}
	defer d.leave(t)

	elem, err := d.typ(t.Elem(), sub(path, "[elem]"))
	if err != nil {
		return nil, err
	}
	return &wit.TypeDef{Kind: &wit.List{Type: elem}}, nil
}

func (d *describer) tuple(t reflect.Type, path []string) (wit.Type, error) {
	if t.Len() == 0 {
		return &wit.TypeDef{Kind: &wit.Tuple{}}, nil
	}
	elem, err := d.typ(t.Elem(), sub(path, "[elem]"))
	if err != nil {
		return nil, err
	}
	return &wit.TypeDef{Kind: &wit.Tuple{Types: lo.Times(t.Len(), func(int) wit.Type { return elem })}}, nil
}

func (d *describer) mapping(t reflect.Type, path []string) (wit.Type, error) {
	if err := d.enter(t, path); err != nil {
		return nil, err
	}
	defer d.leave(t)

	key, err := d.typ(t.Key(), sub(path, "[key]"))
	if err != nil {
		return nil, err
	}
	val, err := d.typ(t.Elem(), sub(path, "[value]"))
	if err != nil {
		return nil, err
	}
	entry := &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{key, val}}}
	return &wit.TypeDef{Kind: &wit.List{Type: entry}}, nil
}

func (d *describer) record(t reflect.Type, path []string) (wit.Type, error) {
	if err := d.enter(t, path); err != nil {
		return nil, err
	}
	defer d.leave(t)

	exported := lo.Filter(reflect.VisibleFields(t), func(f reflect.StructField, _ int) bool {
		return f.IsExported() && !f.Anonymous
	})
	if len(exported) == 0 {
		return &wit.TypeDef{Kind: &wit.Tuple{}}, nil
	}

	fields := make([]wit.Field, 0, len(exported))
	for _, f := range exported {
		name := toKebabCase(f.Name)
		typ, err := d.typ(f.Type, sub(path, name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, wit.Field{Name: name, Type: typ})
	}

	return &wit.TypeDef{
		Name: typeDefName(t),
		Kind: &wit.Record{Fields: fields},
	}, nil
}

func sub(path []string, name string) []string {
	return append(append([]string{}, path...), name)
}

// boxElem reports the pointee type of a variant.Box instantiation.
func boxElem(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Struct || t.PkgPath() != boxPkg || !strings.HasPrefix(t.Name(), "Box[") {
		return nil, false
	}
	get, ok := reflect.PointerTo(t).MethodByName("Get")
	if !ok || get.Type.NumOut() != 1 {
		return nil, false
	}
	return get.Type.Out(0).Elem(), true
}

func isEmptyStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}

// caseName derives a WIT identifier from the Go type name of an
// alternative. Unnamed types are named by position.
func caseName(t reflect.Type, i int) string {
	if name := baseName(t); name != "" {
		return toKebabCase(name)
	}
	return "case-" + strconv.Itoa(i)
}

func typeDefName(t reflect.Type) *string {
	name := baseName(t)
	if name == "" {
		return nil
	}
	return lo.ToPtr(toKebabCase(name))
}

// baseName is the type name without type arguments.
func baseName(t reflect.Type) string {
	name, _, _ := strings.Cut(t.Name(), "[")
	return name
}

func toKebabCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
