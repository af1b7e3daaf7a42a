package plan

import (
	"reflect"
	"testing"
)

type flat struct {
	A int
	B string
}

type nested struct {
	Tags  []string
	Attrs map[string][]int
	Inner flat
	note  []byte
}

type cloner struct {
	Data   []int
	clones *int
}

func (c cloner) Clone() cloner {
	if c.clones != nil {
		*c.clones++
	}
	return cloner{Data: append([]int(nil), c.Data...), clones: c.clones}
}

type ptrCloner struct {
	N int
}

func (p *ptrCloner) Clone() ptrCloner {
	return ptrCloner{N: p.N + 1}
}

type approx struct {
	V float64
}

func (a approx) Equal(o approx) bool {
	d := a.V - o.V
	return d < 0.01 && d > -0.01
}

type holder struct {
	Items []approx
	Key   approx
}

type tree struct {
	Kids  []tree
	Label string
}

func TestCompile_NilType(t *testing.T) {
	if _, err := NewCompiler().Compile(nil); err == nil {
		t.Fatal("expected error for nil type")
	}
}

func TestCompile_Cached(t *testing.T) {
	c := NewCompiler()
	p1, err := c.Compile(reflect.TypeFor[nested]())
	if err != nil {
		t.Fatal(err)
	}
	p2, _ := c.Compile(reflect.TypeFor[nested]())
	if p1 != p2 {
		t.Error("plans must be cached per type")
	}
}

func TestPure(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want bool
	}{
		{reflect.TypeFor[int](), true},
		{reflect.TypeFor[string](), true},
		{reflect.TypeFor[flat](), true},
		{reflect.TypeFor[[4]flat](), true},
		{reflect.TypeFor[*nested](), true},
		{reflect.TypeFor[any](), true},
		{reflect.TypeFor[[]int](), false},
		{reflect.TypeFor[map[string]int](), false},
		{reflect.TypeFor[nested](), false},
		{reflect.TypeFor[cloner](), false},
		{reflect.TypeFor[ptrCloner](), false},
		{reflect.TypeFor[[2][]int](), false},
	}

	for _, tt := range tests {
		p, err := For(tt.typ)
		if err != nil {
			t.Fatal(err)
		}
		if p.Pure() != tt.want {
			t.Errorf("Pure(%v) = %v, want %v", tt.typ, p.Pure(), tt.want)
		}
	}
}

func TestClone_Independent(t *testing.T) {
	src := nested{
		Tags:  []string{"a", "b"},
		Attrs: map[string][]int{"x": {1, 2}},
		Inner: flat{A: 1, B: "one"},
		note:  []byte("hi"),
	}

	dst := Clone(src)
	if !reflect.DeepEqual(src, dst) {
		t.Fatalf("clone differs: %+v vs %+v", src, dst)
	}

	dst.Tags[0] = "changed"
	dst.Attrs["x"][0] = 99
	dst.note[0] = 'H'

	if src.Tags[0] != "a" {
		t.Error("slice storage shared")
	}
	if src.Attrs["x"][0] != 1 {
		t.Error("map value storage shared")
	}
	if src.note[0] != 'h' {
		t.Error("unexported slice storage shared")
	}
}

func TestClone_NilContainers(t *testing.T) {
	var src nested
	dst := Clone(src)
	if dst.Tags != nil || dst.Attrs != nil {
		t.Errorf("nil containers must stay nil: %+v", dst)
	}
}

func TestClone_Method(t *testing.T) {
	count := 0
	src := cloner{Data: []int{1, 2, 3}, clones: &count}

	dst := Clone(src)
	if count != 1 {
		t.Errorf("Clone method called %d times, want 1", count)
	}
	dst.Data[0] = 7
	if src.Data[0] != 1 {
		t.Error("clone method result shares storage")
	}

	if got := Clone(ptrCloner{N: 1}); got.N != 2 {
		t.Errorf("pointer receiver Clone not used, got %+v", got)
	}
}

func TestClone_MethodInsideContainers(t *testing.T) {
	count := 0
	src := []cloner{{Data: []int{1}, clones: &count}, {Data: []int{2}, clones: &count}}

	dst := Clone(src)
	if count != 2 {
		t.Errorf("Clone method called %d times, want 2", count)
	}
	dst[1].Data[0] = 9
	if src[1].Data[0] != 2 {
		t.Error("element storage shared")
	}
}

func TestClone_Recursive(t *testing.T) {
	src := tree{Label: "root", Kids: []tree{{Label: "a"}, {Label: "b", Kids: []tree{{Label: "c"}}}}}

	dst := Clone(src)
	dst.Kids[1].Kids[0].Label = "changed"
	if src.Kids[1].Kids[0].Label != "c" {
		t.Error("recursive storage shared")
	}
	if !Equal(&src, &src) {
		t.Error("value must equal itself")
	}
}

func TestCopyInto(t *testing.T) {
	src := []int{1, 2}
	var dst []int
	CopyInto(&dst, &src)
	dst[0] = 5
	if src[0] != 1 {
		t.Error("CopyInto shared storage")
	}

	a, b := 3, 0
	CopyInto(&b, &a)
	if b != 3 {
		t.Errorf("b = %d", b)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b holder
		want bool
	}{
		{"identical", holder{Key: approx{1}}, holder{Key: approx{1}}, true},
		{"method tolerance", holder{Key: approx{1}}, holder{Key: approx{1.001}}, true},
		{"method inside slice", holder{Items: []approx{{2}}}, holder{Items: []approx{{2.005}}}, true},
		{"different", holder{Key: approx{1}}, holder{Key: approx{2}}, false},
		{"length", holder{Items: []approx{{1}}}, holder{Items: []approx{{1}, {1}}}, false},
		{"nil vs empty", holder{Items: nil}, holder{Items: []approx{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(&tt.a, &tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual_Map(t *testing.T) {
	a := map[string]approx{"k": {1}}
	b := map[string]approx{"k": {1.002}}
	c := map[string]approx{"j": {1}}

	if !Equal(&a, &b) {
		t.Error("maps with equal values must be equal")
	}
	if Equal(&a, &c) {
		t.Error("maps with different keys must differ")
	}
}

func TestEqual_DeepFallback(t *testing.T) {
	a := nested{Tags: []string{"x"}, note: []byte{1}}
	b := nested{Tags: []string{"x"}, note: []byte{1}}
	if !Equal(&a, &b) {
		t.Error("deep equal fallback failed")
	}
	b.note[0] = 2
	if Equal(&a, &b) {
		t.Error("unexported fields must be compared")
	}
}
