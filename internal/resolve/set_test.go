package resolve

import (
	stderrors "errors"
	"reflect"
	"testing"

	"go.uber.org/multierr"

	"github.com/wippyai/variant/errors"
)

type boxed[T any] struct{ p *T }

type point struct {
	X, Y int
}

type hidden struct {
	x int
}

type celsius float64

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func unwrapBoxed(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Struct && t.NumField() == 1 && t.Field(0).Name == "p" {
		return t.Field(0).Type.Elem(), true
	}
	return nil, false
}

func mustSet(t *testing.T, types ...reflect.Type) *Set {
	t.Helper()
	s, err := NewSet([]string{"test"}, types, unwrapBoxed)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return s
}

func TestNewSet_Duplicates(t *testing.T) {
	_, err := NewSet(nil, []reflect.Type{typeOf[int](), typeOf[string](), typeOf[int](), typeOf[string]()}, nil)
	if err == nil {
		t.Fatal("expected error for duplicate alternatives")
	}

	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), err)
	}
	for _, e := range errs {
		if !stderrors.Is(e, &errors.Error{Phase: errors.PhaseCompile, Kind: errors.KindDuplicateAlternative}) {
			t.Errorf("unexpected error %v", e)
		}
	}
}

func TestNewSet_BoxedDuplicate(t *testing.T) {
	_, err := NewSet(nil, []reflect.Type{typeOf[point](), typeOf[boxed[point]]()}, unwrapBoxed)
	if err == nil {
		t.Fatal("a boxed point and a point are the same alternative")
	}
}

func TestNewSet_Empty(t *testing.T) {
	_, err := NewSet(nil, nil, nil)
	if !stderrors.Is(err, &errors.Error{Kind: errors.KindInvalidInput}) {
		t.Fatalf("got %v, want invalid input", err)
	}
}

func TestSet_Alternatives(t *testing.T) {
	s := mustSet(t, typeOf[int](), typeOf[boxed[point]]())

	if s.Len() != 2 {
		t.Fatalf("Len = %d", s.Len())
	}
	alt := s.At(1)
	if !alt.Boxed || alt.Type != typeOf[point]() || alt.Stored != typeOf[boxed[point]]() {
		t.Errorf("boxed alternative = %+v", alt)
	}

	names := s.Names()
	if names[0] != "int" || names[1] != "resolve.point" {
		t.Errorf("Names = %v", names)
	}

	alts := s.Alternatives()
	alts[0].Index = 99
	if s.At(0).Index != 0 {
		t.Error("Alternatives must return a copy")
	}
}

func TestSet_IndexOfExact(t *testing.T) {
	s := mustSet(t, typeOf[int](), typeOf[string](), typeOf[boxed[point]]())

	tests := []struct {
		typ  reflect.Type
		want int
	}{
		{typeOf[int](), 0},
		{typeOf[string](), 1},
		{typeOf[point](), 2},
		{typeOf[boxed[point]](), NoMatch},
		{typeOf[int64](), NoMatch},
	}

	for _, tt := range tests {
		if got := s.IndexOfExact(tt.typ); got != tt.want {
			t.Errorf("IndexOfExact(%v) = %d, want %d", tt.typ, got, tt.want)
		}
	}
}

func TestSet_FirstConstructible(t *testing.T) {
	tests := []struct {
		name string
		set  []reflect.Type
		args []reflect.Type
		want int
	}{
		{"zero args picks first", []reflect.Type{typeOf[string](), typeOf[int]()}, nil, 0},
		{"exact", []reflect.Type{typeOf[string](), typeOf[int]()}, []reflect.Type{typeOf[int]()}, 1},
		{"numeric conversion", []reflect.Type{typeOf[string](), typeOf[float64]()}, []reflect.Type{typeOf[int]()}, 1},
		{"declaration order wins", []reflect.Type{typeOf[int64](), typeOf[float64]()}, []reflect.Type{typeOf[int32]()}, 0},
		{"int never becomes string", []reflect.Type{typeOf[string]()}, []reflect.Type{typeOf[int]()}, NoMatch},
		{"bytes to string", []reflect.Type{typeOf[int](), typeOf[string]()}, []reflect.Type{typeOf[[]byte]()}, 1},
		{"string to runes", []reflect.Type{typeOf[int](), typeOf[[]rune]()}, []reflect.Type{typeOf[string]()}, 1},
		{"named float", []reflect.Type{typeOf[bool](), typeOf[celsius]()}, []reflect.Type{typeOf[float64]()}, 1},
		{"struct from fields", []reflect.Type{typeOf[int](), typeOf[point]()}, []reflect.Type{typeOf[int](), typeOf[int]()}, 1},
		{"struct through box", []reflect.Type{typeOf[int](), typeOf[boxed[point]]()}, []reflect.Type{typeOf[int](), typeOf[int]()}, 1},
		{"struct wrong arity", []reflect.Type{typeOf[point]()}, []reflect.Type{typeOf[int](), typeOf[int](), typeOf[int]()}, NoMatch},
		{"unexported fields", []reflect.Type{typeOf[hidden]()}, []reflect.Type{typeOf[int]()}, NoMatch},
		{"untyped nil", []reflect.Type{typeOf[int](), typeOf[*point]()}, []reflect.Type{nil}, 1},
		{"slice to array excluded", []reflect.Type{typeOf[[2]int]()}, []reflect.Type{typeOf[[]int]()}, NoMatch},
		{"interface alternative", []reflect.Type{typeOf[int](), typeOf[error]()}, []reflect.Type{reflect.TypeOf(stderrors.New("x"))}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSet(t, tt.set...)
			if got := s.FirstConstructible(tt.args...); got != tt.want {
				t.Errorf("FirstConstructible = %d, want %d", got, tt.want)
			}
			// second lookup is served from the memo table
			if got := s.FirstConstructible(tt.args...); got != tt.want {
				t.Errorf("memoised FirstConstructible = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSet_FirstConstructible_ManyArgs(t *testing.T) {
	type wide struct{ A, B, C, D, E int }
	s := mustSet(t, typeOf[int](), typeOf[wide]())
	i := typeOf[int]()
	if got := s.FirstConstructible(i, i, i, i, i); got != 1 {
		t.Errorf("FirstConstructible = %d, want 1", got)
	}
}

func TestSet_FirstAssignable(t *testing.T) {
	s := mustSet(t, typeOf[int](), typeOf[error](), typeOf[any]())

	tests := []struct {
		typ  reflect.Type
		want int
	}{
		{typeOf[int](), 0},
		{reflect.TypeOf(stderrors.New("x")), 1},
		{typeOf[string](), 2},
		{nil, 1},
	}

	for _, tt := range tests {
		if got := s.FirstAssignable(tt.typ); got != tt.want {
			t.Errorf("FirstAssignable(%v) = %d, want %d", tt.typ, got, tt.want)
		}
	}

	strict := mustSet(t, typeOf[int](), typeOf[string]())
	if got := strict.FirstAssignable(typeOf[float64]()); got != NoMatch {
		t.Errorf("FirstAssignable(float64) = %d, want NoMatch", got)
	}
}

func TestSet_Assignable(t *testing.T) {
	s := mustSet(t, typeOf[int](), typeOf[boxed[point]]())

	if !s.Assignable(1, typeOf[point]()) {
		t.Error("boxed alternative must accept its pointee")
	}
	if s.Assignable(0, typeOf[int64]()) {
		t.Error("int64 is not assignable to int")
	}
	if s.Assignable(5, typeOf[int]()) || s.Assignable(-1, typeOf[int]()) {
		t.Error("out of range index must not be assignable")
	}
}
