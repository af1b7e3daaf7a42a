package variant

import (
	"sync"
	"testing"
)

func TestCopy_SetIsIndependent(t *testing.T) {
	a := MustMake[Of2[int, string]](1)
	b := a

	b.Set0(2)
	if got, _ := a.Get0(); got != 1 {
		t.Errorf("a = %d after setting the copy, want 1", got)
	}
	if got, _ := b.Get0(); got != 2 {
		t.Errorf("b = %d, want 2", got)
	}

	b.Set1("x")
	if a.Which() != 0 {
		t.Errorf("a.Which = %d after switching the copy, want 0", a.Which())
	}
}

type intList []int

func TestCopy_AssignIsIndependent(t *testing.T) {
	tests := []struct {
		name string
		x    any
	}{
		{"exact", []int{2}},
		{"assignable", intList{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := MustMake[Of2[[]int, string]]([]int{1})
			b := a
			if err := Assign(&b, tt.x); err != nil {
				t.Fatal(err)
			}
			if b.Which() != 0 {
				t.Fatalf("b.Which = %d, want 0", b.Which())
			}
			if got, _ := a.Get0(); len(got) != 1 || got[0] != 1 {
				t.Errorf("a = %v after assigning the copy, want [1]", got)
			}
			if got, _ := b.Get0(); len(got) != 1 || got[0] != 2 {
				t.Errorf("b = %v, want [2]", got)
			}
		})
	}
}

func TestCopy_TakeIsIndependent(t *testing.T) {
	a := MustMake[Of2[int, []string]]([]string{"x"})
	b := a

	if _, err := Take[[]string](&b); err != nil {
		t.Fatal(err)
	}
	if got, _ := a.Get1(); len(got) != 1 || got[0] != "x" {
		t.Errorf("a = %v after taking from the copy", got)
	}
}

func TestGet_ReturnsDeepCopy(t *testing.T) {
	root := pair(leaf(1), leaf(2))

	p, err := Get[Pair](&root)
	if err != nil {
		t.Fatal(err)
	}
	l, _ := Ref[Leaf](&p.L)
	l.N = 42

	box, _ := root.Get1()
	box.Get().R.Set0(Leaf{N: 43})

	alt, _ := GetAt(&root, 1)
	q := alt.(Pair)
	r, _ := Ref[Leaf](&q.R)
	r.N = 44

	orig, _ := Ref[Pair](&root)
	if got, _ := orig.L.Get0(); got.N != 1 {
		t.Errorf("left leaf = %d after editing a Get copy, want 1", got.N)
	}
	if got, _ := orig.R.Get0(); got.N != 2 {
		t.Errorf("right leaf = %d after editing copies, want 2", got.N)
	}
}

func TestMoveFrom(t *testing.T) {
	released := 0
	var dst Of2[resource, int]
	dst.Set0(resource{released: &released})
	src := MustMake[Of2[resource, int]](7)

	dst.MoveFrom(&src)

	if released != 1 {
		t.Errorf("released %d times, want 1", released)
	}
	if got, err := dst.Get1(); err != nil || got != 7 {
		t.Errorf("dst = %d, %v, want 7", got, err)
	}
	if got, err := src.Get1(); src.Which() != 1 || err != nil || got != 0 {
		t.Errorf("src = %d (which %d), want a fresh zero int", got, src.Which())
	}

	dst.MoveFrom(&dst)
	if got, _ := dst.Get1(); got != 7 || released != 1 {
		t.Error("moving a variant into itself must leave it unchanged")
	}
}

func TestMoveFrom_Subtree(t *testing.T) {
	n := pair(pair(leaf(1), leaf(2)), leaf(3))
	p, _ := Ref[Pair](&n)

	n.MoveFrom(&p.L.Of2)

	if n.Which() != 1 {
		t.Fatalf("Which = %d, want 1", n.Which())
	}
	if got := Apply[int](&n, countLeaves); got != 2 {
		t.Errorf("leaves = %d, want 2", got)
	}
	inner, _ := Ref[Pair](&n)
	if got, _ := inner.L.Get0(); got.N != 1 {
		t.Errorf("left leaf = %d, want 1", got.N)
	}
}

func TestConcurrentReads(t *testing.T) {
	v := MustMake[Of2[int, []string]]([]string{"a", "b"})
	if _, err := v.Get1(); err != nil {
		t.Fatal(err)
	}

	size := VisitorFunc[int](func(ref any, _ ...any) int {
		if s, ok := ref.(*[]string); ok {
			return len(*s)
		}
		return 0
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if got, _ := v.Get1(); len(got) != 2 {
					t.Errorf("Get1 = %v", got)
				}
				if got := Apply[int](&v, size); got != 2 {
					t.Errorf("Apply = %d", got)
				}
			}
		}()
	}
	wg.Wait()
}
