package expr

import (
	"slices"

	"github.com/samber/lo"

	"github.com/wippyai/variant"
)

// Num is a numeric literal.
type Num float64

// Var is a variable reference.
type Var string

// Op applies an operator or a function to its operands. Name is one of
// + - * / % ^, "neg" for unary minus, or a function name.
type Op struct {
	Name string
	Args []Expr
}

// Expr is an expression tree node.
type Expr struct {
	variant.Of3[Num, Var, variant.Box[Op]]
}

// NewNum returns a literal.
func NewNum(v float64) Expr {
	var e Expr
	e.Set0(Num(v))
	return e
}

// NewVar returns a variable reference.
func NewVar(name string) Expr {
	var e Expr
	e.Set1(Var(name))
	return e
}

// NewOp returns an operator node over args. The operands are copied.
func NewOp(name string, args ...Expr) Expr {
	var e Expr
	e.Set2(variant.NewBox(Op{Name: name, Args: args}))
	return e
}

// Leaves returns the number of literals and variables in e.
func Leaves(e *Expr) int {
	return variant.Apply[int](e, countLeaves)
}

var countLeaves variant.VisitorFunc[int]

func init() {
	countLeaves = func(ref any, _ ...any) int {
		op, ok := ref.(*Op)
		if !ok {
			return 1
		}
		return lo.SumBy(op.Args, func(arg Expr) int {
			return variant.Apply[int](&arg, countLeaves)
		})
	}
}

// Depth returns the height of e. A leaf has depth 1.
func Depth(e *Expr) int {
	op, err := variant.Ref[Op](e)
	if err != nil {
		return 1
	}
	deepest := 0
	for i := range op.Args {
		deepest = max(deepest, Depth(&op.Args[i]))
	}
	return deepest + 1
}

// Vars returns the distinct variable names in e, sorted.
func Vars(e *Expr) []string {
	var names []string
	walk(e, func(n *Expr) {
		if v, err := n.Get1(); err == nil {
			names = append(names, string(v))
		}
	})
	names = lo.Uniq(names)
	slices.Sort(names)
	return names
}

// Substitute replaces every reference to name with the literal value.
func Substitute(e *Expr, name string, value float64) error {
	var err error
	walk(e, func(n *Expr) {
		if v, gerr := n.Get1(); gerr == nil && string(v) == name && err == nil {
			err = variant.Assign(n, Num(value))
		}
	})
	return err
}

// walk calls fn on every node of e, parents before their operands.
func walk(e *Expr, fn func(*Expr)) {
	fn(e)
	if op, err := variant.Ref[Op](e); err == nil {
		for i := range op.Args {
			walk(&op.Args[i], fn)
		}
	}
}
