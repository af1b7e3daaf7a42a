package expr

import (
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/wippyai/variant"
	"github.com/wippyai/variant/errors"
)

// Env binds variable names to values.
type Env map[string]float64

type function struct {
	arity int // -1 accepts one or more arguments
	fn    func(args []float64) float64
}

func unary(fn func(float64) float64) function {
	return function{arity: 1, fn: func(a []float64) float64 { return fn(a[0]) }}
}

func binary(fn func(float64, float64) float64) function {
	return function{arity: 2, fn: func(a []float64) float64 { return fn(a[0], a[1]) }}
}

var functions = map[string]function{
	"+":     binary(func(x, y float64) float64 { return x + y }),
	"-":     binary(func(x, y float64) float64 { return x - y }),
	"*":     binary(func(x, y float64) float64 { return x * y }),
	"/":     binary(func(x, y float64) float64 { return x / y }),
	"%":     binary(math.Mod),
	"^":     binary(math.Pow),
	"neg":   unary(func(x float64) float64 { return -x }),
	"abs":   unary(math.Abs),
	"sqrt":  unary(math.Sqrt),
	"exp":   unary(math.Exp),
	"ln":    unary(math.Log),
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"pow":   binary(math.Pow),
	"min":   {arity: -1, fn: func(a []float64) float64 { return lo.Min(a) }},
	"max":   {arity: -1, fn: func(a []float64) float64 { return lo.Max(a) }},
}

// Functions returns the names of the callable functions, sorted.
func Functions() []string {
	names := lo.Filter(lo.Keys(functions), func(name string, _ int) bool {
		return isLetter(rune(name[0])) && name != "neg"
	})
	slices.Sort(names)
	return names
}

// Eval computes the value of e. Variables are looked up in env.
func Eval(e *Expr, env Env) (float64, error) {
	ev := &evaluator{env: env}
	v := variant.Apply[float64](e, ev)
	if ev.err != nil {
		return 0, ev.err
	}
	return v, nil
}

// evaluator keeps the first error; later visits return zero.
type evaluator struct {
	env Env
	err error
}

func (ev *evaluator) Visit(ref any, _ ...any) float64 {
	if ev.err != nil {
		return 0
	}

	switch x := ref.(type) {
	case *Num:
		return float64(*x)
	case *Var:
		v, ok := ev.env[string(*x)]
		if !ok {
			ev.fail(errors.KindInvalidInput, "undefined variable %q", string(*x))
		}
		return v
	case *Op:
		return ev.op(x)
	}
	ev.fail(errors.KindUnsupported, "unexpected node %T", ref)
	return 0
}

func (ev *evaluator) op(op *Op) float64 {
	f, ok := functions[op.Name]
	if !ok {
		ev.fail(errors.KindUnsupported, "unknown function %q", op.Name)
		return 0
	}
	if (f.arity >= 0 && len(op.Args) != f.arity) || (f.arity < 0 && len(op.Args) == 0) {
		ev.fail(errors.KindInvalidInput, "%s takes %s, got %d", op.Name, arityText(f.arity), len(op.Args))
		return 0
	}

	args := make([]float64, len(op.Args))
	for i := range op.Args {
		args[i] = variant.Apply[float64](&op.Args[i], ev)
	}
	if ev.err != nil {
		return 0
	}
	if (op.Name == "/" || op.Name == "%") && args[1] == 0 {
		ev.fail(errors.KindInvalidInput, "division by zero")
		return 0
	}
	return f.fn(args)
}

func (ev *evaluator) fail(kind errors.Kind, format string, args ...any) {
	ev.err = errors.New(errors.PhaseVisit, kind).Detail(format, args...).Build()
}

func arityText(n int) string {
	switch n {
	case -1:
		return "at least one argument"
	case 1:
		return "one argument"
	}
	return "two arguments"
}
