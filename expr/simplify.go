package expr

import (
	"github.com/wippyai/variant"
)

// Simplify folds constant subtrees of e in place and drops identity
// operands (x + 0, x * 1, x ^ 1, --x). Subtrees whose evaluation fails, such
// as a division by zero, are kept so Eval still reports them.
func Simplify(e *Expr) {
	op, err := variant.Ref[Op](e)
	if err != nil {
		return
	}
	for i := range op.Args {
		Simplify(&op.Args[i])
	}

	if allNums(op.Args) {
		if v, err := Eval(e, nil); err == nil {
			e.Set0(Num(v))
		}
		return
	}

	if keep, ok := identity(op); ok {
		e.MoveFrom(&op.Args[keep].Of3)
	}
}

// identity returns the operand an identity operation reduces to.
func identity(op *Op) (int, bool) {
	isNum := func(i int, want float64) bool {
		n, err := op.Args[i].Get0()
		return err == nil && float64(n) == want
	}

	switch {
	case len(op.Args) == 2 && op.Name == "+" && isNum(0, 0):
		return 1, true
	case len(op.Args) == 2 && (op.Name == "+" || op.Name == "-") && isNum(1, 0):
		return 0, true
	case len(op.Args) == 2 && op.Name == "*" && isNum(0, 1):
		return 1, true
	case len(op.Args) == 2 && (op.Name == "*" || op.Name == "/" || op.Name == "^") && isNum(1, 1):
		return 0, true
	case len(op.Args) == 1 && op.Name == "neg":
		inner, err := variant.Ref[Op](&op.Args[0])
		if err == nil && inner.Name == "neg" && len(inner.Args) == 1 {
			// -(-x): keep the inner operand's operand
			op.Args[0].MoveFrom(&inner.Args[0].Of3)
			return 0, true
		}
	}
	return 0, false
}

func allNums(args []Expr) bool {
	for i := range args {
		if !variant.Holds[Num](&args[i]) {
			return false
		}
	}
	return true
}
