package expr

import (
	"strconv"
	"strings"

	"github.com/wippyai/variant"
)

var infix = map[string]int{
	"+": precSum,
	"-": precSum,
	"*": precProduct,
	"/": precProduct,
	"%": precProduct,
	"^": precPower,
}

// Format prints e in infix notation. Parentheses appear only where
// precedence or associativity needs them, so formatting a parsed tree and
// parsing the result gives an equal tree.
func Format(e *Expr) string {
	var b strings.Builder
	format(&b, e, precLowest)
	return b.String()
}

// String is Format.
func (e Expr) String() string {
	return Format(&e)
}

// format writes e; ctx is the binding strength its position requires.
func format(b *strings.Builder, e *Expr, ctx int) {
	variant.Match3(&e.Of3,
		func(n *Num) struct{} {
			v := float64(*n)
			if v < 0 && ctx > precSum {
				b.WriteString("(" + formatNum(v) + ")")
			} else {
				b.WriteString(formatNum(v))
			}
			return struct{}{}
		},
		func(v *Var) struct{} {
			b.WriteString(string(*v))
			return struct{}{}
		},
		func(box *variant.Box[Op]) struct{} {
			formatOp(b, box.Get(), ctx)
			return struct{}{}
		},
	)
}

func formatOp(b *strings.Builder, op *Op, ctx int) {
	prec, isInfix := infix[op.Name]
	switch {
	case isInfix && len(op.Args) == 2:
		left, right := prec, prec+1
		if op.Name == "^" {
			left, right = prec+1, prec
		}
		paren := prec < ctx
		if paren {
			b.WriteByte('(')
		}
		format(b, &op.Args[0], left)
		b.WriteString(" " + op.Name + " ")
		format(b, &op.Args[1], right)
		if paren {
			b.WriteByte(')')
		}
	case op.Name == "neg" && len(op.Args) == 1:
		paren := precPrefix < ctx
		if paren {
			b.WriteByte('(')
		}
		b.WriteByte('-')
		format(b, &op.Args[0], precPrefix)
		if paren {
			b.WriteByte(')')
		}
	default:
		b.WriteString(op.Name)
		b.WriteByte('(')
		for i := range op.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, &op.Args[i], precLowest)
		}
		b.WriteByte(')')
	}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
