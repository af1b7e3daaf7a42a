// Package expr implements arithmetic expression trees on top of package
// variant.
//
// An Expr is a recursive variant: a number, a variable, or an operator node
// whose operands are Exprs again. The operator alternative is boxed, so an
// Expr stays small however deep the tree grows:
//
//	type Expr struct {
//		variant.Of3[Num, Var, variant.Box[Op]]
//	}
//
// Parse reads infix notation with the usual precedence (^ binds tighter than
// unary minus, which binds tighter than * / %, then + -) and function calls
// such as max(a, b, 1). Eval computes a value under an Env, Format prints an
// Expr back with the minimum of parentheses, and Simplify folds constants in
// place.
package expr
