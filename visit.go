package variant

// Visitor is applied to the live alternative by Apply. ref is a pointer to the
// unwrapped value, so a boxed Pair arrives as *Pair. Every alternative yields
// the same result type R.
type Visitor[R any] interface {
	Visit(ref any, args ...any) R
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc[R any] func(ref any, args ...any) R

// Visit calls f.
func (f VisitorFunc[R]) Visit(ref any, args ...any) R {
	return f(ref, args...)
}

// Apply calls vis with the live alternative of v and args. The table entry
// for the discriminant unwraps the value; no type lookup happens per call.
func Apply[R any](v Variant, vis Visitor[R], args ...any) R {
	c := v.state()
	return vis.Visit(c.tab.entries[c.which].unwrap(c.live()), args...)
}

// Match2 calls the function for the live alternative of v with a pointer to
// its declared value.
func Match2[A, B, R any](v *Of2[A, B], fa func(*A) R, fb func(*B) R) R {
	c := v.state()
	switch c.which {
	case 0:
		return fa(c.live().(*A))
	default:
		return fb(c.live().(*B))
	}
}

// Match3 is Match2 for three alternatives.
func Match3[A, B, C, R any](v *Of3[A, B, C], fa func(*A) R, fb func(*B) R, fc func(*C) R) R {
	c := v.state()
	switch c.which {
	case 0:
		return fa(c.live().(*A))
	case 1:
		return fb(c.live().(*B))
	default:
		return fc(c.live().(*C))
	}
}

// Match4 is Match2 for four alternatives.
func Match4[A, B, C, D, R any](v *Of4[A, B, C, D], fa func(*A) R, fb func(*B) R, fc func(*C) R, fd func(*D) R) R {
	c := v.state()
	switch c.which {
	case 0:
		return fa(c.live().(*A))
	case 1:
		return fb(c.live().(*B))
	case 2:
		return fc(c.live().(*C))
	default:
		return fd(c.live().(*D))
	}
}
