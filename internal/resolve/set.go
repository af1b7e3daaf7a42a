package resolve

import (
	"reflect"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/wippyai/variant/errors"
)

// NoMatch is the distinguished "no alternative applies" index.
const NoMatch = -1

// maxMemoArgs bounds the argument lists whose answers are memoised.
const maxMemoArgs = 4

// Alternative is the compile-time descriptor of one member of the set.
type Alternative struct {
	Stored reflect.Type // declared type, possibly a box
	Type   reflect.Type // unwrapped type
	Index  int
	Boxed  bool
}

// UnwrapFunc reports the pointee type when t is a boxing wrapper.
type UnwrapFunc func(t reflect.Type) (reflect.Type, bool)

// Set resolves types and argument lists against a fixed list of alternatives.
// A Set is immutable after NewSet and safe for concurrent use.
type Set struct {
	exact     map[reflect.Type]int
	construct sync.Map // signature -> int
	assign    sync.Map // reflect.Type -> int
	alts      []Alternative
	path      []string
}

type signature struct {
	args [maxMemoArgs]reflect.Type
	n    int
}

// NewSet builds the resolver for the declared alternatives. Every problem in the
// declaration is reported, combined into one error.
func NewSet(path []string, stored []reflect.Type, unwrap UnwrapFunc) (*Set, error) {
	s := &Set{
		exact: make(map[reflect.Type]int, len(stored)),
		alts:  make([]Alternative, 0, len(stored)),
		path:  path,
	}

	var errs error
	if len(stored) == 0 {
		errs = multierr.Append(errs, errors.InvalidInput(errors.PhaseCompile, "a variant needs at least one alternative"))
	}

	for i, st := range stored {
		if st == nil {
			errs = multierr.Append(errs, errors.NilPointer(errors.PhaseCompile, path, "alternative"))
			continue
		}

		alt := Alternative{Index: i, Stored: st, Type: st}
		if unwrap != nil {
			if inner, ok := unwrap(st); ok {
				alt.Type = inner
				alt.Boxed = true
			}
		}

		if prev, dup := s.exact[alt.Type]; dup {
			errs = multierr.Append(errs, errors.DuplicateAlternative(path, alt.Type.String(), prev, i))
		} else {
			s.exact[alt.Type] = i
		}
		s.alts = append(s.alts, alt)
	}

	if errs != nil {
		return nil, errs
	}
	return s, nil
}

// Len returns the number of alternatives.
func (s *Set) Len() int {
	return len(s.alts)
}

// At returns the descriptor of alternative i.
func (s *Set) At(i int) Alternative {
	return s.alts[i]
}

// Alternatives returns a copy of all descriptors in declaration order.
func (s *Set) Alternatives() []Alternative {
	return append([]Alternative(nil), s.alts...)
}

// Names returns the unwrapped type names in declaration order.
func (s *Set) Names() []string {
	return lo.Map(s.alts, func(a Alternative, _ int) string {
		return a.Type.String()
	})
}

// IndexOfExact returns the alternative whose unwrapped type is t.
func (s *Set) IndexOfExact(t reflect.Type) int {
	if i, ok := s.exact[t]; ok {
		return i
	}
	return NoMatch
}

// FirstConstructible returns the first alternative constructible from args.
func (s *Set) FirstConstructible(args ...reflect.Type) int {
	if len(args) > maxMemoArgs {
		return s.firstConstructible(args)
	}

	var key signature
	key.n = copy(key.args[:], args)
	if cached, ok := s.construct.Load(key); ok {
		return cached.(int)
	}

	idx := s.firstConstructible(args)
	s.construct.Store(key, idx)
	return idx
}

func (s *Set) firstConstructible(args []reflect.Type) int {
	for _, alt := range s.alts {
		if Constructible(alt.Type, args...) {
			return alt.Index
		}
	}
	return NoMatch
}

// FirstAssignable returns the first alternative a value of type t is assignable to.
func (s *Set) FirstAssignable(t reflect.Type) int {
	if cached, ok := s.assign.Load(typeKey(t)); ok {
		return cached.(int)
	}

	idx := NoMatch
	for _, alt := range s.alts {
		if assignable(t, alt.Type) {
			idx = alt.Index
			break
		}
	}
	s.assign.Store(typeKey(t), idx)
	return idx
}

// Assignable reports whether alternative i accepts a value of type t in place.
func (s *Set) Assignable(i int, t reflect.Type) bool {
	if i < 0 || i >= len(s.alts) {
		return false
	}
	return assignable(t, s.alts[i].Type)
}

// nilKey stands in for the type of an untyped nil in the memo tables.
type nilKey struct{}

func typeKey(t reflect.Type) any {
	if t == nil {
		return nilKey{}
	}
	return t
}
