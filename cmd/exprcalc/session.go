package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/wippyai/variant/expr"
)

// session evaluates input lines and keeps variable bindings between them.
//
// A line is an expression, an assignment "let name = expr", or a command:
// :vars, :funcs, :tree expr, :simplify expr.
type session struct {
	env       expr.Env
	log       *zap.Logger
	precision int
	simplify  bool
}

func newSession(cfg *Config, log *zap.Logger) *session {
	env := make(expr.Env, len(cfg.Vars))
	for k, v := range cfg.Vars {
		env[k] = v
	}
	return &session{
		env:       env,
		log:       log,
		precision: cfg.Precision,
		simplify:  cfg.Simplify,
	}
}

// exec runs one line and returns the text to print.
func (s *session) exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "" || strings.HasPrefix(line, "#"):
		return "", nil
	case line == ":vars":
		return s.vars(), nil
	case line == ":funcs":
		return strings.Join(expr.Functions(), " "), nil
	case strings.HasPrefix(line, ":tree "):
		return s.tree(strings.TrimPrefix(line, ":tree "))
	case strings.HasPrefix(line, ":simplify "):
		e, err := expr.Parse(strings.TrimPrefix(line, ":simplify "))
		if err != nil {
			return "", err
		}
		expr.Simplify(&e)
		return expr.Format(&e), nil
	case strings.HasPrefix(line, ":"):
		return "", fmt.Errorf("unknown command %s", strings.Fields(line)[0])
	case strings.HasPrefix(line, "let "):
		return s.let(strings.TrimPrefix(line, "let "))
	}

	v, shown, err := s.eval(line)
	if err != nil {
		return "", err
	}
	if shown != "" {
		return shown + " = " + s.number(v), nil
	}
	return s.number(v), nil
}

func (s *session) let(rest string) (string, error) {
	name, src, ok := strings.Cut(rest, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.ContainsAny(name, " +-*/%^(),") {
		return "", fmt.Errorf("usage: let name = expr")
	}
	v, _, err := s.eval(src)
	if err != nil {
		return "", err
	}
	s.env[name] = v
	return name + " = " + s.number(v), nil
}

// eval parses and evaluates src. With simplify on, shown is the folded tree
// when folding changed it.
func (s *session) eval(src string) (float64, string, error) {
	e, err := expr.Parse(src)
	if err != nil {
		return 0, "", err
	}

	var shown string
	if s.simplify {
		before := expr.Format(&e)
		expr.Simplify(&e)
		if after := expr.Format(&e); after != before {
			shown = after
		}
	}

	v, err := expr.Eval(&e, s.env)
	if err != nil {
		return 0, "", err
	}
	s.log.Debug("evaluated",
		zap.String("expr", expr.Format(&e)),
		zap.Int("leaves", expr.Leaves(&e)),
		zap.Int("depth", expr.Depth(&e)),
		zap.Float64("value", v))
	return v, shown, nil
}

func (s *session) tree(src string) (string, error) {
	e, err := expr.Parse(src)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\nleaves: %d, depth: %d, vars: [%s]",
		expr.Format(&e), expr.Leaves(&e), expr.Depth(&e), strings.Join(expr.Vars(&e), " ")), nil
}

func (s *session) vars() string {
	names := lo.Keys(s.env)
	slices.Sort(names)
	return strings.Join(lo.Map(names, func(name string, _ int) string {
		return name + " = " + s.number(s.env[name])
	}), "\n")
}

func (s *session) number(v float64) string {
	if s.precision > 0 {
		return strconv.FormatFloat(v, 'g', s.precision, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
