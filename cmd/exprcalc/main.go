package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/variant"
	"github.com/wippyai/variant/describe"
	"github.com/wippyai/variant/expr"
	"github.com/wippyai/variant/filebuf"
)

func main() {
	var (
		exprSrc     = flag.String("e", "", "Expression to evaluate")
		file        = flag.String("f", "", "File with one expression per line")
		encoding    = flag.String("encoding", "utf-8", "Character encoding of -f (utf-8, latin1, utf-16le, utf-32be, ...)")
		vars        = flag.String("vars", "", "Variable bindings (x=1,y=2)")
		configPath  = flag.String("config", "", "Path to a YAML config file")
		simplify    = flag.Bool("simplify", false, "Fold constants before evaluating")
		describeSet = flag.Bool("describe", false, "Describe the expression variant type and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *simplify {
		cfg.Simplify = true
	}
	if err := parseVars(*vars, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := cfg.Log.newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	variant.SetLogger(log.Named("variant"))
	filebuf.SetLogger(log.Named("filebuf"))

	s := newSession(cfg, log)
	stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))
	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))

	switch {
	case *describeSet:
		err = describeExpr(os.Stdout)
	case *exprSrc != "":
		err = evalLines(s, strings.NewReader(*exprSrc), os.Stdout, outputStyles(cfg, stdoutTTY))
	case *file != "":
		err = evalFile(s, *file, *encoding, os.Stdout, outputStyles(cfg, stdoutTTY))
	case *interactive || (stdinTTY && stdoutTTY):
		err = runInteractive(s, cfg)
	default:
		err = evalLines(s, os.Stdin, os.Stdout, outputStyles(cfg, stdoutTTY))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseVars(list string, cfg *Config) error {
	if list == "" {
		return nil
	}
	if cfg.Vars == nil {
		cfg.Vars = make(map[string]float64)
	}
	for _, kv := range strings.Split(list, ",") {
		name, src, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("vars: %q is not name=value", kv)
		}
		e, err := expr.Parse(src)
		if err != nil {
			return fmt.Errorf("vars: %s: %w", name, err)
		}
		v, err := expr.Eval(&e, cfg.Vars)
		if err != nil {
			return fmt.Errorf("vars: %s: %w", name, err)
		}
		cfg.Vars[strings.TrimSpace(name)] = v
	}
	return nil
}

// outputStyles returns plain styles unless stdout is a terminal.
func outputStyles(cfg *Config, tty bool) styles {
	if !tty {
		plain := lipgloss.NewStyle()
		return styles{title: plain, input: plain, result: plain, err: plain, help: plain}
	}
	return newStyles(cfg.Colors)
}

// evalLines evaluates every line of r. It keeps going after a failing line
// and reports how many failed.
func evalLines(s *session, r io.Reader, w io.Writer, st styles) error {
	failed := 0
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		out, err := s.exec(scanner.Text())
		switch {
		case err != nil:
			failed++
			fmt.Fprintln(w, st.err.Render(fmt.Sprintf("line %d: %v", n, err)))
		case out != "":
			fmt.Fprintln(w, st.result.Render(out))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d line(s) failed", failed)
	}
	return nil
}

func evalFile(s *session, path, encodingName string, w io.Writer, st styles) error {
	enc, width, err := filebuf.Lookup(encodingName)
	if err != nil {
		return err
	}
	f, err := filebuf.OpenWithConfig(path, filebuf.In, &filebuf.Config{Encoding: enc, Width: width})
	if err != nil {
		return err
	}
	defer f.Close()
	return evalLines(s, f, w, st)
}

func describeExpr(w io.Writer) error {
	tab, err := variant.Compile[variant.Of3[expr.Num, expr.Var, variant.Box[expr.Op]]]()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "type: %s\n", tab.Type())
	names := describe.CaseNames(tab)
	for _, alt := range tab.Alternatives() {
		boxed := ""
		if alt.Boxed {
			boxed = " (boxed)"
		}
		fmt.Fprintf(w, "  %d %-4s %s%s\n", alt.Index, names[alt.Index], alt.Type, boxed)
	}
	l := tab.Layout()
	fmt.Fprintf(w, "layout: size %d, align %d, discriminant %d, payload %d@%d\n",
		l.Size, l.Align, l.DiscriminantSize, l.PayloadSize, l.PayloadOffset)

	var e expr.Expr
	if _, err := describe.Of(&e); err != nil {
		fmt.Fprintf(w, "wit: %v\n", err)
	}

	var leaf variant.Of2[expr.Num, expr.Var]
	td, err := describe.Of(&leaf)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "wit (leaves only): %s with %d cases\n", witName(td.Name), len(describe.CaseNames(variant.TableOf(&leaf))))
	return nil
}

func witName(name *string) string {
	if name == nil {
		return "anonymous"
	}
	return *name
}
