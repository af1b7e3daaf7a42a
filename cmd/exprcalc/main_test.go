package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/encoding/charmap"
)

func plainStyles() styles {
	return outputStyles(DefaultConfig(), false)
}

func TestEvalLines(t *testing.T) {
	s := newTestSession(t, nil)
	var out bytes.Buffer

	err := evalLines(s, strings.NewReader("let a = 2\na * 21\n\nbad +\n"), &out, plainStyles())
	if err == nil || !strings.Contains(err.Error(), "1 line(s) failed") {
		t.Errorf("got %v, want one failed line", err)
	}

	want := "a = 2\n42\nline 4: "
	if !strings.HasPrefix(out.String(), want) {
		t.Errorf("output = %q, want prefix %q", out.String(), want)
	}
}

func TestEvalFile_Encoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs.txt")
	// "let é = 3" and "é * 2" in ISO 8859-1
	src, err := charmap.ISO8859_1.NewEncoder().String("let é = 3\né * 2\n")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newTestSession(t, nil)
	var out bytes.Buffer
	if err := evalFile(s, path, "latin1", &out, plainStyles()); err != nil {
		t.Fatalf("evalFile: %v", err)
	}
	if out.String() != "é = 3\n6\n" {
		t.Errorf("output = %q", out.String())
	}

	if err := evalFile(s, path, "no-such-encoding", &out, plainStyles()); err == nil {
		t.Error("unknown encoding must fail")
	}
}

func TestParseVars(t *testing.T) {
	cfg := DefaultConfig()
	if err := parseVars("x=2, y = x*3", cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Vars["x"] != 2 || cfg.Vars["y"] != 6 {
		t.Errorf("vars = %v", cfg.Vars)
	}

	for _, bad := range []string{"x", "x=1+", "x=nope"} {
		if err := parseVars(bad, DefaultConfig()); err == nil {
			t.Errorf("parseVars(%q) must fail", bad)
		}
	}
}

func TestDescribeExpr(t *testing.T) {
	var out bytes.Buffer
	if err := describeExpr(&out); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	for _, want := range []string{"expr.Op (boxed)", "layout: size", "wit: ", "recursive", "wit (leaves only): of2 with 2 cases"} {
		if !strings.Contains(text, want) {
			t.Errorf("describe output lacks %q:\n%s", want, text)
		}
	}
}

func TestInteractiveModel(t *testing.T) {
	m := newInteractiveModel(newTestSession(t, nil), DefaultConfig())

	m.input.SetValue("let x = 4")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue("x + ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue("x * x")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(m.history) != 3 {
		t.Fatalf("history has %d entries", len(m.history))
	}
	if m.history[0].output != "x = 4" || m.history[1].err == nil || m.history[2].output != "16" {
		t.Errorf("history = %+v", m.history)
	}
	if m.input.Value() != "" {
		t.Error("input must be cleared after enter")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.input.Value() != "x * x" {
		t.Errorf("up recalls %q", m.input.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.input.Value() != "" {
		t.Errorf("down past the end leaves %q", m.input.Value())
	}

	view := m.View()
	if !strings.Contains(view, "16") || !strings.Contains(view, "error:") {
		t.Errorf("view:\n%s", view)
	}

	m.input.SetValue(":q")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Error(":q must quit")
	}
}
