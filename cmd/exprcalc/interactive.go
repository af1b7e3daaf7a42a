package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxHistory bounds the entries kept on screen.
const maxHistory = 50

type styles struct {
	title  lipgloss.Style
	input  lipgloss.Style
	result lipgloss.Style
	err    lipgloss.Style
	help   lipgloss.Style
}

func newStyles(c Colors) styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color(c.Title)).
			Padding(0, 1),
		input:  lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		result: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Result)),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.Error)),
		help:   lipgloss.NewStyle().Foreground(lipgloss.Color(c.Help)),
	}
}

type entry struct {
	input  string
	output string
	err    error
}

type interactiveModel struct {
	session *session
	styles  styles
	input   textinput.Model
	history []entry
	recall  int // index into history while browsing with up/down
}

func newInteractiveModel(s *session, cfg *Config) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = cfg.Prompt
	ti.Placeholder = "1 + 2 * x, let x = 3, :vars, :funcs, :tree expr"
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{
		session: s,
		styles:  newStyles(cfg.Colors),
		input:   ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "ctrl+d", "esc":
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			if line == ":q" || line == ":quit" {
				return m, tea.Quit
			}
			if line != "" {
				out, err := m.session.exec(line)
				m.history = append(m.history, entry{input: line, output: out, err: err})
				if len(m.history) > maxHistory {
					m.history = m.history[len(m.history)-maxHistory:]
				}
			}
			m.recall = len(m.history)
			m.input.Reset()
			return m, nil

		case "up":
			if m.recall > 0 {
				m.recall--
				m.input.SetValue(m.history[m.recall].input)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.recall < len(m.history)-1 {
				m.recall++
				m.input.SetValue(m.history[m.recall].input)
				m.input.CursorEnd()
			} else {
				m.recall = len(m.history)
				m.input.Reset()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("exprcalc"))
	b.WriteString("\n\n")

	for _, e := range m.history {
		b.WriteString(m.styles.input.Render(e.input))
		b.WriteString("\n")
		switch {
		case e.err != nil:
			b.WriteString(m.styles.err.Render("error: " + e.err.Error()))
			b.WriteString("\n")
		case e.output != "":
			b.WriteString(m.styles.result.Render(e.output))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.help.Render("enter evaluate • ↑/↓ history • esc quit"))
	return b.String()
}

func runInteractive(s *session, cfg *Config) error {
	p := tea.NewProgram(newInteractiveModel(s, cfg))
	_, err := p.Run()
	return err
}
