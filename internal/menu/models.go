package menu

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// selectModel is a single-choice list navigated with arrows or j/k.
type selectModel struct {
	title   string
	options []string
	cursor  int
	chosen  int
	aborted bool
}

func newSelectModel(title string, options []string) selectModel {
	return selectModel{title: title, options: options, chosen: -1}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "up", "k", "shift+tab":
		m.cursor--
		if m.cursor < 0 {
			m.cursor = len(m.options) - 1
		}
	case "down", "j", "tab":
		m.cursor++
		if m.cursor >= len(m.options) {
			m.cursor = 0
		}
	case "enter":
		if len(m.options) > 0 {
			m.chosen = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m selectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	if m.chosen >= 0 {
		b.WriteString(" ")
		b.WriteString(answerStyle.Render(m.options[m.chosen]))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString("\n")
	for i, option := range m.options {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("❯ " + option))
		} else {
			b.WriteString(itemStyle.Render("  " + option))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// inputModel is a one-line text prompt that re-asks until validate passes.
type inputModel struct {
	label    string
	help     string
	input    textinput.Model
	validate func(string) error
	err      error
	value    string
	done     bool
	aborted  bool
}

func newInputModel(label, help string, validate func(string) error) inputModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()
	return inputModel{label: label, help: help, input: ti, validate: validate}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.value = value
			m.done = true
			m.err = nil
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.label))
	if m.done {
		b.WriteString(" ")
		b.WriteString(answerStyle.Render(m.value))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case m.help != "":
		b.WriteString(helpStyle.Render("[" + m.help + "]"))
		b.WriteString("\n")
	}
	return b.String()
}
