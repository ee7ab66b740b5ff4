package menu

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI is the terminal Prompter.
type TUI struct {
	in  io.Reader
	out io.Writer
}

// NewTUI returns a Prompter reading keys from in and drawing to out.
func NewTUI(in io.Reader, out io.Writer) *TUI {
	return &TUI{in: in, out: out}
}

func (t *TUI) Select(ctx context.Context, title string, options []string) (int, error) {
	final, err := t.run(ctx, newSelectModel(title, options))
	if err != nil {
		return -1, err
	}
	m := final.(selectModel)
	if m.aborted || m.chosen < 0 {
		return -1, ErrInterrupted
	}
	return m.chosen, nil
}

func (t *TUI) Text(ctx context.Context, label string) (string, error) {
	final, err := t.run(ctx, newInputModel(label, "", validateRequired))
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if m.aborted || !m.done {
		return "", ErrInterrupted
	}
	return m.value, nil
}

func (t *TUI) Float(ctx context.Context, label string) (float64, error) {
	final, err := t.run(ctx, newInputModel(label, floatHelpMessage, validateFloat))
	if err != nil {
		return 0, err
	}
	m := final.(inputModel)
	if m.aborted || !m.done {
		return 0, ErrInterrupted
	}
	return parseFloat(m.value)
}

func (t *TUI) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("run prompt: %w", err)
	}
	return final, nil
}

var _ Prompter = (*TUI)(nil)
