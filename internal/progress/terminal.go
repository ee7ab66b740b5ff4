package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"

	"imgopt/internal/batch"
)

var (
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Terminal draws a progress bar on an interactive terminal.
type Terminal struct {
	w   io.Writer
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// NewTerminal returns a reporter that renders to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Start(label string, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if total <= 0 {
		fmt.Fprintln(t.w, label)
		return
	}
	t.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(t.w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

func (t *Terminal) Advance(batch.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bar != nil {
		_ = t.bar.Add(1)
	}
}

func (t *Terminal) Finish(report batch.Report, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bar != nil {
		_ = t.bar.Finish()
		t.bar = nil
	}

	message, ok := outcome(report, err)
	if ok {
		fmt.Fprintln(t.w, doneStyle.Render(message))
	} else {
		fmt.Fprintln(t.w, errorStyle.Render(message))
		if err != nil {
			fmt.Fprintln(t.w, errorStyle.Render(err.Error()))
		}
	}
	if report.Total() > 0 || report.Skipped > 0 {
		fmt.Fprintln(t.w, RenderSummary(report, table.StyleRounded))
	}
}
