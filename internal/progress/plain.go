package progress

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"

	"imgopt/internal/batch"
	"imgopt/internal/logging"
)

// Plain reports through the logger and writes an uncoloured summary to w.
type Plain struct {
	w       io.Writer
	logger  *slog.Logger
	mu      sync.Mutex
	sampler *sampler
	label   string
	total   int
	done    int
	failed  int
}

// NewPlain returns a reporter for non-interactive output. A nil logger
// discards the progress lines.
func NewPlain(w io.Writer, logger *slog.Logger) *Plain {
	return &Plain{
		w:       w,
		logger:  logging.NewComponentLogger(logger, "progress"),
		sampler: newSampler(10),
	}
}

func (p *Plain) Start(label string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.label, p.total, p.done, p.failed = label, total, 0, 0
	p.sampler.reset()
	fmt.Fprintln(p.w, label)
	p.logger.Info("batch progress started",
		logging.String(logging.FieldEventType, "progress_start"),
		logging.String("label", label),
		logging.Int("total", total),
	)
}

func (p *Plain) Advance(res batch.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	// The runner already logs each failure with its hint.
	if res.Failed() {
		p.failed++
	}
	if p.sampler.shouldLog(p.done, p.total) {
		p.logger.Info("batch progress",
			logging.String(logging.FieldEventType, "progress"),
			logging.String("label", p.label),
			logging.Int("done", p.done),
			logging.Int("failed", p.failed),
			logging.Int("total", p.total),
		)
	}
}

func (p *Plain) Finish(report batch.Report, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	message, ok := outcome(report, err)
	fmt.Fprintln(p.w, message)
	if err != nil {
		fmt.Fprintln(p.w, err.Error())
	}
	if report.Total() > 0 || report.Skipped > 0 {
		fmt.Fprintln(p.w, RenderSummary(report, table.StyleLight))
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldRunID, report.RunID),
		logging.Int("processed", report.Processed),
		logging.Int("failed", len(report.Failures)),
		logging.Int64("saved_bytes", report.Saved()),
	}
	if ok {
		p.logger.Info("batch summary", logging.Args(attrs...)...)
		return
	}
	attrs = append(attrs, logging.String(logging.FieldImpact, "some images were not written"))
	logging.WarnWithContext(p.logger, "batch summary", "batch_failed", attrs...)
}
