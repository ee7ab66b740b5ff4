package progress

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"imgopt/internal/batch"
	"imgopt/internal/logging"
)

func sampleReport(failed bool) batch.Report {
	report := batch.Report{
		RunID:     "run-1",
		Kind:      batch.KindCompress,
		OutputDir: "/tmp/comp",
		Processed: 2,
		Skipped:   1,
		BytesIn:   4096,
		BytesOut:  1024,
		Duration:  1500 * time.Millisecond,
	}
	if failed {
		report.Failures = []batch.Result{{Source: "/photos/bad.jpg", Err: errors.New("unexpected EOF")}}
	}
	return report
}

func TestNewPicksPlainForBuffers(t *testing.T) {
	var buf bytes.Buffer
	if IsTerminal(&buf) {
		t.Fatal("buffer is not a terminal")
	}
	if _, ok := New(&buf, nil).(*Plain); !ok {
		t.Fatal("expected Plain reporter for non-TTY writer")
	}
}

func TestFailureMessage(t *testing.T) {
	if got := FailureMessage(batch.KindCompress); got != "Error! Cannot compress the images!" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := FailureMessage(batch.KindRename); got != "Error! Cannot rename the images!" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestPlainReportsSuccess(t *testing.T) {
	var out, logs bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &logs})
	if err != nil {
		t.Fatal(err)
	}
	p := NewPlain(&out, logger)

	p.Start("Compressing...", 2)
	p.Advance(batch.Result{Source: "a.jpg"})
	p.Advance(batch.Result{Source: "b.jpg"})
	p.Finish(sampleReport(false), nil)

	text := out.String()
	for _, want := range []string{"Compressing...", "Done!", "Processed", "4.1 kB", "3.1 kB (75.0%)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
	if !strings.Contains(logs.String(), "done=2") || !strings.Contains(logs.String(), "failed=0") || !strings.Contains(logs.String(), "batch summary") {
		t.Fatalf("expected progress and summary logs, got:\n%s", logs.String())
	}
}

func TestPlainReportsFailures(t *testing.T) {
	var out, logs bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "warn", Writer: &logs})
	if err != nil {
		t.Fatal(err)
	}
	p := NewPlain(&out, logger)
	report := sampleReport(true)

	p.Start("Compressing...", 3)
	p.Advance(report.Failures[0])
	p.Finish(report, nil)

	text := out.String()
	if !strings.Contains(text, "Error! Cannot compress the images!") || !strings.Contains(text, "bad.jpg") {
		t.Fatalf("expected failure output, got:\n%s", text)
	}
	if !strings.Contains(logs.String(), "event_type=batch_failed") {
		t.Fatalf("expected failure summary log, got:\n%s", logs.String())
	}
	if strings.Contains(logs.String(), "file failed") {
		t.Fatalf("per-file failures belong to the runner log, got:\n%s", logs.String())
	}
}

func TestPlainReportsRunnerError(t *testing.T) {
	var out bytes.Buffer
	p := NewPlain(&out, nil)
	p.Finish(batch.Report{Kind: batch.KindConvert}, context.Canceled)
	if !strings.Contains(out.String(), "Error! Cannot convert the images!") || !strings.Contains(out.String(), "context canceled") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestTerminalRendersBarAndOutcome(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	term.Start("Converting to WebP...", 2)
	term.Advance(batch.Result{})
	term.Advance(batch.Result{})
	term.Finish(sampleReport(false), nil)

	text := out.String()
	if !strings.Contains(text, "Converting to WebP...") || !strings.Contains(text, "Done!") {
		t.Fatalf("unexpected terminal output:\n%s", text)
	}
	if !strings.Contains(text, "╭") {
		t.Fatalf("expected rounded summary table, got:\n%s", text)
	}
}

func TestTerminalEmptyBatch(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)
	term.Start("Renaming images...", 0)
	term.Advance(batch.Result{})
	term.Finish(batch.Report{Kind: batch.KindRename}, nil)
	if !strings.Contains(out.String(), "Done!") || strings.Contains(out.String(), "Metric") {
		t.Fatalf("unexpected output for empty batch:\n%s", out.String())
	}
}

func TestRenderSummaryGrowth(t *testing.T) {
	report := batch.Report{Processed: 1, BytesIn: 1000, BytesOut: 1500}
	got := RenderSummary(report, table.StyleLight)
	if !strings.Contains(got, "-500 B (-50.0%)") {
		t.Fatalf("expected negative savings, got:\n%s", got)
	}
}

func TestSamplerBuckets(t *testing.T) {
	s := newSampler(25)
	var logged []int
	for done := 1; done <= 10; done++ {
		if s.shouldLog(done, 10) {
			logged = append(logged, done)
		}
	}
	want := []int{1, 3, 5, 8, 10}
	if len(logged) != len(want) {
		t.Fatalf("logged %v, want %v", logged, want)
	}
	for i := range want {
		if logged[i] != want[i] {
			t.Fatalf("logged %v, want %v", logged, want)
		}
	}
	s.reset()
	if !s.shouldLog(1, 10) {
		t.Fatal("expected log after reset")
	}
	if s.shouldLog(0, 0) {
		t.Fatal("zero total should never log")
	}
}
