package progress

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"imgopt/internal/batch"
)

// RenderSummary renders the totals of a report as a table, followed by one
// row per failed file.
func RenderSummary(report batch.Report, style table.Style) string {
	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"Output", report.OutputDir},
		{"Processed", strconv.Itoa(report.Processed)},
		{"Failed", strconv.Itoa(len(report.Failures))},
		{"Skipped", strconv.Itoa(report.Skipped)},
		{"Size before", humanize.Bytes(uint64(report.BytesIn))},
		{"Size after", humanize.Bytes(uint64(report.BytesOut))},
		{"Saved", formatSaved(report)},
		{"Elapsed", report.Duration.Round(10 * time.Millisecond).String()},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	out := tw.Render()

	if len(report.Failures) == 0 {
		return out
	}

	fw := table.NewWriter()
	fw.SetStyle(style)
	fw.AppendHeader(table.Row{"File", "Error"})
	for _, failure := range report.Failures {
		fw.AppendRow(table.Row{filepath.Base(failure.Source), failure.Err.Error()})
	}
	return out + "\n" + fw.Render()
}

func formatSaved(report batch.Report) string {
	saved := report.Saved()
	if report.BytesIn == 0 {
		return humanize.Bytes(0)
	}
	percent := float64(saved) / float64(report.BytesIn) * 100
	if saved < 0 {
		return fmt.Sprintf("-%s (%.1f%%)", humanize.Bytes(uint64(-saved)), percent)
	}
	return fmt.Sprintf("%s (%.1f%%)", humanize.Bytes(uint64(saved)), percent)
}
