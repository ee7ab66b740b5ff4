package transform

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"imgopt/internal/batch"
	"imgopt/internal/fileutil"
	"imgopt/internal/imagefile"
	"imgopt/internal/textutil"
)

// captureLayout renders yy_mm_dd_HH_MM_SS.
const captureLayout = "06_01_02_15_04_05"

// Rename copies files to names built from their EXIF capture time.
type Rename struct {
	prefix string
	name   string
	loc    *time.Location
}

// NewRename builds the rename operation for job. Prefix and name are
// normalized to NFC and stripped of characters unsafe in file names.
func NewRename(job batch.Job) (*Rename, error) {
	loc, err := job.Location()
	if err != nil {
		return nil, err
	}
	return &Rename{
		prefix: textutil.SanitizeFileName(job.Prefix),
		name:   textutil.SanitizeFileName(job.Name),
		loc:    loc,
	}, nil
}

func (r *Rename) Name() string { return string(batch.KindRename) }

// Accepts every file; those without a timestamp keep their name.
func (r *Rename) Accepts(string) bool { return true }

// Target reads the capture time of the source and formats
// <prefix><yy>_<mm>_<dd>_<HH>_<MM>_<SS>_<name>.<ext>.
func (r *Rename) Target(job batch.Job, rel string) string {
	base := filepath.Base(rel)
	taken, err := imagefile.CaptureTime(filepath.Join(job.InputDir, rel), r.loc)
	if err != nil {
		return filepath.Join(job.OutputDir, base)
	}
	return filepath.Join(job.OutputDir, r.FileName(taken, textutil.Ext(base)))
}

// FileName formats the renamed file name for a capture time and extension
// (without the dot).
func (r *Rename) FileName(taken time.Time, ext string) string {
	name := fmt.Sprintf("%s%s_%s", r.prefix, taken.In(r.loc).Format(captureLayout), r.name)
	if ext != "" {
		name += "." + ext
	}
	return name
}

// Apply copies src to dst and verifies the copy.
func (r *Rename) Apply(ctx context.Context, src, dst string) (batch.Output, error) {
	if err := ctx.Err(); err != nil {
		return batch.Output{}, err
	}
	n, err := fileutil.CopyFileVerified(src, dst)
	if err != nil {
		return batch.Output{}, fmt.Errorf("copy: %w", err)
	}
	if err := fileutil.PreserveModTime(src, dst); err != nil {
		return batch.Output{}, fmt.Errorf("preserve mod time: %w", err)
	}
	return batch.Output{BytesIn: n, BytesOut: n}, nil
}

var _ batch.Operation = (*Rename)(nil)
