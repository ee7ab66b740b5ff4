package transform

import (
	"fmt"
	"path/filepath"

	"imgopt/internal/batch"
	"imgopt/internal/textutil"
)

// ForJob returns the operation matching job.Kind.
func ForJob(job batch.Job) (batch.Operation, error) {
	switch job.Kind {
	case batch.KindCompress:
		return NewCompress(job), nil
	case batch.KindConvert:
		return NewConvert(job), nil
	case batch.KindRename:
		return NewRename(job)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", batch.ErrInvalidJob, job.Kind)
	}
}

// withExt maps rel into the output folder, replacing its extension.
func withExt(job batch.Job, rel, ext string) string {
	dir, base := filepath.Split(rel)
	return filepath.Join(job.OutputDir, dir, textutil.TrimExt(base)+ext)
}
