package transform

import (
	"context"
	"fmt"
	"io"
	"os"

	"imgopt/internal/batch"
	"imgopt/internal/fileutil"
	"imgopt/internal/imagefile"
)

// Convert encodes JPEG and PNG sources as lossy WebP.
type Convert struct {
	quality float64
}

// NewConvert builds the convert operation for job.
func NewConvert(job batch.Job) *Convert {
	return &Convert{quality: job.Quality}
}

func (c *Convert) Name() string { return string(batch.KindConvert) }

func (c *Convert) Accepts(path string) bool {
	format, ok := imagefile.FormatFromPath(path)
	return ok && format != imagefile.FormatWebP
}

func (c *Convert) Target(job batch.Job, rel string) string {
	return withExt(job, rel, ".webp")
}

func (c *Convert) Apply(ctx context.Context, src, dst string) (batch.Output, error) {
	if err := ctx.Err(); err != nil {
		return batch.Output{}, err
	}
	info, err := os.Stat(src)
	if err != nil {
		return batch.Output{}, fmt.Errorf("stat source: %w", err)
	}
	out := batch.Output{BytesIn: info.Size()}

	img, format, err := imagefile.Decode(src)
	if err != nil {
		return out, err
	}
	if format == imagefile.FormatJPEG {
		if q, err := imagefile.DetectJPEGQuality(src); err == nil {
			out.SourceQuality = q
		}
	}

	written, err := fileutil.WriteAtomic(dst, func(w io.Writer) error {
		return imagefile.EncodeWebP(w, img, c.quality)
	})
	if err != nil {
		return out, fmt.Errorf("encode webp: %w", err)
	}
	out.BytesOut = written
	return out, nil
}

var _ batch.Operation = (*Convert)(nil)
