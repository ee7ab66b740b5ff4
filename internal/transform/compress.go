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

// Compress re-encodes images as JPEG at a fixed quality, optionally scaled.
type Compress struct {
	quality float64
	scale   float64
}

// NewCompress builds the compress operation for job.
func NewCompress(job batch.Job) *Compress {
	return &Compress{quality: job.Quality, scale: job.Scale}
}

func (c *Compress) Name() string { return string(batch.KindCompress) }

// Accepts JPEG, PNG and WebP sources.
func (c *Compress) Accepts(path string) bool {
	_, ok := imagefile.FormatFromPath(path)
	return ok
}

func (c *Compress) Target(job batch.Job, rel string) string {
	return withExt(job, rel, ".jpg")
}

// Apply writes the compressed JPEG to dst. When a full-size JPEG source would
// grow, its original bytes are copied instead.
func (c *Compress) Apply(ctx context.Context, src, dst string) (batch.Output, error) {
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
	img = imagefile.Scale(img, c.scale)

	written, err := fileutil.WriteAtomic(dst, func(w io.Writer) error {
		return imagefile.EncodeJPEG(w, img, c.quality)
	})
	if err != nil {
		return out, fmt.Errorf("encode jpeg: %w", err)
	}
	out.BytesOut = written

	if format == imagefile.FormatJPEG && c.scale >= 1 && written > out.BytesIn {
		copied, err := fileutil.CopyFile(src, dst)
		if err != nil {
			return out, fmt.Errorf("keep source: %w", err)
		}
		out.BytesOut = copied
		out.KeptSource = true
	}

	if err := fileutil.PreserveModTime(src, dst); err != nil {
		return out, fmt.Errorf("preserve mod time: %w", err)
	}
	return out, nil
}

var _ batch.Operation = (*Compress)(nil)
