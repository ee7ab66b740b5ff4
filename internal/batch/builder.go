package batch

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"imgopt/internal/config"
	"imgopt/internal/preflight"
)

// Builder assembles a Job field by field. Setters return the builder so calls
// chain; Build performs all validation.
type Builder struct {
	job Job
}

// NewBuilder starts a Job of the given kind with neutral defaults: full
// scale, one worker per CPU, and recursion for compress only.
func NewBuilder(kind Kind) *Builder {
	return &Builder{job: Job{
		Kind:      kind,
		Scale:     1,
		Workers:   runtime.NumCPU(),
		Recursive: kind == KindCompress,
	}}
}

// NewBuilderFromConfig starts a Job seeded with the configured quality,
// scale, worker count, time zone, and default output folder for kind.
func NewBuilderFromConfig(kind Kind, cfg *config.Config) *Builder {
	b := NewBuilder(kind)
	if cfg == nil {
		return b
	}
	if cfg.Batch.Workers > 0 {
		b.job.Workers = cfg.Batch.Workers
	}
	b.job.TimeZone = cfg.Rename.TimeZone
	switch kind {
	case KindCompress:
		b.job.Quality = cfg.Compress.Quality
		b.job.Scale = cfg.Compress.Scale
		b.job.OutputDir = cfg.CompressOutputDir()
	case KindConvert:
		b.job.Quality = cfg.Convert.Quality
		b.job.OutputDir = cfg.ConvertOutputDir()
	case KindRename:
		b.job.OutputDir = cfg.RenameOutputDir()
	}
	return b
}

func (b *Builder) InputDir(dir string) *Builder {
	b.job.InputDir = strings.TrimSpace(dir)
	return b
}

func (b *Builder) OutputDir(dir string) *Builder {
	b.job.OutputDir = strings.TrimSpace(dir)
	return b
}

func (b *Builder) Quality(q float64) *Builder {
	b.job.Quality = q
	return b
}

func (b *Builder) Prefix(prefix string) *Builder {
	b.job.Prefix = prefix
	return b
}

func (b *Builder) Name(name string) *Builder {
	b.job.Name = name
	return b
}

func (b *Builder) Scale(scale float64) *Builder {
	b.job.Scale = scale
	return b
}

// Workers sets the pool size; values <= 0 keep the current setting.
func (b *Builder) Workers(n int) *Builder {
	if n > 0 {
		b.job.Workers = n
	}
	return b
}

func (b *Builder) Recursive(recursive bool) *Builder {
	b.job.Recursive = recursive
	return b
}

func (b *Builder) TimeZone(zone string) *Builder {
	b.job.TimeZone = strings.TrimSpace(zone)
	return b
}

// Build validates the accumulated fields and returns the Job with both
// folders expanded to absolute paths.
func (b *Builder) Build() (Job, error) {
	job := b.job

	switch job.Kind {
	case KindCompress, KindConvert, KindRename:
	default:
		return Job{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidJob, job.Kind)
	}

	if job.InputDir == "" {
		return Job{}, fmt.Errorf("%w: input folder is required", ErrInvalidJob)
	}
	if job.OutputDir == "" {
		return Job{}, fmt.Errorf("%w: output folder is required", ErrInvalidJob)
	}

	var err error
	if job.InputDir, err = config.ExpandPath(job.InputDir); err != nil {
		return Job{}, fmt.Errorf("%w: input folder: %v", ErrInvalidJob, err)
	}
	if job.OutputDir, err = config.ExpandPath(job.OutputDir); err != nil {
		return Job{}, fmt.Errorf("%w: output folder: %v", ErrInvalidJob, err)
	}

	info, err := os.Stat(job.InputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Job{}, fmt.Errorf("%w: %s", ErrNotDirectory, job.InputDir)
		}
		return Job{}, fmt.Errorf("stat input folder: %w", err)
	}
	if !info.IsDir() {
		return Job{}, fmt.Errorf("%w: %s", ErrNotDirectory, job.InputDir)
	}
	if check := preflight.CheckReadableDirectory("input folder", job.InputDir); !check.Passed {
		return Job{}, fmt.Errorf("%w: %s", ErrInvalidJob, check.Detail)
	}

	if samePath(job.InputDir, job.OutputDir) {
		return Job{}, fmt.Errorf("%w: output folder must differ from input folder", ErrInvalidJob)
	}

	switch job.Kind {
	case KindCompress, KindConvert:
		if math.IsNaN(job.Quality) || job.Quality < 0 || job.Quality > 100 {
			return Job{}, fmt.Errorf("%w: got %g", ErrInvalidQuality, job.Quality)
		}
	case KindRename:
		if strings.TrimSpace(job.Prefix) == "" {
			return Job{}, fmt.Errorf("%w: prefix is required", ErrInvalidJob)
		}
		if strings.TrimSpace(job.Name) == "" {
			return Job{}, fmt.Errorf("%w: name is required", ErrInvalidJob)
		}
	}

	if math.IsNaN(job.Scale) || job.Scale <= 0 || job.Scale > 1 {
		return Job{}, fmt.Errorf("%w: scale must be in (0, 1], got %g", ErrInvalidJob, job.Scale)
	}
	if job.Workers <= 0 {
		job.Workers = runtime.NumCPU()
	}
	if _, err := job.Location(); err != nil {
		return Job{}, err
	}

	return job, nil
}

func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ai, errA := os.Stat(a)
	bi, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(ai, bi)
}
