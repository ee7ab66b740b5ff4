package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"imgopt/internal/logging"
	"imgopt/internal/textutil"
)

// LockFileName is created inside the output folder for the duration of a run.
const LockFileName = ".imgopt.lock"

// Operation transforms a single file. Implementations must be safe for
// concurrent use; the runner calls Apply from several goroutines.
type Operation interface {
	Name() string
	// Accepts reports whether the file at path should be processed.
	Accepts(path string) bool
	// Target returns the desired destination for the input at rel, a path
	// relative to job.InputDir.
	Target(job Job, rel string) string
	Apply(ctx context.Context, src, dst string) (Output, error)
}

// Observer receives progress as the run proceeds. Advance is called from
// worker goroutines and must be safe for concurrent use.
type Observer interface {
	Start(label string, total int)
	Advance(Result)
}

// Runner executes Jobs.
type Runner struct {
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithObserver attaches a progress observer.
func WithObserver(o Observer) RunnerOption {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithClock overrides the time source used for durations.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner constructs a Runner. A nil logger discards output.
func NewRunner(logger *slog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		logger: logging.NewComponentLogger(logger, "batch"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run applies op to every accepted file in job.InputDir. Per-file failures
// are recorded in the Report and do not stop the batch; check Report.Err.
// The returned error is reserved for setup failures and cancellation.
func (r *Runner) Run(ctx context.Context, job Job, op Operation) (Report, error) {
	if op == nil {
		return Report{}, errors.New("batch operation is required")
	}
	report := Report{
		RunID:     uuid.NewString(),
		Kind:      job.Kind,
		InputDir:  job.InputDir,
		OutputDir: job.OutputDir,
		Started:   r.now(),
	}
	ctx = logging.WithRunID(ctx, report.RunID)
	ctx = logging.WithOperation(ctx, op.Name())
	logger := logging.WithContext(ctx, r.logger)

	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return report, fmt.Errorf("create output folder: %w", err)
	}

	lock := flock.New(filepath.Join(job.OutputDir, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return report, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return report, fmt.Errorf("%w: %s", ErrLocked, job.OutputDir)
	}
	// The lock file stays behind; unlinking it would let two runs hold
	// locks on different inodes.
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release output lock", logging.Error(err))
		}
	}()

	entries, skipped, err := listEntries(job, op)
	if err != nil {
		return report, err
	}
	report.Skipped = skipped

	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.String("input", job.InputDir),
		logging.String("output", job.OutputDir),
		logging.Int("files", len(entries)),
		logging.Int("skipped", skipped),
		logging.Int("workers", job.Workers),
	)
	if r.observer != nil {
		r.observer.Start(job.Kind.Label(), len(entries))
	}

	names := newReservations()
	var mu sync.Mutex
	workers := job.Workers
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, rel := range entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := r.process(gctx, logger, job, op, names, rel)
			mu.Lock()
			report.add(res)
			mu.Unlock()
			if r.observer != nil {
				r.observer.Advance(res)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Source < report.Results[j].Source
	})
	report.Duration = r.now().Sub(report.Started)

	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("processed", report.Processed),
		logging.Int("failed", len(report.Failures)),
		logging.Int64("bytes_in", report.BytesIn),
		logging.Int64("bytes_out", report.BytesOut),
		logging.Duration("duration", report.Duration),
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (r *Runner) process(ctx context.Context, logger *slog.Logger, job Job, op Operation, names *reservations, rel string) Result {
	start := r.now()
	src := filepath.Join(job.InputDir, rel)
	res := Result{Source: src}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	dst := names.reserve(op.Target(job, rel))
	res.Destination = dst
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		res.Err = fmt.Errorf("create folder for %s: %w", dst, err)
	} else {
		res.Output, res.Err = op.Apply(ctx, src, dst)
	}
	res.Duration = r.now().Sub(start)

	fileLogger := logger.With(logging.String(logging.FieldPath, rel))
	if res.Err != nil {
		logging.WarnWithContext(fileLogger, "file failed", "file_failed",
			logging.Error(res.Err),
			logging.String(logging.FieldErrorHint, "check that the file is a readable image"),
			logging.String(logging.FieldImpact, "no output was written for this file"),
		)
		return res
	}
	fileLogger.Debug("file done",
		logging.String(logging.FieldEventType, "file_complete"),
		logging.String("destination", dst),
		logging.Int64("bytes_in", res.BytesIn),
		logging.Int64("bytes_out", res.BytesOut),
		logging.Bool("kept_source", res.KeptSource),
	)
	return res
}

// listEntries returns accepted files as paths relative to the input folder,
// sorted, plus the number of files the operation declined.
func listEntries(job Job, op Operation) ([]string, int, error) {
	var (
		entries []string
		skipped int
	)
	outputAbs := filepath.Clean(job.OutputDir)

	err := filepath.WalkDir(job.InputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == job.InputDir {
				return err
			}
			return nil
		}
		if path == job.InputDir {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if !job.Recursive || strings.HasPrefix(name, ".") || filepath.Clean(path) == outputAbs {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(job.InputDir, path)
		if err != nil {
			return err
		}
		if !op.Accepts(path) {
			skipped++
			return nil
		}
		entries = append(entries, rel)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", job.InputDir, err)
	}
	sort.Strings(entries)
	return entries, skipped, nil
}

// reservations hands out destination paths that are unique within one run.
type reservations struct {
	mu    sync.Mutex
	taken map[string]struct{}
}

func newReservations() *reservations {
	return &reservations{taken: make(map[string]struct{})}
}

func (r *reservations) reserve(path string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidate := path
	if _, ok := r.taken[candidate]; ok {
		dir, base := filepath.Split(path)
		stem, ext := textutil.TrimExt(base), textutil.Ext(base)
		if ext != "" {
			ext = "." + ext
		}
		for i := 1; ; i++ {
			candidate = filepath.Join(dir, stem+"_"+strconv.Itoa(i)+ext)
			if _, ok := r.taken[candidate]; !ok {
				break
			}
		}
	}
	r.taken[candidate] = struct{}{}
	return candidate
}
