package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"imgopt/internal/batch"
	"imgopt/internal/logging"
	"imgopt/internal/testsupport"
)

// copyOp copies accepted files to <output>/<rel>, optionally failing some.
type copyOp struct {
	ext    string
	fail   map[string]bool
	target func(job batch.Job, rel string) string

	mu      sync.Mutex
	applied []string
}

func (o *copyOp) Name() string { return "copy" }

func (o *copyOp) Accepts(path string) bool {
	return strings.EqualFold(filepath.Ext(path), o.ext)
}

func (o *copyOp) Target(job batch.Job, rel string) string {
	if o.target != nil {
		return o.target(job, rel)
	}
	return filepath.Join(job.OutputDir, rel)
}

func (o *copyOp) Apply(_ context.Context, src, dst string) (batch.Output, error) {
	o.mu.Lock()
	o.applied = append(o.applied, filepath.Base(src))
	o.mu.Unlock()
	if o.fail[filepath.Base(src)] {
		return batch.Output{}, errors.New("cannot decode")
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return batch.Output{}, err
	}
	if err := os.WriteFile(dst, data[:len(data)/2], 0o644); err != nil {
		return batch.Output{}, err
	}
	return batch.Output{BytesIn: int64(len(data)), BytesOut: int64(len(data) / 2)}, nil
}

type recordingObserver struct {
	mu      sync.Mutex
	label   string
	total   int
	results []batch.Result
}

func (o *recordingObserver) Start(label string, total int) {
	o.label, o.total = label, total
}

func (o *recordingObserver) Advance(res batch.Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, res)
}

// stepClock advances one second on every call.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newJob(t *testing.T, in string, recursive bool) batch.Job {
	t.Helper()
	job, err := batch.NewBuilder(batch.KindCompress).
		InputDir(in).
		OutputDir(filepath.Join(t.TempDir(), "out")).
		Quality(75).
		Workers(4).
		Recursive(recursive).
		Build()
	if err != nil {
		t.Fatalf("build job: %v", err)
	}
	return job
}

func TestRunProcessesAcceptedFiles(t *testing.T) {
	in := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(in, "a.jpg"), 100)
	testsupport.WriteFile(t, filepath.Join(in, "b.JPG"), 50)
	testsupport.WriteFile(t, filepath.Join(in, "notes.txt"), 10)
	testsupport.WriteFile(t, filepath.Join(in, ".hidden.jpg"), 10)
	testsupport.WriteFile(t, filepath.Join(in, "sub", "c.jpg"), 10)

	job := newJob(t, in, false)
	op := &copyOp{ext: ".jpg"}
	observer := &recordingObserver{}

	clock := &stepClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	report, err := batch.NewRunner(logging.NewNop(), batch.WithObserver(observer), batch.WithClock(clock.tick)).Run(context.Background(), job, op)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// One tick to start, two per file, one to finish.
	if !report.Started.Equal(time.Date(2024, 5, 1, 9, 0, 1, 0, time.UTC)) || report.Duration != 5*time.Second {
		t.Fatalf("unexpected timing: started=%v duration=%v", report.Started, report.Duration)
	}
	if report.Processed != 2 || report.Skipped != 1 || len(report.Failures) != 0 {
		t.Fatalf("unexpected counts: processed=%d skipped=%d failed=%d", report.Processed, report.Skipped, len(report.Failures))
	}
	if report.BytesIn != 150 || report.BytesOut != 75 || report.Saved() != 75 {
		t.Fatalf("unexpected byte totals: in=%d out=%d", report.BytesIn, report.BytesOut)
	}
	if report.RunID == "" || report.Kind != batch.KindCompress {
		t.Fatalf("report missing identity: %+v", report)
	}
	if err := report.Err(); err != nil {
		t.Fatalf("expected nil Report.Err, got %v", err)
	}
	for _, name := range []string{"a.jpg", "b.JPG"} {
		if _, err := os.Stat(filepath.Join(job.OutputDir, name)); err != nil {
			t.Fatalf("expected output %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(job.OutputDir, "sub")); !os.IsNotExist(err) {
		t.Fatalf("non-recursive run should not descend, stat err=%v", err)
	}
	relock := flock.New(filepath.Join(job.OutputDir, batch.LockFileName))
	if locked, err := relock.TryLock(); err != nil || !locked {
		t.Fatalf("expected lock released after run: locked=%v err=%v", locked, err)
	}
	_ = relock.Unlock()
	if observer.label != "Compressing..." || observer.total != 2 || len(observer.results) != 2 {
		t.Fatalf("unexpected observer state: label=%q total=%d results=%d", observer.label, observer.total, len(observer.results))
	}
}

func TestRunRecursiveMirrorsFolders(t *testing.T) {
	in := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(in, "a.jpg"), 10)
	testsupport.WriteFile(t, filepath.Join(in, "2023", "july", "b.jpg"), 10)
	testsupport.WriteFile(t, filepath.Join(in, ".cache", "c.jpg"), 10)

	job := newJob(t, in, true)
	report, err := batch.NewRunner(nil).Run(context.Background(), job, &copyOp{ext: ".jpg"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Processed != 2 {
		t.Fatalf("expected 2 processed, got %d", report.Processed)
	}
	if _, err := os.Stat(filepath.Join(job.OutputDir, "2023", "july", "b.jpg")); err != nil {
		t.Fatalf("expected mirrored output: %v", err)
	}
}

func TestRunSkipsOutputInsideInput(t *testing.T) {
	in := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(in, "a.jpg"), 10)
	testsupport.WriteFile(t, filepath.Join(in, "comp", "old.jpg"), 10)

	job, err := batch.NewBuilder(batch.KindCompress).InputDir(in).OutputDir(filepath.Join(in, "comp")).Quality(70).Build()
	if err != nil {
		t.Fatal(err)
	}
	report, err := batch.NewRunner(nil).Run(context.Background(), job, &copyOp{ext: ".jpg"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Processed != 1 || report.Results[0].Source != filepath.Join(in, "a.jpg") {
		t.Fatalf("expected only a.jpg processed, got %+v", report.Results)
	}
}

func TestRunContinuesPastFailures(t *testing.T) {
	in := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		testsupport.WriteFile(t, filepath.Join(in, name), 20)
	}
	op := &copyOp{ext: ".jpg", fail: map[string]bool{"b.jpg": true}}

	report, err := batch.NewRunner(nil).Run(context.Background(), newJob(t, in, false), op)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(op.applied) != 3 {
		t.Fatalf("expected every file attempted, got %v", op.applied)
	}
	if report.Processed != 2 || len(report.Failures) != 1 || report.Total() != 3 {
		t.Fatalf("unexpected counts: processed=%d failed=%d", report.Processed, len(report.Failures))
	}
	err = report.Err()
	if err == nil || !strings.Contains(err.Error(), "b.jpg: cannot decode") {
		t.Fatalf("expected joined failure, got %v", err)
	}
}

func TestRunReservesUniqueNames(t *testing.T) {
	in := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		testsupport.WriteFile(t, filepath.Join(in, name), 8)
	}
	op := &copyOp{ext: ".jpg", target: func(job batch.Job, _ string) string {
		return filepath.Join(job.OutputDir, "same.jpg")
	}}

	report, err := batch.NewRunner(nil).Run(context.Background(), newJob(t, in, false), op)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	seen := map[string]bool{}
	for _, res := range report.Results {
		seen[filepath.Base(res.Destination)] = true
	}
	for _, name := range []string{"same.jpg", "same_1.jpg", "same_2.jpg"} {
		if !seen[name] {
			t.Fatalf("expected destination %s, got %v", name, seen)
		}
	}
}

func TestRunFailsWhenOutputLocked(t *testing.T) {
	in := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(in, "a.jpg"), 8)
	job := newJob(t, in, false)
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}

	held := flock.New(filepath.Join(job.OutputDir, batch.LockFileName))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("hold lock: locked=%v err=%v", locked, err)
	}
	defer held.Unlock()

	_, err = batch.NewRunner(nil).Run(context.Background(), job, &copyOp{ext: ".jpg"})
	if !errors.Is(err, batch.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunKeepsLockFileAcrossRuns(t *testing.T) {
	in := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(in, "a.jpg"), 8)
	job := newJob(t, in, false)
	runner := batch.NewRunner(nil)

	for i := 0; i < 2; i++ {
		report, err := runner.Run(context.Background(), job, &copyOp{ext: ".jpg"})
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if report.Processed != 1 {
			t.Fatalf("run %d: expected 1 processed, got %d", i, report.Processed)
		}
	}
	info, err := os.Stat(filepath.Join(job.OutputDir, batch.LockFileName))
	if err != nil {
		t.Fatalf("expected lock file to remain: %v", err)
	}

	// A run holding the lock on the existing inode still excludes others.
	held := flock.New(filepath.Join(job.OutputDir, batch.LockFileName))
	if locked, err := held.TryLock(); err != nil || !locked {
		t.Fatalf("hold lock: locked=%v err=%v", locked, err)
	}
	defer held.Unlock()
	if _, err := runner.Run(context.Background(), job, &copyOp{ext: ".jpg"}); !errors.Is(err, batch.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	after, err := os.Stat(filepath.Join(job.OutputDir, batch.LockFileName))
	if err != nil || !os.SameFile(info, after) {
		t.Fatalf("lock file was replaced: err=%v", err)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	in := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(in, "a.jpg"), 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op := &copyOp{ext: ".jpg"}
	report, err := batch.NewRunner(nil).Run(ctx, newJob(t, in, false), op)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if report.Processed != 0 || len(op.applied) != 0 {
		t.Fatalf("expected nothing processed after cancel, got %d", report.Processed)
	}
}

func TestRunRequiresOperation(t *testing.T) {
	if _, err := batch.NewRunner(nil).Run(context.Background(), batch.Job{}, nil); err == nil {
		t.Fatal("expected error for nil operation")
	}
}
