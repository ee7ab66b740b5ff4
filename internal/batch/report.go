package batch

import (
	"errors"
	"fmt"
	"time"
)

// Output is what an Operation reports for one file it wrote.
type Output struct {
	BytesIn  int64
	BytesOut int64
	// SourceQuality is the estimated quality of a JPEG source, 0 if unknown.
	SourceQuality int
	// KeptSource is set when the source bytes were copied instead of the
	// re-encoded result.
	KeptSource bool
}

// Result is the outcome of one input file.
type Result struct {
	Source      string
	Destination string
	Output
	Duration time.Duration
	Err      error
}

// Failed reports whether the file could not be processed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Report summarizes a finished or cancelled run.
type Report struct {
	RunID     string
	Kind      Kind
	InputDir  string
	OutputDir string

	Processed int
	Skipped   int
	Results   []Result
	Failures  []Result

	BytesIn  int64
	BytesOut int64

	Started  time.Time
	Duration time.Duration
}

// Total counts every file handed to the operation.
func (r Report) Total() int {
	return r.Processed + len(r.Failures)
}

// Saved is the byte difference between inputs and outputs; negative when the
// outputs grew.
func (r Report) Saved() int64 {
	return r.BytesIn - r.BytesOut
}

// Err joins the per-file errors, or returns nil when every file succeeded.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, failure := range r.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", failure.Source, failure.Err))
	}
	return errors.Join(errs...)
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	if res.Failed() {
		r.Failures = append(r.Failures, res)
		return
	}
	r.Processed++
	r.BytesIn += res.BytesIn
	r.BytesOut += res.BytesOut
}
