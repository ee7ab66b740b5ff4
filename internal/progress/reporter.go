package progress

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"imgopt/internal/batch"
)

// Reporter follows one batch from start to finish. It satisfies
// batch.Observer, so a Reporter can be handed straight to the runner.
type Reporter interface {
	Start(label string, total int)
	Advance(batch.Result)
	// Finish prints the outcome. err is the error returned by the runner,
	// if any; per-file failures are read from the report.
	Finish(report batch.Report, err error)
}

// New returns a Terminal reporter when w is an interactive terminal and a
// Plain reporter otherwise.
func New(w io.Writer, logger *slog.Logger) Reporter {
	if IsTerminal(w) {
		return NewTerminal(w)
	}
	return NewPlain(w, logger)
}

// IsTerminal reports whether w is a character device attached to a TTY.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SuccessMessage is printed when every file succeeded.
const SuccessMessage = "Done!"

// FailureMessage is printed when a batch had failures.
func FailureMessage(kind batch.Kind) string {
	verb := string(kind)
	if verb == "" {
		verb = "process"
	}
	return "Error! Cannot " + verb + " the images!"
}

func outcome(report batch.Report, err error) (string, bool) {
	if err != nil || report.Err() != nil {
		return FailureMessage(report.Kind), false
	}
	return SuccessMessage, true
}
