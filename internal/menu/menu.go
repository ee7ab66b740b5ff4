package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"imgopt/internal/batch"
	"imgopt/internal/config"
	"imgopt/internal/logging"
)

const banner = `
 _                                  _
(_) _ __ ___    __ _   ___   _ __  | |_
| || '_ ' _ \  / _' | / _ \ | '_ \ | __|
| || | | | | || (_| || (_) || |_) || |_
|_||_| |_| |_| \__, | \___/ | .__/  \__|
               |___/        |_|
`

const (
	mainTitle        = "What would you like to do?"
	compressionTitle = "Compression operations"
	conversionTitle  = "Conversion operations"
	goBack           = "Go back"
)

var (
	mainItems        = []string{"Optimize folder of images", "Perform various conversion operations", "Exit"}
	compressionItems = []string{"Compress a folder of images", goBack}
	conversionItems  = []string{"Convert a folder of images to WebP", "Rename a folder of images", goBack}
)

// Executor runs a validated Job. Implementations present the outcome to the
// user themselves; the returned error is only used for logging.
type Executor interface {
	Execute(ctx context.Context, job batch.Job) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, job batch.Job) error

func (f ExecutorFunc) Execute(ctx context.Context, job batch.Job) error {
	return f(ctx, job)
}

// Menu is the interactive main loop.
type Menu struct {
	prompter Prompter
	out      io.Writer
	cfg      *config.Config
	exec     Executor
	logger   *slog.Logger
}

// New constructs a Menu. cfg supplies the defaults seeded into each Job.
func New(prompter Prompter, out io.Writer, cfg *config.Config, exec Executor, logger *slog.Logger) *Menu {
	return &Menu{
		prompter: prompter,
		out:      out,
		cfg:      cfg,
		exec:     exec,
		logger:   logging.NewComponentLogger(logger, "menu"),
	}
}

// Run prints the greeting and loops over the main menu until the user picks
// Exit. Prompt failures, including interrupts, end the loop and are returned.
func (m *Menu) Run(ctx context.Context) error {
	m.greet()
	for {
		choice, err := m.prompter.Select(ctx, mainTitle, mainItems)
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			err = m.compressionMenu(ctx)
		case 1:
			err = m.conversionMenu(ctx)
		case 2:
			fmt.Fprintln(m.out, farewellStyle.Render("\nGoodbye!\n"))
			return nil
		default:
			err = fmt.Errorf("unknown menu choice %d", choice)
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) greet() {
	fmt.Fprintln(m.out, bannerStyle.Render(banner))
	fmt.Fprintln(m.out, "Image Processor")
	fmt.Fprintln(m.out, "Compress, convert and rename folders of photos")
	fmt.Fprintln(m.out)
}

func (m *Menu) compressionMenu(ctx context.Context) error {
	for {
		choice, err := m.prompter.Select(ctx, compressionTitle, compressionItems)
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			err = m.compress(ctx)
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) conversionMenu(ctx context.Context) error {
	for {
		choice, err := m.prompter.Select(ctx, conversionTitle, conversionItems)
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			err = m.convert(ctx)
		case 1:
			err = m.rename(ctx)
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) compress(ctx context.Context) error {
	in, err := m.prompter.Text(ctx, "Enter the directory containing JPG images")
	if err != nil {
		return err
	}
	out, err := m.prompter.Text(ctx, "Enter the output directory for the compressed images")
	if err != nil {
		return err
	}
	quality, err := m.prompter.Float(ctx, "What's the image quality?")
	if err != nil {
		return err
	}
	return m.execute(ctx, batch.NewBuilderFromConfig(batch.KindCompress, m.cfg).
		InputDir(in).
		OutputDir(out).
		Quality(quality))
}

func (m *Menu) convert(ctx context.Context) error {
	in, err := m.prompter.Text(ctx, "Enter the directory with JPG images needing conversion")
	if err != nil {
		return err
	}
	out, err := m.prompter.Text(ctx, "Enter the output directory for the converted images")
	if err != nil {
		return err
	}
	quality, err := m.prompter.Float(ctx, "What's the image quality?")
	if err != nil {
		return err
	}
	return m.execute(ctx, batch.NewBuilderFromConfig(batch.KindConvert, m.cfg).
		InputDir(in).
		OutputDir(out).
		Quality(quality))
}

func (m *Menu) rename(ctx context.Context) error {
	in, err := m.prompter.Text(ctx, "Enter the directory with images to rename")
	if err != nil {
		return err
	}
	out, err := m.prompter.Text(ctx, "Enter the output directory for the renamed images")
	if err != nil {
		return err
	}
	prefix, err := m.prompter.Text(ctx, "Enter a prefix for the renamed files")
	if err != nil {
		return err
	}
	name, err := m.prompter.Text(ctx, "Enter the new file name")
	if err != nil {
		return err
	}
	return m.execute(ctx, batch.NewBuilderFromConfig(batch.KindRename, m.cfg).
		InputDir(in).
		OutputDir(out).
		Prefix(prefix).
		Name(name))
}

// execute builds and runs the job. Invalid answers and failed batches are
// reported and the menu carries on; only cancellation ends the loop.
func (m *Menu) execute(ctx context.Context, builder *batch.Builder) error {
	job, err := builder.Build()
	if err != nil {
		fmt.Fprintln(m.out, errorStyle.Render(err.Error()))
		return nil
	}
	if err := m.exec.Execute(ctx, job); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		m.logger.Debug("batch finished with errors",
			logging.String(logging.FieldOperation, string(job.Kind)),
			logging.Error(err),
		)
	}
	return nil
}
