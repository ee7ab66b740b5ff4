package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"imgopt/internal/batch"
	"imgopt/internal/progress"
	"imgopt/internal/transform"
)

func newCompressCommand(ctx *commandContext) *cobra.Command {
	var (
		quality   float64
		output    string
		scale     float64
		workers   int
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "compress PATH",
		Short: "Re-encode a folder of images as compressed JPEG",
		Long: "Re-encode every JPEG, PNG and WebP image under PATH as JPEG at the given quality.\n" +
			"Output defaults to the comp folder inside your pictures directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			builder := batch.NewBuilderFromConfig(batch.KindCompress, cfg).
				InputDir(args[0]).
				Workers(workers)
			if cmd.Flags().Changed("quality") {
				builder.Quality(quality)
			}
			if cmd.Flags().Changed("scale") {
				builder.Scale(scale)
			}
			if cmd.Flags().Changed("recursive") {
				builder.Recursive(recursive)
			}
			if output != "" {
				builder.OutputDir(output)
			}
			return buildAndRun(cmd, ctx, builder)
		},
	}

	cmd.Flags().Float64VarP(&quality, "quality", "q", 0, "JPEG quality 0-100 (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output folder (default <pictures>/comp)")
	cmd.Flags().Float64Var(&scale, "scale", 1, "Resize ratio in (0, 1] applied before encoding")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent files (default from config)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "Descend into subfolders and mirror them in the output")
	return cmd
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		quality float64
		output  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "convert PATH",
		Short: "Convert a folder of images to WebP",
		Long: "Encode every JPEG and PNG image in PATH as lossy WebP at the given quality.\n" +
			"Output defaults to the webps folder inside your pictures directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			builder := batch.NewBuilderFromConfig(batch.KindConvert, cfg).
				InputDir(args[0]).
				Workers(workers)
			if cmd.Flags().Changed("quality") {
				builder.Quality(quality)
			}
			if output != "" {
				builder.OutputDir(output)
			}
			return buildAndRun(cmd, ctx, builder)
		},
	}

	cmd.Flags().Float64VarP(&quality, "quality", "q", 0, "WebP quality 0-100 (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output folder (default <pictures>/webps)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent files (default from config)")
	return cmd
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var (
		prefix   string
		name     string
		output   string
		timeZone string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "rename PATH",
		Short: "Copy a folder of images to names built from their capture time",
		Long: "Copy every file in PATH to <prefix><yy>_<mm>_<dd>_<HH>_<MM>_<SS>_<name>.<ext>\n" +
			"using the EXIF DateTimeOriginal tag. Files without one keep their name.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			builder := batch.NewBuilderFromConfig(batch.KindRename, cfg).
				InputDir(args[0]).
				Prefix(prefix).
				Name(name).
				Workers(workers)
			if timeZone != "" {
				builder.TimeZone(timeZone)
			}
			if output != "" {
				builder.OutputDir(output)
			}
			return buildAndRun(cmd, ctx, builder)
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Text placed before the timestamp")
	cmd.Flags().StringVar(&name, "name", "", "Text placed after the timestamp")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output folder (default <pictures>/renamed)")
	cmd.Flags().StringVar(&timeZone, "time-zone", "", "IANA zone capture times are read in (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent files (default from config)")
	_ = cmd.MarkFlagRequired("prefix")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func buildAndRun(cmd *cobra.Command, ctx *commandContext, builder *batch.Builder) error {
	job, err := builder.Build()
	if err != nil {
		return err
	}
	return runJob(cmd.Context(), cmd, ctx, job)
}

// runJob executes job with a progress reporter on the command's output. The
// reporter shows the outcome; the returned error only drives the exit code.
func runJob(runCtx context.Context, cmd *cobra.Command, ctx *commandContext, job batch.Job) error {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	op, err := transform.ForJob(job)
	if err != nil {
		return err
	}

	reporter := progress.New(cmd.OutOrStdout(), logger)
	runner := batch.NewRunner(logger, batch.WithObserver(reporter))
	report, err := runner.Run(runCtx, job, op)
	reporter.Finish(report, err)
	if err != nil {
		return err
	}
	if failed := len(report.Failures); failed > 0 {
		return fmt.Errorf("%s: %d of %d files failed", job.Kind, failed, report.Total())
	}
	return nil
}
