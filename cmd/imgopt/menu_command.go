package main

import (
	"context"

	"github.com/spf13/cobra"

	"imgopt/internal/batch"
	"imgopt/internal/menu"
)

func newMenuCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, ctx)
		},
	}
}

func runMenu(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	prompter := menu.NewTUI(cmd.InOrStdin(), out)
	exec := menu.ExecutorFunc(func(runCtx context.Context, job batch.Job) error {
		return runJob(runCtx, cmd, ctx, job)
	})
	return menu.New(prompter, out, cfg, exec, logger).Run(cmd.Context())
}
