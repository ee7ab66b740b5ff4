// Package main hosts the imgopt CLI entrypoint and command graph.
//
// Without arguments imgopt opens the interactive menu. The compress, convert
// and rename subcommands run the same batches non-interactively, which suits
// scripts and shell history. Configuration is resolved once per invocation
// and shared by every subcommand through commandContext.
package main
