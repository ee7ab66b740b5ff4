// Package menu drives the interactive mode: a main menu, the compression and
// conversion submenus, and the prompts that collect a batch.Job.
//
// Prompts go through the Prompter interface. TUI implements it with
// bubbletea; tests use a scripted fake.
package menu
