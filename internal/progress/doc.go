// Package progress reports batch progress to the user.
//
// Terminal renders a progress bar, a coloured outcome line, and a summary
// table. Plain suits pipes and log files: it emits sampled structured log
// lines and an uncoloured summary. New picks one based on whether the output
// is a TTY.
package progress
