// Package batch holds the flat Job record describing one folder operation,
// the Builder that validates it, and the Runner that applies a per-file
// Operation to every entry of the input folder in parallel.
//
// A run takes an exclusive lock inside the output folder, reserves output
// names so two inputs never collide, keeps going when individual files fail,
// and returns a Report instead of signalling completion on a channel.
package batch
