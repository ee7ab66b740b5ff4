// Package preflight provides filesystem readiness checks for the folders
// imgopt reads from and writes to.
//
// The CLI "imgopt config validate" command runs RunAll after loading the
// configuration and prints each result. Individual checks are exported so
// callers can probe an arbitrary input or output folder.
package preflight
