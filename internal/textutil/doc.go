// Package textutil provides filename helpers shared by the batch operations:
// Unicode normalization plus removal of filesystem-unsafe characters, and
// stem/extension splitting that treats dotfiles as extensionless.
package textutil
