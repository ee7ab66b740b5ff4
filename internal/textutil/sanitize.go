package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\x00", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Input is first normalized to Unicode NFC so visually identical names typed
// on different platforms produce identical bytes. Slashes, backslashes,
// colons, and asterisks become dashes; other unsafe characters are removed.
// The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(norm.NFC.String(name))
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// TrimExt returns the file name without its final extension.
func TrimExt(name string) string {
	ext := extOf(name)
	return strings.TrimSuffix(name, ext)
}

// Ext returns the extension of name without the leading dot.
func Ext(name string) string {
	return strings.TrimPrefix(extOf(name), ".")
}

// extOf treats dotfiles like ".hidden" as having no extension.
func extOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 || strings.ContainsAny(name[idx:], `/\`) {
		return ""
	}
	return name[idx:]
}
