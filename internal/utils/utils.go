package utils

import (
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeFilename strips directories and characters that are unsafe in a
// stored filename. Letters of any script are kept so Korean roster names survive.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "roster"
	}
	return out
}
