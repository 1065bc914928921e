// Package utils provides common string helpers.
package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// CollapseWhitespace replaces every whitespace run with a single space and trims both ends.
func CollapseWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// Truncate shortens str to at most maxWidth terminal columns, ending with "..." when cut.
func Truncate(str string, maxWidth int) string {
	if runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	return runewidth.Truncate(str, maxWidth, "...")
}
