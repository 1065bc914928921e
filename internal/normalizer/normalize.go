// Package normalizer canonicalizes article titles and turns them into character n-gram fingerprints.
package normalizer

import (
	"regexp"
	"strings"

	"github.com/Blackmvmba88/q2bs/pkg/utils"
)

// urlPattern matches an http(s) URL up to the next whitespace character, where whitespace
// includes the Unicode separators and the ASCII information separators.
var urlPattern = regexp.MustCompile(`https?://[^\s\v\x{1c}-\x{1f}\x{85}\p{Z}]+`)

// Normalize returns the comparison form of a title: lowercased, URLs removed, every character
// other than a-z and 0-9 turned into a space, whitespace collapsed and trimmed.
//
// The result only contains a-z, 0-9 and single inner spaces, so it is plain ASCII and
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// Full case mapping lowers U+0130 to "i" plus a combining dot, which then splits the word.
	text = strings.ReplaceAll(text, "\u0130", "i\u0307")
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}

		return ' '
	}, text)

	return utils.CollapseWhitespace(text)
}
