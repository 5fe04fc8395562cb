// Package sanitizer normalizes untrusted form input and cleans rendered HTML.
package sanitizer

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var ugc = sync.OnceValue(bluemonday.UGCPolicy)

// HTML keeps safe formatting markup and drops scripts, event handlers and
// unsafe URLs. Use on generated HTML before embedding it in a trusted layout.
func HTML(s string) string {
	if s == "" {
		return ""
	}
	return ugc().Sanitize(s)
}

// Text normalizes line endings to "\n", drops control characters other than
// newline and tab, and trims surrounding whitespace. Markup is left intact:
// values are plain text and escaped wherever they are rendered.
func Text(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
