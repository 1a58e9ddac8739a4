package session

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

const fence = "```"

// Sanitize reduces a model reply to a plain commit message: compatibility
// forms are folded (NFKC), the text is transliterated to ASCII, every
// triple-backtick is removed, and surrounding whitespace is trimmed.
//
// Sanitize is idempotent.
func Sanitize(reply string) string {
	text := norm.NFKC.String(reply)
	text = unidecode.Unidecode(text)
	text = strings.ReplaceAll(text, fence, "")
	return strings.TrimSpace(text)
}
