// Package rename composes canonical disc file stems. A stem that already
// carries a raw code spelling has it normalized in place; an untagged stem
// gains a bracketed code suffix.
package rename

import (
	"strings"
	"unicode"

	"jewelcase/internal/disccode"
)

// Compose builds the stem a tagged file should carry. When the stem already
// contains a token matching the family grammar, the first occurrence is
// replaced with the canonical code and the rest of the stem is untouched
// ("Game SLUS_005.94" stays "Game SLUS-00594", not "Game ... [SLUS-00594]").
// Otherwise the canonical code is appended as a bracketed suffix after
// trimming trailing whitespace. The result carries exactly one canonical
// token, so composing again is a no-op.
func Compose(stem string, code disccode.Code, family disccode.Family) string {
	if start, end, ok := family.FindStringIndex(stem); ok {
		return stem[:start] + code.String() + stem[end:]
	}
	trimmed := strings.TrimRightFunc(stem, unicode.IsSpace)
	return trimmed + " [" + code.String() + "]"
}
