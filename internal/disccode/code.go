package disccode

import "strings"

// Code is a product code in canonical form: uppercase prefix, one hyphen,
// digit run, no dots or underscores (for example SLUS-00594).
type Code string

// String returns the code as a plain string.
func (c Code) String() string { return string(c) }

// Family selects the prefix grammar used when matching raw code tokens.
type Family int

const (
	// PS1 matches the PlayStation publisher families: S, then L or C, two
	// further letters, and optionally a fifth (SLUS, SLES, SCUS, SCES, ...).
	PS1 Family = iota
	// General matches any 4-5 letter prefix and is used for PS2/ISO scanning.
	General
)

const (
	minPrefixLen = 4
	maxPrefixLen = 5
	minDigits    = 3
	maxDigits    = 5
)

// Normalize reduces a raw token to canonical form: underscores become
// hyphens, dots are deleted, the result is uppercased. "SLUS_005.94"
// normalizes to "SLUS-00594". The digit run is kept exactly as removing
// the dot leaves it; no additional zero padding is applied.
func Normalize(raw string) Code {
	text := strings.ReplaceAll(raw, "_", "-")
	text = strings.ReplaceAll(text, ".", "")
	return Code(strings.ToUpper(text))
}

// FromName extracts the first code token from a filename stem and returns
// it normalized. Filename matching is case-insensitive so already-tagged
// lowercase spellings short-circuit a content scan.
func (f Family) FromName(stem string) (Code, bool) {
	raw, ok := f.FindString(stem)
	if !ok {
		return "", false
	}
	return Normalize(raw), true
}

// FindBytes returns the first raw token in data matching the family
// grammar. Content matching is case-sensitive; disc images store codes
// uppercase.
func (f Family) FindBytes(data []byte) ([]byte, bool) {
	for i := 0; i < len(data); i++ {
		if n := f.matchAt(data, i, false); n > 0 {
			return data[i : i+n], true
		}
	}
	return nil, false
}

// FindString returns the first raw token in s, matched case-insensitively.
func (f Family) FindString(s string) (string, bool) {
	start, end, ok := f.FindStringIndex(s)
	if !ok {
		return "", false
	}
	return s[start:end], true
}

// FindStringIndex locates the first case-insensitive token in s and returns
// its byte bounds, for callers that replace the raw spelling in place.
func (f Family) FindStringIndex(s string) (start, end int, ok bool) {
	data := []byte(s)
	for i := 0; i < len(data); i++ {
		if n := f.matchAt(data, i, true); n > 0 {
			return i, i + n, true
		}
	}
	return 0, 0, false
}

// matchAt returns the token length when a code token begins at data[i], or
// zero. Prefix lengths are tried longest-first and the digit run is taken
// greedily, reproducing the leftmost-greedy behaviour of the grammar.
func (f Family) matchAt(data []byte, i int, fold bool) int {
	for plen := maxPrefixLen; plen >= minPrefixLen; plen-- {
		if !f.prefixAt(data, i, plen, fold) {
			continue
		}
		if tail := digitTail(data, i+plen); tail > 0 {
			return plen + tail
		}
	}
	return 0
}

// prefixAt reports whether a family prefix of the given length starts at
// data[i].
func (f Family) prefixAt(data []byte, i, length int, fold bool) bool {
	if i+length > len(data) {
		return false
	}
	for k := 0; k < length; k++ {
		if !isLetter(data[i+k], fold) {
			return false
		}
	}
	if f == General {
		return true
	}
	b0, b1 := data[i], data[i+1]
	if fold {
		b0, b1 = upper(b0), upper(b1)
	}
	return b0 == 'S' && (b1 == 'L' || b1 == 'C')
}

// digitTail consumes the separator, a 3-5 digit run, and an optional dotted
// two-digit suffix starting at data[i], returning the consumed length or
// zero when the tail does not match.
func digitTail(data []byte, i int) int {
	if i >= len(data) || (data[i] != '-' && data[i] != '_') {
		return 0
	}
	n := i + 1
	digits := 0
	for digits < maxDigits && n < len(data) && isDigit(data[n]) {
		digits++
		n++
	}
	if digits < minDigits {
		return 0
	}
	if n+2 < len(data) && data[n] == '.' && isDigit(data[n+1]) && isDigit(data[n+2]) {
		n += 3
	}
	return n - i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isLetter(b byte, fold bool) bool {
	if fold {
		b = upper(b)
	}
	return b >= 'A' && b <= 'Z'
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
