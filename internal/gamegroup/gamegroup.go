// Package gamegroup clusters multi-disc releases under one title. It derives
// a stable grouping key from noisy disc file stems so "Game (Disc 1)
// [SLUS-00594]" and "Game (Disc 2) [SLUS-00595]" land in the same group.
package gamegroup

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Trailing bracketed product code, hyphen optional: [SLUS-00594], [sles94]
	codeSuffixRE = regexp.MustCompile(`(?i)\s*\[S[LC][A-Z]{2}[A-Z]?-?\d+\]\s*$`)
	// Parenthesized disc marker: (Disc 1), (disc2)
	parenDiscRE = regexp.MustCompile(`(?i)\s*\(disc\s*\d+\)`)
	// Bare disc marker: _Disc1, Disc_2, -Disc 3
	bareDiscRE   = regexp.MustCompile(`(?i)[ _-]*disc[_-]?\s*\d+`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// DeriveKey reduces a disc file stem to a grouping key and a display name.
// The stem is NFC-folded, the trailing bracketed code is stripped,
// parenthesized disc markers are removed before bare ones (the bare pattern
// would otherwise eat into the parenthesized form), underscores become
// spaces, and whitespace is collapsed. The key is the lowercased result; the
// display name keeps the original casing. ok is false when nothing remains,
// in which case the caller skips the file rather than grouping it under an
// empty identity.
func DeriveKey(stem string) (key, display string, ok bool) {
	cleaned := norm.NFC.String(stem)
	cleaned = codeSuffixRE.ReplaceAllString(cleaned, "")
	cleaned = parenDiscRE.ReplaceAllString(cleaned, "")
	cleaned = bareDiscRE.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, "_", " ")
	cleaned = whitespaceRE.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", "", false
	}
	return strings.ToLower(cleaned), cleaned, true
}

// Group is one clustered title: the derived key, the display name taken from
// the first stem seen for that key, and the member files sorted ascending.
type Group struct {
	Key     string
	Display string
	Files   []string
}

// Collector accumulates disc files into groups. Groups are transient; they
// live only for the duration of one packing run.
type Collector struct {
	groups map[string]*groupState
}

type groupState struct {
	display string
	files   map[string]struct{}
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{groups: make(map[string]*groupState)}
}

// Add registers files under the group derived from stem, deduplicating
// paths. The display name sticks from the first stem seen for a key, so
// callers add discs in sort order. Returns false when no key can be derived.
func (c *Collector) Add(stem string, files ...string) bool {
	key, display, ok := DeriveKey(stem)
	if !ok {
		return false
	}
	state := c.groups[key]
	if state == nil {
		state = &groupState{display: display, files: make(map[string]struct{})}
		c.groups[key] = state
	}
	for _, file := range files {
		state.files[file] = struct{}{}
	}
	return true
}

// Groups returns the collected groups sorted by key.
func (c *Collector) Groups() []Group {
	keys := make([]string, 0, len(c.groups))
	for key := range c.groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]Group, 0, len(keys))
	for _, key := range keys {
		state := c.groups[key]
		files := make([]string, 0, len(state.files))
		for file := range state.files {
			files = append(files, file)
		}
		sort.Strings(files)
		out = append(out, Group{Key: key, Display: state.display, Files: files})
	}
	return out
}
