// Package disccode locates and canonicalizes PlayStation product codes.
//
// A product code (SLUS-00594, SCES-01420, ...) identifies a disc release.
// Raw spellings vary: the separator may be an underscore and the digit run
// may carry a dotted two-digit suffix, as in SLUS_005.94. The package finds
// raw tokens in filenames and in raw disc content and reduces every spelling
// to the canonical PREFIX-DIGITS form.
//
// Matching is implemented as explicit byte-level grammar checks rather than
// a regular expression so the same matcher serves multi-megabyte binary
// chunks and short filename stems with identical semantics.
package disccode
