// Package tagger renames disc images so their filenames carry the canonical
// product code.
//
// A plan pass inspects every image in a directory, resolving each code from
// the filename first and the file content second, and decides between a
// rename, a no-op normalization, and a skip. An apply pass executes the plan:
// cue sheets are retargeted at the renamed track file, then the track and cue
// are renamed in that order. Conflicting targets are never overwritten.
//
// The plan/apply split exists so dry runs and the rename table in the CLI
// share one decision path.
package tagger
