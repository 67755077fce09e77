// Package codecache persists content scan results so repeated runs
// over large track files skip the read entirely.
//
// Entries are keyed by absolute path and validated against file size
// and modification time, so a retagged or rebuilt track file is
// rescanned instead of served stale. Negative results are cached too;
// a miss on a 64 MiB scan window costs the same as a hit.
package codecache
