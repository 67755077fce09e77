// Package converter rebuilds discs as single-track cue/bin pairs through an
// intermediate CHD image.
//
// When archives are present each one is extracted into a directory named
// after it, a cue is located inside (or synthesized from the track dumps
// when none exists), and chdman createcd/extractcd emits the single-track
// pair into the output directory. Without archives the run processes the
// cue sheets already on disk. Scratch files live under one run-scoped temp
// root that is removed on every exit path.
package converter
