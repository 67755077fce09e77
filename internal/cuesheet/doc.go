// Package cuesheet models cue-sheet track layouts, synthesizes a sheet for
// discs that ship as bare track dumps, and retargets FILE directives when a
// referenced track file is renamed.
package cuesheet
