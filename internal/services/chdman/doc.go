// Package chdman wraps the MAME chdman tool for converting cue/bin
// disc images to CHD archives and back.
package chdman
