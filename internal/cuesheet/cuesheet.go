package cuesheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jewelcase/internal/fileutil"
)

// ErrNoTracks reports a synthesis request with an empty track set. The
// condition is terminal for that disc; no cue file is written.
var ErrNoTracks = errors.New("no track files")

// Mode is a cue track mode token.
type Mode string

const (
	// ModeData is raw mode-2 data at 2352 bytes per sector.
	ModeData Mode = "MODE2/2352"
	// ModeAudio is a red-book audio track.
	ModeAudio Mode = "AUDIO"
)

// Track is one entry of a cue sheet: the referenced track file plus its
// assigned number and mode.
type Track struct {
	Number int
	Mode   Mode
	File   string
}

// Sheet is an ordered cue-sheet track layout. Track numbers run contiguously
// from 1 and track 1 is always the data track.
type Sheet struct {
	Tracks []Track
}

// Layout assigns track numbers and modes to a set of track file names. The
// caller passes names sorted ascending; that order is the track numbering.
// Track 1 is data, every following track audio, and each track starts at
// index 00:00:00. True gap and offset detection is out of scope, so the
// layout is a best-effort default rather than a playback guarantee.
func Layout(files []string) (Sheet, error) {
	if len(files) == 0 {
		return Sheet{}, ErrNoTracks
	}
	tracks := make([]Track, 0, len(files))
	for i, name := range files {
		mode := ModeAudio
		if i == 0 {
			mode = ModeData
		}
		tracks = append(tracks, Track{Number: i + 1, Mode: mode, File: name})
	}
	return Sheet{Tracks: tracks}, nil
}

// Render produces the cue text for the sheet.
func (s Sheet) Render() string {
	var b strings.Builder
	for _, t := range s.Tracks {
		fmt.Fprintf(&b, "FILE \"%s\" BINARY\n", t.File)
		fmt.Fprintf(&b, "  TRACK %02d %s\n", t.Number, t.Mode)
		b.WriteString("    INDEX 01 00:00:00\n")
	}
	return b.String()
}

// Synthesize builds a cue sheet for a disc that has track dumps but no cue.
// The bins must be sorted by filename ascending. Each referenced file is
// copied into destDir first, then the cue is written alongside as
// baseName.cue, since conversion tools expect the sheet and its tracks to be
// co-located. Returns the written cue path.
func Synthesize(bins []string, destDir, baseName string) (string, error) {
	names := make([]string, len(bins))
	for i, bin := range bins {
		names[i] = filepath.Base(bin)
	}
	sheet, err := Layout(names)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create cue destination: %w", err)
	}
	for _, bin := range bins {
		dst := filepath.Join(destDir, filepath.Base(bin))
		if err := fileutil.CopyFileVerified(bin, dst); err != nil {
			return "", fmt.Errorf("copy track %s: %w", filepath.Base(bin), err)
		}
	}

	cuePath := filepath.Join(destDir, baseName+".cue")
	if err := os.WriteFile(cuePath, []byte(sheet.Render()), 0o644); err != nil {
		return "", fmt.Errorf("write cue: %w", err)
	}
	return cuePath, nil
}
