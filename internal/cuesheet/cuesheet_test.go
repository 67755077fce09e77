package cuesheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLayoutAssignsModes(t *testing.T) {
	tests := []struct {
		name      string
		files     []string
		wantModes []Mode
	}{
		{name: "single track", files: []string{"game.bin"}, wantModes: []Mode{ModeData}},
		{
			name:      "multi track",
			files:     []string{"game (Track 1).bin", "game (Track 2).bin", "game (Track 3).bin"},
			wantModes: []Mode{ModeData, ModeAudio, ModeAudio},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sheet, err := Layout(tc.files)
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			if len(sheet.Tracks) != len(tc.files) {
				t.Fatalf("track count = %d, want %d", len(sheet.Tracks), len(tc.files))
			}
			for i, track := range sheet.Tracks {
				if track.Number != i+1 {
					t.Fatalf("track %d number = %d", i, track.Number)
				}
				if track.Mode != tc.wantModes[i] {
					t.Fatalf("track %d mode = %s, want %s", i+1, track.Mode, tc.wantModes[i])
				}
				if track.File != tc.files[i] {
					t.Fatalf("track %d file = %q, want %q", i+1, track.File, tc.files[i])
				}
			}
		})
	}
}

func TestLayoutEmpty(t *testing.T) {
	if _, err := Layout(nil); !errors.Is(err, ErrNoTracks) {
		t.Fatalf("Layout(nil) error = %v, want ErrNoTracks", err)
	}
}

func TestRender(t *testing.T) {
	sheet, err := Layout([]string{"Game (Track 1).bin", "Game (Track 2).bin"})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	want := "FILE \"Game (Track 1).bin\" BINARY\n" +
		"  TRACK 01 MODE2/2352\n" +
		"    INDEX 01 00:00:00\n" +
		"FILE \"Game (Track 2).bin\" BINARY\n" +
		"  TRACK 02 AUDIO\n" +
		"    INDEX 01 00:00:00\n"
	if got := sheet.Render(); got != want {
		t.Fatalf("Render mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestSynthesize(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "assets")
	bins := []string{
		filepath.Join(src, "Game (Track 1).bin"),
		filepath.Join(src, "Game (Track 2).bin"),
	}
	for i, bin := range bins {
		if err := os.WriteFile(bin, []byte{byte(i), 0xAA}, 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	cuePath, err := Synthesize(bins, dest, "Game")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if cuePath != filepath.Join(dest, "Game.cue") {
		t.Fatalf("cue path = %q", cuePath)
	}

	for i, bin := range bins {
		copied, err := os.ReadFile(filepath.Join(dest, filepath.Base(bin)))
		if err != nil {
			t.Fatalf("read copied track: %v", err)
		}
		if len(copied) != 2 || copied[0] != byte(i) {
			t.Fatalf("track %d copied bytes = %v", i+1, copied)
		}
	}

	content, err := os.ReadFile(cuePath)
	if err != nil {
		t.Fatalf("read cue: %v", err)
	}
	want := "FILE \"Game (Track 1).bin\" BINARY\n" +
		"  TRACK 01 MODE2/2352\n" +
		"    INDEX 01 00:00:00\n" +
		"FILE \"Game (Track 2).bin\" BINARY\n" +
		"  TRACK 02 AUDIO\n" +
		"    INDEX 01 00:00:00\n"
	if string(content) != want {
		t.Fatalf("cue content:\n%s\nwant:\n%s", content, want)
	}
}

func TestSynthesizeEmpty(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "assets")
	if _, err := Synthesize(nil, dest, "Game"); !errors.Is(err, ErrNoTracks) {
		t.Fatalf("Synthesize(nil) error = %v, want ErrNoTracks", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "Game.cue")); !os.IsNotExist(err) {
		t.Fatalf("cue written despite empty track set: %v", err)
	}
}
