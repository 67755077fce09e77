package cuesheet

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRewriteFileLines(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		newName     string
		want        string
		wantChanged bool
	}{
		{
			name:        "quoted name with spaces",
			input:       "FILE \"Some Game (Disc 1).bin\" BINARY\n  TRACK 01 MODE2/2352\n",
			newName:     "Some Game (Disc 1) [SLUS-00594].bin",
			want:        "FILE \"Some Game (Disc 1) [SLUS-00594].bin\" BINARY\n  TRACK 01 MODE2/2352\n",
			wantChanged: true,
		},
		{
			name:        "unquoted name",
			input:       "FILE track01.bin BINARY\n",
			newName:     "new.bin",
			want:        "FILE \"new.bin\" BINARY\n",
			wantChanged: true,
		},
		{
			name:        "lowercase keyword",
			input:       "file \"old.bin\" BINARY\n",
			newName:     "new.bin",
			want:        "FILE \"new.bin\" BINARY\n",
			wantChanged: true,
		},
		{
			name:        "crlf preserved",
			input:       "FILE \"old.bin\" BINARY\r\n  TRACK 01 MODE2/2352\r\n",
			newName:     "new.bin",
			want:        "FILE \"new.bin\" BINARY\r\n  TRACK 01 MODE2/2352\r\n",
			wantChanged: true,
		},
		{
			name:        "no trailing token",
			input:       "FILE \"old.bin\"\n",
			newName:     "new.bin",
			want:        "FILE \"new.bin\"\n",
			wantChanged: true,
		},
		{
			name:        "final line without newline",
			input:       "REM COMMENT\nFILE old.bin BINARY",
			newName:     "new.bin",
			want:        "REM COMMENT\nFILE \"new.bin\" BINARY",
			wantChanged: true,
		},
		{
			name: "multiple directives",
			input: "FILE \"a.bin\" BINARY\n  TRACK 01 MODE2/2352\n" +
				"FILE \"b.bin\" BINARY\n  TRACK 02 AUDIO\n",
			newName: "merged.bin",
			want: "FILE \"merged.bin\" BINARY\n  TRACK 01 MODE2/2352\n" +
				"FILE \"merged.bin\" BINARY\n  TRACK 02 AUDIO\n",
			wantChanged: true,
		},
		{
			name:        "indented directive untouched",
			input:       "  FILE \"old.bin\" BINARY\n",
			newName:     "new.bin",
			want:        "  FILE \"old.bin\" BINARY\n",
			wantChanged: false,
		},
		{
			name:        "no directives",
			input:       "REM GENRE Action\n  TRACK 01 MODE2/2352\n",
			newName:     "new.bin",
			want:        "REM GENRE Action\n  TRACK 01 MODE2/2352\n",
			wantChanged: false,
		},
		{
			name:        "keyword prefix of longer word",
			input:       "FILES \"old.bin\" BINARY\n",
			newName:     "new.bin",
			want:        "FILES \"old.bin\" BINARY\n",
			wantChanged: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := RewriteFileLines(tc.input, tc.newName)
			if changed != tc.wantChanged {
				t.Fatalf("changed = %v, want %v", changed, tc.wantChanged)
			}
			if got != tc.want {
				t.Fatalf("rewrite:\n%q\nwant:\n%q", got, tc.want)
			}
		})
	}
}

func TestParseFileLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		wantRest string
		ok       bool
	}{
		{name: "quoted", line: "FILE \"Some Game.bin\" BINARY", wantName: "Some Game.bin", wantRest: "BINARY", ok: true},
		{name: "unquoted", line: "FILE track.bin BINARY", wantName: "track.bin", wantRest: "BINARY", ok: true},
		{name: "unterminated quote", line: "FILE \"Some Game.bin", wantName: "Some Game.bin", wantRest: "", ok: true},
		{name: "tab separated", line: "FILE\t\"a.bin\"\tBINARY", wantName: "a.bin", wantRest: "BINARY", ok: true},
		{name: "bare keyword", line: "FILE", ok: false},
		{name: "keyword then space only", line: "FILE   ", ok: false},
		{name: "empty quotes", line: "FILE \"\" BINARY", ok: false},
		{name: "track line", line: "  TRACK 01 MODE2/2352", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			name, rest, ok := parseFileLine(tc.line)
			if ok != tc.ok {
				t.Fatalf("parseFileLine(%q) ok = %v, want %v", tc.line, ok, tc.ok)
			}
			if !ok {
				return
			}
			if name != tc.wantName || rest != tc.wantRest {
				t.Fatalf("parseFileLine(%q) = %q, %q", tc.line, name, rest)
			}
		})
	}
}

func TestRetarget(t *testing.T) {
	dir := t.TempDir()
	cuePath := filepath.Join(dir, "game.cue")
	original := "FILE \"old.bin\" BINARY\n  TRACK 01 MODE2/2352\n    INDEX 01 00:00:00\n"
	if err := os.WriteFile(cuePath, []byte(original), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	changed, err := Retarget(cuePath, "new.bin")
	if err != nil {
		t.Fatalf("Retarget: %v", err)
	}
	if !changed {
		t.Fatal("Retarget reported no directives")
	}
	content, err := os.ReadFile(cuePath)
	if err != nil {
		t.Fatalf("read cue: %v", err)
	}
	want := "FILE \"new.bin\" BINARY\n  TRACK 01 MODE2/2352\n    INDEX 01 00:00:00\n"
	if string(content) != want {
		t.Fatalf("cue after retarget:\n%s\nwant:\n%s", content, want)
	}
}

func TestRetargetNoDirectives(t *testing.T) {
	dir := t.TempDir()
	cuePath := filepath.Join(dir, "game.cue")
	original := "REM GENRE Action\n"
	if err := os.WriteFile(cuePath, []byte(original), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	changed, err := Retarget(cuePath, "new.bin")
	if err != nil {
		t.Fatalf("Retarget: %v", err)
	}
	if changed {
		t.Fatal("Retarget reported a change for a directive-free cue")
	}
	content, err := os.ReadFile(cuePath)
	if err != nil {
		t.Fatalf("read cue: %v", err)
	}
	if string(content) != original {
		t.Fatalf("directive-free cue was rewritten: %q", content)
	}
}
