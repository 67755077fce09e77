package cuesheet

import (
	"fmt"
	"os"
	"strings"
)

// RewriteFileLines points every FILE directive in cue text at newName. The
// directive keyword is matched case-insensitively at the start of a line,
// the referenced name may be quoted or bare, trailing tokens such as BINARY
// are kept, and each line keeps its own ending style. Non-directive lines
// pass through untouched. The second result reports whether any directive
// was found.
func RewriteFileLines(text, newName string) (string, bool) {
	var b strings.Builder
	changed := false
	remaining := text
	for remaining != "" {
		line := remaining
		if i := strings.IndexByte(remaining, '\n'); i >= 0 {
			line = remaining[:i+1]
			remaining = remaining[i+1:]
		} else {
			remaining = ""
		}

		core, eol := splitLineEnd(line)
		_, trailing, ok := parseFileLine(core)
		if !ok {
			b.WriteString(line)
			continue
		}
		b.WriteString("FILE \"")
		b.WriteString(newName)
		b.WriteString("\"")
		if trailing != "" {
			b.WriteString(" ")
			b.WriteString(trailing)
		}
		b.WriteString(eol)
		changed = true
	}
	return b.String(), changed
}

// Retarget rewrites the cue at path so its FILE directives reference
// newName, reporting whether any directive was present. The file is only
// rewritten when a directive was found.
func Retarget(path, newName string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read cue: %w", err)
	}
	out, changed := RewriteFileLines(string(data), newName)
	if !changed {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return false, fmt.Errorf("write cue: %w", err)
	}
	return true, nil
}

func splitLineEnd(line string) (core, eol string) {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}
	return line, ""
}

// parseFileLine splits a cue FILE directive into its referenced name and
// trailing tokens. ok is false for any line that is not a FILE directive.
func parseFileLine(core string) (name, rest string, ok bool) {
	if len(core) < 5 || !strings.EqualFold(core[:4], "FILE") {
		return "", "", false
	}
	j := 4
	for j < len(core) && (core[j] == ' ' || core[j] == '\t') {
		j++
	}
	if j == 4 || j == len(core) {
		return "", "", false
	}

	if core[j] == '"' {
		end := strings.IndexByte(core[j+1:], '"')
		if end < 0 {
			name = core[j+1:]
			if name == "" {
				return "", "", false
			}
			return name, "", true
		}
		name = core[j+1 : j+1+end]
		if name == "" {
			return "", "", false
		}
		return name, strings.TrimSpace(core[j+2+end:]), true
	}

	k := j
	for k < len(core) && core[k] != ' ' && core[k] != '\t' {
		k++
	}
	return core[j:k], strings.TrimSpace(core[k:]), true
}
