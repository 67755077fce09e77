package chdman

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// ProgressUpdate captures chdman progress output.
type ProgressUpdate struct {
	Operation string
	Percent   float64
}

// Client defines CHD conversion behaviour.
type Client interface {
	CreateCD(ctx context.Context, cuePath, chdPath string, progress func(ProgressUpdate)) error
	ExtractCD(ctx context.Context, chdPath, cuePath, binPath string, progress func(ProgressUpdate)) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if trimmed := strings.TrimSpace(binary); trimmed != "" {
			c.binary = trimmed
		}
	}
}

// CLI wraps the chdman command-line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "chdman"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// CreateCD compresses the cue sheet and its track files into chdPath.
func (c *CLI) CreateCD(ctx context.Context, cuePath, chdPath string, progress func(ProgressUpdate)) error {
	if strings.TrimSpace(cuePath) == "" {
		return errors.New("cue path required")
	}
	if strings.TrimSpace(chdPath) == "" {
		return errors.New("chd path required")
	}
	args := []string{"createcd", "-i", cuePath, "-o", chdPath}
	if err := c.run(ctx, args, progress); err != nil {
		return fmt.Errorf("chdman createcd: %w", err)
	}
	return nil
}

// ExtractCD decompresses chdPath into a cue sheet and a single track file.
func (c *CLI) ExtractCD(ctx context.Context, chdPath, cuePath, binPath string, progress func(ProgressUpdate)) error {
	if strings.TrimSpace(chdPath) == "" {
		return errors.New("chd path required")
	}
	if strings.TrimSpace(cuePath) == "" {
		return errors.New("cue path required")
	}
	if strings.TrimSpace(binPath) == "" {
		return errors.New("bin path required")
	}
	args := []string{"extractcd", "-i", chdPath, "-o", cuePath, "-ob", binPath}
	if err := c.run(ctx, args, progress); err != nil {
		return fmt.Errorf("chdman extractcd: %w", err)
	}
	return nil
}

func (c *CLI) run(ctx context.Context, args []string, progress func(ProgressUpdate)) error {
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start chdman: %w", err)
	}

	var tail []string
	scanner := bufio.NewScanner(stdout)
	scanner.Split(scanCarriageLines)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tail = appendTail(tail, line)
		if progress == nil {
			continue
		}
		if update, ok := parseProgress(line); ok {
			progress(update)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read chdman output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		if len(tail) > 0 {
			return fmt.Errorf("%w: %s", err, strings.Join(tail, "; "))
		}
		return err
	}
	return nil
}

const tailLines = 4

func appendTail(tail []string, line string) []string {
	tail = append(tail, line)
	if len(tail) > tailLines {
		tail = tail[len(tail)-tailLines:]
	}
	return tail
}

// scanCarriageLines splits on newlines and on the carriage returns
// chdman uses to redraw its progress line in place.
func scanCarriageLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// parseProgress reads lines like "Compressing, 45.6% complete... (ratio=58.3%)"
// and "Extracting, 12.0% complete...".
func parseProgress(line string) (ProgressUpdate, bool) {
	operation, rest, found := strings.Cut(line, ", ")
	if !found {
		return ProgressUpdate{}, false
	}
	idx := strings.Index(rest, "% complete")
	if idx < 0 {
		return ProgressUpdate{}, false
	}
	percent, err := strconv.ParseFloat(strings.TrimSpace(rest[:idx]), 64)
	if err != nil {
		return ProgressUpdate{}, false
	}
	return ProgressUpdate{Operation: operation, Percent: percent}, true
}

var _ Client = (*CLI)(nil)
