package sevenzip

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var commandContext = exec.CommandContext

// Client defines the archive operations used by packing and conversion.
type Client interface {
	Extract(ctx context.Context, archivePath, destDir string) error
	Create(ctx context.Context, archivePath, workDir string, relPaths []string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithCompressionLevel sets the -mx level used when creating archives.
func WithCompressionLevel(level int) Option {
	return func(c *CLI) {
		if level >= 0 && level <= 9 {
			c.level = level
		}
	}
}

// WithThreads sets the -mmt thread count for archive creation. Zero
// leaves the choice to 7z.
func WithThreads(threads int) Option {
	return func(c *CLI) {
		if threads > 0 {
			c.threads = threads
		}
	}
}

// CLI wraps a 7-Zip compatible command-line binary.
type CLI struct {
	binary  string
	level   int
	threads int
}

// NewCLI constructs a client for the given binary, typically resolved
// through deps.ResolveSevenZip.
func NewCLI(binary string, opts ...Option) (*CLI, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("7-Zip binary required")
	}
	cli := &CLI{binary: binary, level: 9}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// Extract unpacks archivePath into destDir, overwriting without
// prompting.
func (c *CLI) Extract(ctx context.Context, archivePath, destDir string) error {
	if strings.TrimSpace(archivePath) == "" {
		return errors.New("archive path required")
	}
	if strings.TrimSpace(destDir) == "" {
		return errors.New("destination directory required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create extraction directory: %w", err)
	}
	args := []string{"x", "-y", "-o" + destDir, archivePath}
	if err := c.run(ctx, "", args); err != nil {
		return fmt.Errorf("extract %s: %w", filepath.Base(archivePath), err)
	}
	return nil
}

// Create builds a 7z archive at archivePath from the given paths,
// which are interpreted relative to workDir so the archive stores
// clean relative entries.
func (c *CLI) Create(ctx context.Context, archivePath, workDir string, relPaths []string) error {
	if strings.TrimSpace(archivePath) == "" {
		return errors.New("archive path required")
	}
	if len(relPaths) == 0 {
		return errors.New("no files to archive")
	}
	args := []string{"a", "-t7z", fmt.Sprintf("-mx=%d", c.level)}
	if c.threads > 0 {
		args = append(args, fmt.Sprintf("-mmt=%d", c.threads))
	}
	args = append(args, archivePath)
	args = append(args, relPaths...)
	if err := c.run(ctx, workDir, args); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(archivePath), err)
	}
	return nil
}

func (c *CLI) run(ctx context.Context, dir string, args []string) error {
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	if dir != "" {
		cmd.Dir = dir
	}
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		if summary := summarizeOutput(output.String()); summary != "" {
			return fmt.Errorf("%w: %s", err, summary)
		}
		return err
	}
	return nil
}

// summarizeOutput keeps the last few non-empty lines of tool output
// for error context.
func summarizeOutput(output string) string {
	lines := strings.Split(output, "\n")
	kept := make([]string, 0, 3)
	for i := len(lines) - 1; i >= 0 && len(kept) < 3; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, "; ")
}

var _ Client = (*CLI)(nil)
