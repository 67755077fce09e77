package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// DefaultConfigPath is the canonical location for the jewelcase config file.
const DefaultConfigPath = "~/.config/jewelcase/config.toml"

// projectConfigName is checked in the working directory when no explicit
// path is given and the canonical file is absent.
const projectConfigName = "jewelcase.toml"

// Paths groups filesystem locations used across commands.
type Paths struct {
	// LogDir receives one log file per command run.
	LogDir string `toml:"log_dir"`
	// CacheDir holds derived state such as the code cache database.
	CacheDir string `toml:"cache_dir"`
}

// Scan bounds content scans for disc codes inside track data.
type Scan struct {
	// ChunkBytes is the read size for each scan pass.
	ChunkBytes int64 `toml:"chunk_bytes"`
	// MaxBytes caps how much of a file is scanned before giving up.
	MaxBytes int64 `toml:"max_bytes"`
}

// Tools holds external binary overrides. Empty values fall back to
// PATH lookup with the usual candidate names.
type Tools struct {
	Chdman   string `toml:"chdman"`
	SevenZip string `toml:"sevenzip"`
}

// Pack controls 7z archive creation.
type Pack struct {
	// Level is the 7z compression level (0-9).
	Level int `toml:"level"`
	// Threads is passed to 7z as -mmt. Zero selects an automatic
	// value based on CPU count.
	Threads int `toml:"threads"`
	// Overwrite replaces existing archives instead of skipping them.
	Overwrite bool `toml:"overwrite"`
}

// Convert controls archive-to-CHD conversion output.
type Convert struct {
	// OutputDirName is the directory created under the work root for
	// re-extracted single track images.
	OutputDirName string `toml:"output_dir_name"`
}

// CodeCache configures the optional scan-result cache.
type CodeCache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging configures run log output.
type Logging struct {
	// Format selects console or json output.
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// RetentionDays prunes run logs older than this many days.
	// Zero disables pruning.
	RetentionDays int `toml:"retention_days"`
}

// Config is the root configuration shared by every command.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Scan      Scan      `toml:"scan"`
	Tools     Tools     `toml:"tools"`
	Pack      Pack      `toml:"pack"`
	Convert   Convert   `toml:"convert"`
	CodeCache CodeCache `toml:"code_cache"`
	Logging   Logging   `toml:"logging"`
}

// Load reads configuration from path, falling back to the default
// locations when path is empty. It returns the effective config, the
// resolved path, and whether a file existed there. A missing file is
// not an error; defaults apply.
func Load(path string) (*Config, string, bool, error) {
	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	exists := false

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		exists = true
		decoder := toml.NewDecoder(file)
		decodeErr := decoder.Decode(&cfg)
		closeErr := file.Close()
		if decodeErr != nil {
			return nil, resolved, true, fmt.Errorf("parse config %s: %w", resolved, decodeErr)
		}
		if closeErr != nil {
			return nil, resolved, true, fmt.Errorf("close config %s: %w", resolved, closeErr)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	default:
		return nil, resolved, false, fmt.Errorf("open config %s: %w", resolved, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolved, exists, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, exists, err
	}
	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return expandPath(path)
	}

	canonical, err := expandPath(DefaultConfigPath)
	if err != nil {
		return "", err
	}
	if _, statErr := os.Stat(canonical); statErr == nil {
		return canonical, nil
	}

	local, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", fmt.Errorf("resolve project config path: %w", err)
	}
	if _, statErr := os.Stat(local); statErr == nil {
		return local, nil
	}
	return canonical, nil
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			trimmed = home
		} else {
			trimmed = filepath.Join(home, trimmed[2:])
		}
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %s: %w", path, err)
	}
	return abs, nil
}

// EnsureDirectories creates the directories the configuration points at.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, c.Paths.CacheDir}
	if c.CodeCache.Enabled && c.CodeCache.Path != "" {
		dirs = append(dirs, filepath.Dir(c.CodeCache.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ChdmanBinary returns the configured chdman path or the bare command
// name for PATH lookup.
func (c *Config) ChdmanBinary() string {
	if trimmed := strings.TrimSpace(c.Tools.Chdman); trimmed != "" {
		return trimmed
	}
	return "chdman"
}

// SevenZipCandidates returns the binary names to try for 7z support,
// honoring an explicit override first.
func (c *Config) SevenZipCandidates() []string {
	if trimmed := strings.TrimSpace(c.Tools.SevenZip); trimmed != "" {
		return []string{trimmed}
	}
	return []string{"7z", "7zz", "7za"}
}

// EffectiveThreads resolves the 7z thread count. Zero means automatic:
// twice the CPU count, at least one.
func (p Pack) EffectiveThreads() int {
	if p.Threads > 0 {
		return p.Threads
	}
	return max(1, runtime.NumCPU()*2)
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
