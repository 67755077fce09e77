package config

import (
	"os"
	"path/filepath"
)

const (
	// DefaultScanChunkBytes is the content scan read size.
	DefaultScanChunkBytes = 4 << 20
	// DefaultScanMaxBytes caps how much of a track file is scanned.
	DefaultScanMaxBytes = 64 << 20

	defaultPackLevel       = 9
	defaultOutputDirName   = "SingleTrackDiscImages"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultRetentionDays   = 30
	defaultCodeCacheDBName = "codes.db"
)

// Default returns the built-in configuration. Callers normally go
// through Load, which also normalizes and validates.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   "~/.local/share/jewelcase/logs",
			CacheDir: defaultCacheDir(),
		},
		Scan: Scan{
			ChunkBytes: DefaultScanChunkBytes,
			MaxBytes:   DefaultScanMaxBytes,
		},
		Tools: Tools{},
		Pack: Pack{
			Level:     defaultPackLevel,
			Threads:   0,
			Overwrite: false,
		},
		Convert: Convert{
			OutputDirName: defaultOutputDirName,
		},
		CodeCache: CodeCache{
			Enabled: false,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}

func defaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "jewelcase")
	}
	return "~/.cache/jewelcase"
}
