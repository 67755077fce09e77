package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate checks invariants the rest of the program relies on.
// normalize runs first during Load, so validation failures here mean
// the file asked for something genuinely unusable.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validatePaths,
		c.validateScan,
		c.validatePack,
		c.validateConvert,
		c.validateCodeCache,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("paths.cache_dir must be set")
	}
	return nil
}

func (c *Config) validateScan() error {
	return ensurePositiveMap(map[string]int64{
		"scan.chunk_bytes": c.Scan.ChunkBytes,
		"scan.max_bytes":   c.Scan.MaxBytes,
	})
}

func (c *Config) validatePack() error {
	if c.Pack.Level < 0 || c.Pack.Level > 9 {
		return fmt.Errorf("pack.level must be between 0 and 9, got %d", c.Pack.Level)
	}
	if c.Pack.Threads < 0 {
		return fmt.Errorf("pack.threads must not be negative, got %d", c.Pack.Threads)
	}
	return nil
}

func (c *Config) validateConvert() error {
	name := c.Convert.OutputDirName
	if name == "" {
		return errors.New("convert.output_dir_name must be set")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("convert.output_dir_name must be a bare directory name, got %q", name)
	}
	return nil
}

func (c *Config) validateCodeCache() error {
	if c.CodeCache.Enabled && strings.TrimSpace(c.CodeCache.Path) == "" {
		return errors.New("code_cache.path must be set when code_cache.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, fatal, got %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return fmt.Errorf("logging.retention_days must not be negative, got %d", c.Logging.RetentionDays)
	}
	return nil
}

func ensurePositiveMap(values map[string]int64) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive, got %d", key, values[key])
		}
	}
	return nil
}
