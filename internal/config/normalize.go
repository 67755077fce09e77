package config

import (
	"os"
	"path/filepath"
	"strings"
)

// normalize expands paths, applies environment fallbacks, and fills
// zero values with defaults so the rest of the program never has to.
func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeTools()
	c.normalizePack()
	c.normalizeConvert()
	if err := c.normalizeCodeCache(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	defaults := Default()
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaults.Paths.LogDir
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaults.Paths.CacheDir
	}

	logDir, err := expandPath(c.Paths.LogDir)
	if err != nil {
		return err
	}
	c.Paths.LogDir = logDir

	cacheDir, err := expandPath(c.Paths.CacheDir)
	if err != nil {
		return err
	}
	c.Paths.CacheDir = cacheDir
	return nil
}

func (c *Config) normalizeScan() {
	if c.Scan.ChunkBytes <= 0 {
		c.Scan.ChunkBytes = DefaultScanChunkBytes
	}
	if c.Scan.MaxBytes <= 0 {
		c.Scan.MaxBytes = DefaultScanMaxBytes
	}
}

func (c *Config) normalizeTools() {
	c.Tools.Chdman = strings.TrimSpace(c.Tools.Chdman)
	c.Tools.SevenZip = strings.TrimSpace(c.Tools.SevenZip)
	if c.Tools.Chdman == "" {
		c.Tools.Chdman = os.Getenv("JEWELCASE_CHDMAN")
	}
	if c.Tools.SevenZip == "" {
		c.Tools.SevenZip = os.Getenv("JEWELCASE_SEVENZIP")
	}
}

func (c *Config) normalizePack() {
	if c.Pack.Threads < 0 {
		c.Pack.Threads = 0
	}
}

func (c *Config) normalizeConvert() {
	c.Convert.OutputDirName = strings.TrimSpace(c.Convert.OutputDirName)
	if c.Convert.OutputDirName == "" {
		c.Convert.OutputDirName = defaultOutputDirName
	}
}

func (c *Config) normalizeCodeCache() error {
	c.CodeCache.Path = strings.TrimSpace(c.CodeCache.Path)
	if c.CodeCache.Path == "" {
		c.CodeCache.Path = filepath.Join(c.Paths.CacheDir, defaultCodeCacheDBName)
		return nil
	}
	path, err := expandPath(c.CodeCache.Path)
	if err != nil {
		return err
	}
	c.CodeCache.Path = path
	return nil
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "console", "json":
	default:
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level

	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
