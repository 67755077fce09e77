package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"jewelcase/internal/codecache"
	"jewelcase/internal/config"
	"jewelcase/internal/disccode"
	"jewelcase/internal/isoprobe"
	"jewelcase/internal/logging"
	"jewelcase/internal/preflight"
	"jewelcase/internal/tagger"
)

// resolveWorkDir turns the optional positional directory argument into an
// absolute path, defaulting to the current directory.
func resolveWorkDir(args []string) (string, error) {
	target := "."
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		target = args[0]
	}
	return config.ExpandPath(target)
}

// checkWorkDir runs the directory preflight checks for a run rooted at root.
func checkWorkDir(cfg *config.Config, root string) error {
	results := preflight.RunAll(cfg, root)
	if failure, failed := preflight.FirstFailure(results); failed {
		return fmt.Errorf("preflight: %s: %s", strings.ToLower(failure.Name), failure.Detail)
	}
	return nil
}

// openCodeCache opens the scan cache when the config enables one. Cache
// problems are logged and tagging proceeds without it.
func openCodeCache(env *runEnv) *codecache.Store {
	if !env.cfg.CodeCache.Enabled {
		return nil
	}
	store, err := codecache.Open(env.cfg.CodeCache.Path)
	if err != nil {
		env.logger.Warn("code cache unavailable; scans will not be cached",
			logging.String("path", env.cfg.CodeCache.Path),
			logging.Error(err))
		return nil
	}
	return store
}

// newProbeFunc adapts the ISO filesystem probe to the tagger's fallback
// signature.
func newProbeFunc(logger *slog.Logger) tagger.ProbeFunc {
	return func(path string) (disccode.Code, bool) {
		info, err := isoprobe.Probe(path)
		if err != nil {
			logger.Debug("filesystem probe failed",
				logging.String("file", filepath.Base(path)),
				logging.Error(err))
			return "", false
		}
		if info.Code == "" {
			return "", false
		}
		return info.Code, true
	}
}
