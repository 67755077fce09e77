package preflight

import (
	"jewelcase/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for a run rooted at workRoot.
// Binary availability is reported separately by CheckSystemDeps since
// not every command needs every tool.
func RunAll(cfg *config.Config, workRoot string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if workRoot != "" {
		results = append(results, CheckDirectoryAccess("Work directory", workRoot))
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	return results
}

// FirstFailure returns the first failed result, if any.
func FirstFailure(results []Result) (Result, bool) {
	for _, result := range results {
		if !result.Passed {
			return result, true
		}
	}
	return Result{}, false
}
