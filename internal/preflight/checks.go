package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"jewelcase/internal/config"
	"jewelcase/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries jewelcase can shell
// out to. The status command and the mutating commands share this list
// so they never disagree about requirements.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "chdman",
			Command:     cfg.ChdmanBinary(),
			Description: "Required for CHD conversion",
		},
	}
	results := deps.CheckBinaries(requirements)
	results = append(results, deps.CheckSevenZip(cfg.SevenZipCandidates()))
	return results
}

// RequireBinaries returns an error naming the first unavailable
// non-optional dependency from the given statuses, filtered to names.
// An empty names list checks every status.
func RequireBinaries(statuses []deps.Status, names ...string) error {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	for _, status := range statuses {
		if len(wanted) > 0 && !wanted[status.Name] {
			continue
		}
		if status.Optional || status.Available {
			continue
		}
		return fmt.Errorf("%s unavailable: %s", status.Name, status.Detail)
	}
	return nil
}
