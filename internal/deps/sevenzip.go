package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ResolveSevenZip returns the first runnable 7-Zip binary from the
// candidate list. The archive client and the status command share this
// lookup so they never disagree about which binary runs.
func ResolveSevenZip(candidates []string) (string, error) {
	tried := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		name := strings.TrimSpace(candidate)
		if name == "" {
			continue
		}
		tried = append(tried, name)
		if resolved, err := exec.LookPath(name); err == nil {
			return resolved, nil
		}
	}
	if len(tried) == 0 {
		return "", errors.New("no 7-Zip candidates configured")
	}
	return "", fmt.Errorf("no 7-Zip binary found (tried %s)", strings.Join(tried, ", "))
}

// CheckSevenZip reports 7-Zip availability across the candidate names.
func CheckSevenZip(candidates []string) Status {
	status := Status{
		Name:        "7-Zip",
		Description: "Required for packing and extracting game archives",
	}
	resolved, err := ResolveSevenZip(candidates)
	if err != nil {
		if len(candidates) > 0 {
			status.Command = candidates[0]
		}
		status.Detail = err.Error()
		return status
	}
	status.Command = resolved
	status.Resolved = resolved
	status.Available = true
	return status
}
