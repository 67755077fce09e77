package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"jewelcase/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(nil, t.TempDir())
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ChecksWorkAndLogDirs(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	results := RunAll(&cfg, t.TempDir())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestFirstFailure(t *testing.T) {
	results := []Result{
		{Name: "ok", Passed: true},
		{Name: "bad", Detail: "broken"},
	}
	failure, found := FirstFailure(results)
	if !found {
		t.Fatal("expected a failure")
	}
	if failure.Name != "bad" {
		t.Fatalf("unexpected failure: %#v", failure)
	}

	if _, found := FirstFailure(results[:1]); found {
		t.Fatal("expected no failure for passing results")
	}
}

func TestCheckSystemDeps(t *testing.T) {
	binDir := t.TempDir()
	for _, name := range []string{"chdman", "7zz"} {
		path := filepath.Join(binDir, name)
		if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", binDir)

	cfg := config.Default()
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	for _, status := range statuses {
		if !status.Available {
			t.Errorf("expected %s available, got detail %q", status.Name, status.Detail)
		}
	}

	if err := RequireBinaries(statuses); err != nil {
		t.Fatalf("RequireBinaries returned error: %v", err)
	}
}

func TestRequireBinariesReportsMissing(t *testing.T) {
	t.Setenv("PATH", "")
	cfg := config.Default()
	statuses := CheckSystemDeps(&cfg)

	if err := RequireBinaries(statuses, "chdman"); err == nil {
		t.Fatal("expected error for missing chdman")
	}
	if err := RequireBinaries(statuses, "7-Zip"); err == nil {
		t.Fatal("expected error for missing 7-Zip")
	}
}
