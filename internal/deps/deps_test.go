package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := writeStub(t, binDir, "present")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Resolved == "" {
		t.Fatal("expected resolved path for available binary")
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available {
		t.Fatal("expected unset command to be unavailable")
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for unset command: %s", results[2].Detail)
	}
}

func TestResolveSevenZipPrefersEarlierCandidates(t *testing.T) {
	binDir := t.TempDir()
	writeStub(t, binDir, "7zz")
	writeStub(t, binDir, "7za")
	t.Setenv("PATH", binDir)

	resolved, err := ResolveSevenZip([]string{"7z", "7zz", "7za"})
	if err != nil {
		t.Fatalf("ResolveSevenZip returned error: %v", err)
	}
	if filepath.Base(resolved) != "7zz" {
		t.Fatalf("expected 7zz to win, got %q", resolved)
	}
}

func TestResolveSevenZipExplicitPath(t *testing.T) {
	binDir := t.TempDir()
	explicit := writeStub(t, binDir, "7z-custom")
	t.Setenv("PATH", "")

	resolved, err := ResolveSevenZip([]string{explicit})
	if err != nil {
		t.Fatalf("ResolveSevenZip returned error: %v", err)
	}
	if resolved != explicit {
		t.Fatalf("expected %q, got %q", explicit, resolved)
	}
}

func TestResolveSevenZipNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	_, err := ResolveSevenZip([]string{"7z", "7zz"})
	if err == nil {
		t.Fatal("expected error when no candidate resolves")
	}
	if !strings.Contains(err.Error(), "7zz") {
		t.Fatalf("expected tried candidates in error, got %v", err)
	}
}

func TestCheckSevenZip(t *testing.T) {
	t.Setenv("PATH", "")
	status := CheckSevenZip([]string{"7z"})
	if status.Available {
		t.Fatal("expected 7-Zip to be unavailable")
	}
	if status.Detail == "" {
		t.Fatal("expected detail for unavailable 7-Zip")
	}

	binDir := t.TempDir()
	writeStub(t, binDir, "7z")
	t.Setenv("PATH", binDir)
	status = CheckSevenZip([]string{"7z"})
	if !status.Available {
		t.Fatalf("expected 7-Zip to be available, got detail %q", status.Detail)
	}
	if status.Resolved == "" {
		t.Fatal("expected resolved path")
	}
}
