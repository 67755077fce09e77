package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jewelcase/internal/config"
	"jewelcase/internal/testsupport"
)

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nlog_dir = %q\ncache_dir = %q\n\n[code_cache]\nenabled = %t\npath = %q\n",
		cfg.Paths.LogDir,
		cfg.Paths.CacheDir,
		cfg.CodeCache.Enabled,
		cfg.CodeCache.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func setupCLIConfig(t *testing.T) string {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)
	return configPath
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}

func TestCLICommandGraph(t *testing.T) {
	cmd := newRootCommand()
	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"tag", "tag-iso", "convert", "pack", "identify", "status", "cache", "config"} {
		if !names[want] {
			t.Fatalf("command %q not registered (have %v)", want, names)
		}
	}
}

func TestTagCommandRenamesPair(t *testing.T) {
	configPath := setupCLIConfig(t)
	dir := t.TempDir()
	testsupport.WriteTrack(t, filepath.Join(dir, "Game SLUS_005.94.bin"), "", 512)
	testsupport.WriteCue(t, filepath.Join(dir, "Game SLUS_005.94.cue"), "Game SLUS_005.94.bin")

	out, _, err := runCLI(t, []string{"tag", dir}, configPath)
	if err != nil {
		t.Fatalf("tag: %v", err)
	}
	requireContains(t, out, "Tagged 1 image(s), skipped 0, failed 0")

	if _, err := os.Stat(filepath.Join(dir, "Game SLUS-00594.bin")); err != nil {
		t.Fatalf("renamed track missing: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "Game SLUS-00594.cue"))
	if err != nil {
		t.Fatalf("renamed cue missing: %v", err)
	}
	requireContains(t, string(data), "\"Game SLUS-00594.bin\"")
}

func TestTagDryRunLeavesFiles(t *testing.T) {
	configPath := setupCLIConfig(t)
	dir := t.TempDir()
	testsupport.WriteTrack(t, filepath.Join(dir, "Game SLUS_005.94.bin"), "", 512)
	testsupport.WriteCue(t, filepath.Join(dir, "Game SLUS_005.94.cue"), "Game SLUS_005.94.bin")

	out, _, err := runCLI(t, []string{"tag", dir, "--dry-run"}, configPath)
	if err != nil {
		t.Fatalf("tag --dry-run: %v", err)
	}
	requireContains(t, out, "Game SLUS-00594.bin")
	requireContains(t, out, "rename")

	if _, err := os.Stat(filepath.Join(dir, "Game SLUS_005.94.bin")); err != nil {
		t.Fatalf("dry run must not rename: %v", err)
	}
}

func TestIdentifyReportsContentCode(t *testing.T) {
	configPath := setupCLIConfig(t)
	dir := t.TempDir()
	image := filepath.Join(dir, "Mystery.bin")
	testsupport.WriteTrack(t, image, "\x00\x00SLUS_005.94\x00", 4096)

	out, _, err := runCLI(t, []string{"identify", image}, configPath)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	requireContains(t, out, "SLUS-00594")
	requireContains(t, out, "Suggested title: Mystery")
	requireContains(t, out, "Canonical name: Mystery [SLUS-00594].bin")
}

func TestStatusReportsStubbedTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	out, _, err := runCLI(t, []string{"status"}, configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "chdman")
	requireContains(t, out, "7-Zip")
	requireContains(t, out, "[OK]")
}
