package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"jewelcase/internal/logging"
)

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	oldLog := filepath.Join(dir, "jewelcase-run-20200101-000000.log")
	freshLog := filepath.Join(dir, "jewelcase-run-20260825-000000.log")
	excluded := filepath.Join(dir, "jewelcase-run-20200102-000000.log")
	unrelated := filepath.Join(dir, "notes.txt")

	stale := time.Now().AddDate(0, 0, -30)
	for _, path := range []string{oldLog, freshLog, excluded, unrelated} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	for _, path := range []string{oldLog, excluded, unrelated} {
		if err := os.Chtimes(path, stale, stale); err != nil {
			t.Fatalf("age fixture: %v", err)
		}
	}

	logging.CleanupOldLogs(logging.NewNop(), 7, logging.RetentionTarget{
		Dir:     dir,
		Pattern: logging.RunLogPattern,
		Exclude: []string{excluded},
	})

	if _, err := os.Stat(oldLog); !os.IsNotExist(err) {
		t.Fatalf("stale run log survived: %v", err)
	}
	for _, path := range []string{freshLog, excluded, unrelated} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s should survive: %v", filepath.Base(path), err)
		}
	}
}

func TestCleanupOldLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	oldLog := filepath.Join(dir, "jewelcase-run-20200101-000000.log")
	if err := os.WriteFile(oldLog, []byte("x"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	stale := time.Now().AddDate(0, 0, -365)
	if err := os.Chtimes(oldLog, stale, stale); err != nil {
		t.Fatalf("age fixture: %v", err)
	}

	logging.CleanupOldLogs(logging.NewNop(), 0, logging.RetentionTarget{Dir: dir, Pattern: logging.RunLogPattern})

	if _, err := os.Stat(oldLog); err != nil {
		t.Fatalf("retention ran despite being disabled: %v", err)
	}
}
