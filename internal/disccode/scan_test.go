package disccode

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScanReaderFindsToken(t *testing.T) {
	content := strings.Repeat("x", 100) + "BOOT = cdrom:\\SLUS_005.94;1" + strings.Repeat("x", 100)
	code, found, err := PS1.ScanReader(strings.NewReader(content), ScanOptions{})
	if err != nil {
		t.Fatalf("ScanReader: %v", err)
	}
	if !found || code != "SLUS-00594" {
		t.Fatalf("ScanReader = %q, %v", code, found)
	}
}

func TestScanReaderChunkBoundaryMiss(t *testing.T) {
	// The token begins in the first chunk and ends in the second; chunks
	// are searched independently so the straddling token is not seen.
	pad := strings.Repeat("x", 60)
	content := pad + "SLUS-00594" + pad
	_, found, err := PS1.ScanReader(strings.NewReader(content), ScanOptions{ChunkBytes: 64})
	if err != nil {
		t.Fatalf("ScanReader: %v", err)
	}
	if found {
		t.Fatal("found token straddling a chunk boundary")
	}
}

func TestScanReaderCapStopsScan(t *testing.T) {
	pad := strings.Repeat("x", 64)
	content := pad + "SLUS-00594"
	_, found, err := PS1.ScanReader(strings.NewReader(content), ScanOptions{ChunkBytes: 32, MaxBytes: 48})
	if err != nil {
		t.Fatalf("ScanReader: %v", err)
	}
	if found {
		t.Fatal("found token beyond the scan cap")
	}
}

func TestScanReaderCapCheckedAfterChunk(t *testing.T) {
	// The cap is compared after each chunk is searched, so a token inside
	// a chunk that overshoots the cap is still reported.
	content := strings.Repeat("x", 20) + "SLUS-00594"
	code, found, err := PS1.ScanReader(strings.NewReader(content), ScanOptions{ChunkBytes: 64, MaxBytes: 8})
	if err != nil {
		t.Fatalf("ScanReader: %v", err)
	}
	if !found || code != "SLUS-00594" {
		t.Fatalf("ScanReader = %q, %v", code, found)
	}
}

func TestScanReaderPropagatesReadErrors(t *testing.T) {
	wantErr := errors.New("device gone")
	_, _, err := PS1.ScanReader(&failingReader{err: wantErr}, ScanOptions{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("ScanReader error = %v, want %v", err, wantErr)
	}
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track01.bin")
	content := append(bytes.Repeat([]byte{0}, 512), []byte("cdrom:\\SCUS_941.94;1")...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	code, found, err := General.ScanFile(path, ScanOptions{})
	if err != nil {
		t.Fatalf("ScanFile: %v", err)
	}
	if !found || code != "SCUS-94194" {
		t.Fatalf("ScanFile = %q, %v", code, found)
	}
}

func TestScanFileLowercaseContentIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track01.bin")
	if err := os.WriteFile(path, []byte("cdrom:\\slus_005.94;1"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, found, err := PS1.ScanFile(path, ScanOptions{})
	if err != nil {
		t.Fatalf("ScanFile: %v", err)
	}
	if found {
		t.Fatal("content scan matched lowercase token")
	}
}

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}
