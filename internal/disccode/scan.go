package disccode

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// DefaultChunkBytes is the read granularity for content scans.
	DefaultChunkBytes = 4 << 20
	// DefaultMaxBytes caps how much of a file a content scan inspects.
	// Codes sit near the start of valid images; reading an entire
	// multi-gigabyte image to confirm a missing code is wasted work.
	DefaultMaxBytes = 64 << 20
)

// ScanOptions bounds a content scan. Zero values select the defaults.
type ScanOptions struct {
	ChunkBytes int64
	MaxBytes   int64
}

func (o ScanOptions) withDefaults() ScanOptions {
	if o.ChunkBytes <= 0 {
		o.ChunkBytes = DefaultChunkBytes
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	return o
}

// ScanReader reads r chunk by chunk and returns the normalized form of the
// first token matching the family grammar. Chunks are searched
// independently: a token split across a chunk boundary is missed, an
// accepted trade against overlap buffering. The scan gives up once MaxBytes
// have been read without a match; absence is a normal outcome, not an
// error.
func (f Family) ScanReader(r io.Reader, opts ScanOptions) (Code, bool, error) {
	opts = opts.withDefaults()
	buf := make([]byte, opts.ChunkBytes)
	var scanned int64
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if raw, ok := f.FindBytes(buf[:n]); ok {
				return Normalize(string(raw)), true, nil
			}
			scanned += int64(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return "", false, nil
			}
			return "", false, fmt.Errorf("read scan chunk: %w", err)
		}
		if scanned >= opts.MaxBytes {
			return "", false, nil
		}
	}
}

// ScanFile opens path and scans its content for a code token.
func (f Family) ScanFile(path string, opts ScanOptions) (Code, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return f.ScanReader(file, opts)
}
