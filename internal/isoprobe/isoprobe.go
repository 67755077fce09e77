// Package isoprobe inspects ISO9660 disc images for identification
// hints: the volume label and the boot executable named in SYSTEM.CNF.
package isoprobe

import (
	"fmt"
	"io"
	"os"
	"strings"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/filesystem"

	"jewelcase/internal/disccode"
)

// systemConfigName is the boot configuration file at the image root on
// PlayStation discs.
const systemConfigName = "SYSTEM.CNF"

// maxConfigBytes bounds the SYSTEM.CNF read; real files are under 1 KiB.
const maxConfigBytes = 64 << 10

// Info holds what a probe could learn from an image.
type Info struct {
	// Label is the trimmed ISO9660 volume identifier.
	Label string
	// BootPath is the raw boot entry value, e.g. "cdrom:\SLUS_005.94;1".
	BootPath string
	// Code is the normalized disc code extracted from BootPath, empty
	// when the image has no parsable boot entry.
	Code disccode.Code
}

// Probe opens the image read-only and extracts identification hints.
func Probe(path string) (Info, error) {
	d, err := diskfs.Open(path, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return Info{}, fmt.Errorf("open image %s: %w", path, err)
	}
	defer d.Close()

	fs, err := d.GetFilesystem(0)
	if err != nil {
		return Info{}, fmt.Errorf("read filesystem from %s: %w", path, err)
	}

	info := Info{Label: strings.TrimSpace(fs.Label())}
	boot, ok := readBootEntry(fs)
	if !ok {
		return info, nil
	}
	info.BootPath = boot
	if code, found := ExtractCode(boot); found {
		info.Code = code
	}
	return info, nil
}

// ExtractCode pulls a disc code out of a boot entry value. PlayStation
// spellings are preferred; the general grammar catches everything else.
func ExtractCode(bootPath string) (disccode.Code, bool) {
	if raw, ok := disccode.PS1.FindString(bootPath); ok {
		return disccode.Normalize(raw), true
	}
	if raw, ok := disccode.General.FindString(bootPath); ok {
		return disccode.Normalize(raw), true
	}
	return "", false
}

func readBootEntry(fs filesystem.FileSystem) (string, bool) {
	name, ok := findRootEntry(fs, systemConfigName)
	if !ok {
		return "", false
	}
	file, err := fs.OpenFile("/"+name, os.O_RDONLY)
	if err != nil {
		return "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxConfigBytes))
	if err != nil {
		return "", false
	}
	return ParseBootEntry(data)
}

// ParseBootEntry scans SYSTEM.CNF content for the first BOOT or BOOT2
// assignment and returns its value.
func ParseBootEntry(data []byte) (string, bool) {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if !strings.HasPrefix(strings.ToUpper(line), "BOOT") {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		if value != "" {
			return value, true
		}
	}
	return "", false
}

// findRootEntry locates want in the image root, tolerating ISO9660
// version suffixes such as "SYSTEM.CNF;1".
func findRootEntry(fs filesystem.FileSystem, want string) (string, bool) {
	entries, err := fs.ReadDir("/")
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if EntryMatches(entry.Name(), want) {
			return entry.Name(), true
		}
	}
	return "", false
}

// EntryMatches compares an ISO9660 directory entry name against want,
// ignoring case and any ";N" version suffix.
func EntryMatches(name, want string) bool {
	trimmed := name
	if idx := strings.IndexByte(trimmed, ';'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.EqualFold(trimmed, want)
}
