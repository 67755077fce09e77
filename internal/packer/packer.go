package packer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"jewelcase/internal/config"
	"jewelcase/internal/fileutil"
	"jewelcase/internal/gamegroup"
	"jewelcase/internal/logging"
	"jewelcase/internal/services"
	"jewelcase/internal/services/sevenzip"
	"jewelcase/internal/textutil"
)

// Archive is one planned archive: a game group resolved to an output path
// and the relative member files handed to the archiver.
type Archive struct {
	Name    string
	Path    string
	Display string
	Files   []string
	// Replace marks an existing archive that gets deleted before the
	// rebuild. Set only when overwrite is configured.
	Replace bool
	Skip    bool
	Reason  string
}

// Summary tallies one apply pass.
type Summary struct {
	Packed  int
	Skipped int
	Failed  int
}

// Packer plans and builds per-title archives from a directory of cue/bin
// pairs.
type Packer struct {
	cfg      *config.Config
	logger   *slog.Logger
	archiver sevenzip.Client
}

// New constructs a Packer around the given archiver.
func New(cfg *config.Config, logger *slog.Logger, archiver sevenzip.Client) *Packer {
	return &Packer{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "packer"),
		archiver: archiver,
	}
}

// Plan clusters the top-level cue/bin pairs in root into game groups and
// resolves each group to an archive decision. Discs without a track file or
// without a derivable key are reported and left out.
func (p *Packer) Plan(ctx context.Context, root string) ([]Archive, error) {
	logger := logging.WithContext(ctx, p.logger)

	info, err := os.Stat(root)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "packing", "resolve directory", fmt.Sprintf("Cannot access %s", root), err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "packing", "resolve directory", fmt.Sprintf("Not a directory: %s", root), nil)
	}

	cues, err := fileutil.FindByExt(root, ".cue")
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "packing", "list cue sheets", "Failed to list cue sheets", err)
	}
	if len(cues) == 0 {
		logger.Info("no cue sheets found", logging.String("directory", root))
		return nil, nil
	}

	collector := gamegroup.NewCollector()
	for _, cuePath := range cues {
		name := filepath.Base(cuePath)
		binPath, ok := findBinSibling(cuePath)
		if !ok {
			logger.Warn("missing track file for cue",
				logging.String("cue", name))
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if !collector.Add(stem, name, filepath.Base(binPath)) {
			logger.Warn("no game key derivable from cue name",
				logging.String("cue", name))
			continue
		}
	}

	groups := collector.Groups()
	archives := make([]Archive, 0, len(groups))
	for _, group := range groups {
		archive := Archive{
			Name:    textutil.SanitizeArchiveName(group.Display) + ".7z",
			Display: group.Display,
			Files:   group.Files,
		}
		archive.Path = filepath.Join(root, archive.Name)

		if _, err := os.Stat(archive.Path); err == nil {
			if p.cfg != nil && p.cfg.Pack.Overwrite {
				archive.Replace = true
			} else {
				archive.Skip = true
				archive.Reason = "archive already exists"
				logger.Warn("archive already exists",
					logging.String("archive", archive.Name))
			}
		}
		if !archive.Skip {
			logger.Info("archive planned",
				logging.String("archive", archive.Name),
				logging.Int("files", len(archive.Files)),
				logging.Bool("replace", archive.Replace))
		}
		archives = append(archives, archive)
	}
	return archives, nil
}

// Apply builds the planned archives. A failed archive is reported and the
// batch continues; the returned error is non-nil only on context
// cancellation.
func (p *Packer) Apply(ctx context.Context, archives []Archive) (Summary, error) {
	logger := logging.WithContext(ctx, p.logger)

	var summary Summary
	for _, archive := range archives {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if archive.Skip {
			summary.Skipped++
			continue
		}
		if err := p.buildOne(ctx, archive); err != nil {
			summary.Failed++
			logger.Error("archive build failed",
				logging.String("archive", archive.Name),
				logging.Error(err))
			continue
		}
		summary.Packed++
		logger.Info("archive created",
			logging.String("archive", archive.Name),
			logging.Int("files", len(archive.Files)))
	}
	return summary, nil
}

func (p *Packer) buildOne(ctx context.Context, archive Archive) error {
	if archive.Replace {
		if err := os.Remove(archive.Path); err != nil && !os.IsNotExist(err) {
			return services.Wrap(services.ErrTransient, "packing", "remove old archive", "Failed to remove existing archive", err)
		}
	}
	workDir := filepath.Dir(archive.Path)
	if err := p.archiver.Create(ctx, archive.Path, workDir, archive.Files); err != nil {
		return services.Wrap(services.ErrExternalTool, "packing", "create archive", fmt.Sprintf("7z failed for %s", archive.Name), err)
	}
	return nil
}

// findBinSibling locates the track file sharing a stem with the cue,
// trying both extension spellings.
func findBinSibling(cuePath string) (string, bool) {
	base := strings.TrimSuffix(cuePath, filepath.Ext(cuePath))
	for _, ext := range []string{".bin", ".BIN"} {
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
