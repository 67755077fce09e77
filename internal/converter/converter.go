package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"jewelcase/internal/config"
	"jewelcase/internal/cuesheet"
	"jewelcase/internal/fileutil"
	"jewelcase/internal/logging"
	"jewelcase/internal/services"
	"jewelcase/internal/services/chdman"
	"jewelcase/internal/services/sevenzip"
)

// discoveryDepth bounds how deep cue and track files are searched below an
// extracted archive directory or the work root.
const discoveryDepth = 2

// Summary tallies one conversion run.
type Summary struct {
	Converted int
	Skipped   int
	Failed    int
}

// Converter drives archive extraction, cue discovery, and CHD round-trips
// for a directory of discs.
type Converter struct {
	cfg      *config.Config
	logger   *slog.Logger
	chd      chdman.Client
	archiver sevenzip.Client
}

// New constructs a Converter. The archiver may be nil when the caller knows
// no archives need extracting; discs that would need it are then failed
// individually.
func New(cfg *config.Config, logger *slog.Logger, chd chdman.Client, archiver sevenzip.Client) *Converter {
	return &Converter{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "converter"),
		chd:      chd,
		archiver: archiver,
	}
}

// Run converts every disc reachable from root. Archives take precedence;
// without any, the cue sheets already on disk are processed. Per-disc
// failures are reported and the batch continues.
func (c *Converter) Run(ctx context.Context, root string) (Summary, error) {
	logger := logging.WithContext(ctx, c.logger)

	var summary Summary
	info, err := os.Stat(root)
	if err != nil {
		return summary, services.Wrap(services.ErrValidation, "converting", "resolve directory", fmt.Sprintf("Cannot access %s", root), err)
	}
	if !info.IsDir() {
		return summary, services.Wrap(services.ErrValidation, "converting", "resolve directory", fmt.Sprintf("Not a directory: %s", root), nil)
	}

	tmpRoot, err := os.MkdirTemp("", "jewelcase-convert-")
	if err != nil {
		return summary, services.Wrap(services.ErrTransient, "converting", "create scratch dir", "Failed to create scratch directory", err)
	}
	defer func() {
		if removeErr := os.RemoveAll(tmpRoot); removeErr != nil {
			logger.Warn("scratch dir cleanup failed",
				logging.String("dir", tmpRoot),
				logging.Error(removeErr))
		}
	}()

	outDir := filepath.Join(root, c.outputDirName())

	archives, err := fileutil.FindWithDepth(root, "*.7z", 1)
	if err != nil {
		return summary, services.Wrap(services.ErrTransient, "converting", "list archives", "Failed to list archives", err)
	}
	if len(archives) == 0 {
		return c.convertExistingCues(ctx, root, outDir, tmpRoot)
	}

	for _, archive := range archives {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		name := filepath.Base(archive)
		logger.Info("processing archive", logging.String("archive", name))

		if err := c.convertArchive(ctx, root, archive, outDir, tmpRoot); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				summary.Skipped++
				logger.Warn("archive skipped",
					logging.String("archive", name),
					logging.Error(err))
				continue
			}
			summary.Failed++
			logger.Error("archive conversion failed",
				logging.String("archive", name),
				logging.Error(err))
			if services.FailureDisposition(err) == services.DispositionAbort {
				return summary, err
			}
			continue
		}
		summary.Converted++
	}
	logger.Info("conversion finished",
		logging.String("output_dir", outDir),
		logging.Int("converted", summary.Converted),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed))
	return summary, nil
}

func (c *Converter) convertArchive(ctx context.Context, root, archive, outDir, tmpRoot string) error {
	logger := logging.WithContext(ctx, c.logger)
	base := strings.TrimSuffix(filepath.Base(archive), filepath.Ext(archive))
	gameDir := filepath.Join(root, base)

	if info, err := os.Stat(gameDir); err == nil && info.IsDir() {
		logger.Info("using existing extracted folder", logging.String("dir", base))
	} else {
		if c.archiver == nil {
			return services.Wrap(services.ErrExternalTool, "converting", "extract archive", "7z is required to extract this archive", nil)
		}
		logger.Info("extracting archive", logging.String("dir", base))
		if err := c.archiver.Extract(ctx, archive, gameDir); err != nil {
			return services.Wrap(services.ErrExternalTool, "converting", "extract archive", fmt.Sprintf("Failed to extract %s", filepath.Base(archive)), err)
		}
	}

	cuePath, err := c.locateOrBuildCue(ctx, gameDir, base, tmpRoot)
	if err != nil {
		return err
	}
	return c.convertDisc(ctx, base, cuePath, outDir, tmpRoot)
}

// locateOrBuildCue returns the first cue found under gameDir, or
// synthesizes one in a per-disc scratch dir from the track dumps.
func (c *Converter) locateOrBuildCue(ctx context.Context, gameDir, base, tmpRoot string) (string, error) {
	logger := logging.WithContext(ctx, c.logger)

	cues, err := fileutil.FindWithDepth(gameDir, "*.cue", discoveryDepth)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "converting", "locate cue", "Failed to search for cue sheets", err)
	}
	if len(cues) > 0 {
		return cues[0], nil
	}

	bins, err := fileutil.FindWithDepth(gameDir, "*.bin", discoveryDepth)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "converting", "locate tracks", "Failed to search for track files", err)
	}
	if len(bins) == 0 {
		return "", services.Wrap(services.ErrNotFound, "converting", "locate cue", "No cue or track files found", nil)
	}

	assetsDir, err := os.MkdirTemp(tmpRoot, "assets-")
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "converting", "create assets dir", "Failed to create synthesis scratch dir", err)
	}
	logger.Info("synthesizing cue",
		logging.String("disc", base),
		logging.Int("tracks", len(bins)))
	cuePath, err := cuesheet.Synthesize(bins, assetsDir, base)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "converting", "synthesize cue", fmt.Sprintf("Cue synthesis failed for %s", base), err)
	}
	return cuePath, nil
}

// convertDisc runs the createcd/extractcd round trip, replacing any
// previous outputs for this disc.
func (c *Converter) convertDisc(ctx context.Context, base, cuePath, outDir, tmpRoot string) error {
	logger := logging.WithContext(ctx, c.logger)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "converting", "create output dir", "Failed to create output directory", err)
	}
	outCue := filepath.Join(outDir, base+".cue")
	outBin := filepath.Join(outDir, base+".bin")
	for _, stale := range []string{outCue, outBin} {
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			return services.Wrap(services.ErrTransient, "converting", "clear previous output", fmt.Sprintf("Failed to remove %s", filepath.Base(stale)), err)
		}
	}

	chdPath := filepath.Join(tmpRoot, base+".chd")
	progress := func(update chdman.ProgressUpdate) {
		logger.Debug("chdman progress",
			logging.String("disc", base),
			logging.String("operation", update.Operation),
			logging.Any("percent", update.Percent))
	}

	logger.Info("building chd", logging.String("cue", filepath.Base(cuePath)))
	if err := c.chd.CreateCD(ctx, cuePath, chdPath, progress); err != nil {
		return services.Wrap(services.ErrExternalTool, "converting", "createcd", fmt.Sprintf("chdman createcd failed for %s", base), err)
	}

	logger.Info("extracting single-track pair", logging.String("disc", base))
	if err := c.chd.ExtractCD(ctx, chdPath, outCue, outBin, progress); err != nil {
		return services.Wrap(services.ErrExternalTool, "converting", "extractcd", fmt.Sprintf("chdman extractcd failed for %s", base), err)
	}

	if err := os.Remove(chdPath); err != nil && !os.IsNotExist(err) {
		logger.Warn("intermediate chd cleanup failed",
			logging.String("chd", filepath.Base(chdPath)),
			logging.Error(err))
	}
	return nil
}

// convertExistingCues processes cue sheets already on disk, excluding
// anything inside the output directory.
func (c *Converter) convertExistingCues(ctx context.Context, root, outDir, tmpRoot string) (Summary, error) {
	logger := logging.WithContext(ctx, c.logger)
	var summary Summary

	logger.Info("no archives found, processing existing cue sheets")
	cues, err := fileutil.FindWithDepth(root, "*.cue", discoveryDepth)
	if err != nil {
		return summary, services.Wrap(services.ErrTransient, "converting", "list cue sheets", "Failed to list cue sheets", err)
	}
	outPrefix := outDir + string(filepath.Separator)
	kept := cues[:0]
	for _, cue := range cues {
		if strings.HasPrefix(cue, outPrefix) {
			continue
		}
		kept = append(kept, cue)
	}
	if len(kept) == 0 {
		logger.Info("no cue sheets found to process")
		return summary, nil
	}

	for _, cuePath := range kept {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		name := filepath.Base(cuePath)
		base := strings.TrimSuffix(name, filepath.Ext(name))
		logger.Info("processing existing cue", logging.String("cue", name))

		if err := c.convertDisc(ctx, base, cuePath, outDir, tmpRoot); err != nil {
			summary.Failed++
			logger.Error("disc conversion failed",
				logging.String("cue", name),
				logging.Error(err))
			if services.FailureDisposition(err) == services.DispositionAbort {
				return summary, err
			}
			continue
		}
		summary.Converted++
	}
	logger.Info("conversion finished",
		logging.String("output_dir", outDir),
		logging.Int("converted", summary.Converted),
		logging.Int("failed", summary.Failed))
	return summary, nil
}

func (c *Converter) outputDirName() string {
	if c.cfg != nil {
		if name := strings.TrimSpace(c.cfg.Convert.OutputDirName); name != "" {
			return name
		}
	}
	return "SingleTrackDiscImages"
}
