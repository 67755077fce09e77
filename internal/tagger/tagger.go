package tagger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"jewelcase/internal/codecache"
	"jewelcase/internal/config"
	"jewelcase/internal/cuesheet"
	"jewelcase/internal/disccode"
	"jewelcase/internal/fileutil"
	"jewelcase/internal/logging"
	"jewelcase/internal/rename"
	"jewelcase/internal/services"
)

// Decision classifies what the plan proposes for one disc image.
type Decision string

const (
	// DecisionRename moves the image (and its cue) to a new name.
	DecisionRename Decision = "rename"
	// DecisionUnchanged keeps the name; the cue is still retargeted so a
	// stale FILE directive gets fixed.
	DecisionUnchanged Decision = "unchanged"
	// DecisionSkip leaves the image alone. Reason carries the cause.
	DecisionSkip Decision = "skip"
)

// Action is the planned outcome for one disc image file.
type Action struct {
	Decision  Decision
	Source    string
	Target    string
	CueSource string
	CueTarget string
	Code      disccode.Code
	FromName  bool
	Reason    string
}

// Actionable reports whether applying the plan touches this item.
func (a Action) Actionable() bool {
	return a.Decision == DecisionRename || a.Decision == DecisionUnchanged
}

// Summary tallies one apply pass.
type Summary struct {
	Applied int
	Skipped int
	Failed  int
}

// ProbeFunc reads a product code out of an image's filesystem metadata. It
// serves as a fallback when neither the filename nor the content scan
// produced a code.
type ProbeFunc func(path string) (disccode.Code, bool)

// Option adjusts optional Tagger collaborators.
type Option func(*Tagger)

// WithCache routes content-scan results through the given store. A nil
// store disables caching.
func WithCache(store *codecache.Store) Option {
	return func(t *Tagger) {
		t.cache = store
	}
}

// WithProbe enables the filesystem-probe fallback for image formats that
// support it.
func WithProbe(probe ProbeFunc) Option {
	return func(t *Tagger) {
		t.probe = probe
	}
}

// Tagger plans and applies canonical-code renames for a directory of disc
// images.
type Tagger struct {
	cfg    *config.Config
	logger *slog.Logger
	cache  *codecache.Store
	probe  ProbeFunc
}

// New constructs a Tagger. The cache and probe collaborators are optional.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Tagger {
	t := &Tagger{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "tagger"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// PlanBinCue builds the rename plan for the top-level .bin files in root.
// Codes follow the PS1 publisher grammar and sibling cue sheets ride along
// with their track file.
func (t *Tagger) PlanBinCue(ctx context.Context, root string) ([]Action, error) {
	return t.plan(ctx, root, disccode.PS1, ".bin", true)
}

// PlanISO builds the rename plan for the top-level .iso files in root using
// the general code grammar. ISOs carry no cue sheet.
func (t *Tagger) PlanISO(ctx context.Context, root string) ([]Action, error) {
	return t.plan(ctx, root, disccode.General, ".iso", false)
}

func (t *Tagger) plan(ctx context.Context, root string, family disccode.Family, ext string, withCue bool) ([]Action, error) {
	logger := logging.WithContext(ctx, t.logger)

	info, err := os.Stat(root)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "tagging", "resolve directory", fmt.Sprintf("Cannot access %s", root), err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "tagging", "resolve directory", fmt.Sprintf("Not a directory: %s", root), nil)
	}

	files, err := fileutil.FindByExt(root, ext)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "tagging", "list images", "Failed to list disc images", err)
	}
	if len(files) == 0 {
		logger.Info("no disc images found",
			logging.String("directory", root),
			logging.String("extension", ext))
		return nil, nil
	}

	actions := make([]Action, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return actions, err
		}
		actions = append(actions, t.planOne(ctx, path, family, withCue))
	}
	return actions, nil
}

func (t *Tagger) planOne(ctx context.Context, path string, family disccode.Family, withCue bool) Action {
	logger := logging.WithContext(ctx, t.logger)
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	action := Action{Source: path}

	code, fromName := family.FromName(stem)
	if !fromName {
		scanned, found, err := t.contentCode(ctx, path, family)
		if err != nil {
			logger.Warn("content scan failed",
				logging.String("file", name),
				logging.Error(err))
			action.Decision = DecisionSkip
			action.Reason = fmt.Sprintf("content scan failed: %v", err)
			return action
		}
		code = scanned
		if !found && t.probe != nil {
			if probed, ok := t.probe(path); ok {
				code = probed
				found = true
				logger.Info("code read from filesystem probe",
					logging.String("file", name),
					logging.String("code", code.String()))
			}
		}
		if !found {
			logger.Warn("no disc code found", logging.String("file", name))
			action.Decision = DecisionSkip
			action.Reason = "no disc code found"
			return action
		}
	}
	action.Code = code
	action.FromName = fromName

	newStem := rename.Compose(stem, code, family)
	action.Target = filepath.Join(filepath.Dir(path), newStem+ext)

	if withCue {
		if cuePath, ok := findCueSibling(path); ok {
			action.CueSource = cuePath
			action.CueTarget = filepath.Join(filepath.Dir(path), newStem+filepath.Ext(cuePath))
		}
	}

	if action.Target != path {
		if _, err := os.Stat(action.Target); err == nil {
			logger.Warn("target image already exists",
				logging.String("file", name),
				logging.String("target", filepath.Base(action.Target)))
			action.Decision = DecisionSkip
			action.Reason = fmt.Sprintf("target already exists: %s", filepath.Base(action.Target))
			return action
		}
	}
	if action.CueTarget != "" && action.CueTarget != action.CueSource {
		if _, err := os.Stat(action.CueTarget); err == nil {
			logger.Warn("target cue already exists",
				logging.String("file", name),
				logging.String("target", filepath.Base(action.CueTarget)))
			action.Decision = DecisionSkip
			action.Reason = fmt.Sprintf("target already exists: %s", filepath.Base(action.CueTarget))
			return action
		}
	}

	if action.Target == path {
		action.Decision = DecisionUnchanged
	} else {
		action.Decision = DecisionRename
	}
	logger.Info("rename planned",
		logging.String("file", name),
		logging.String("target", filepath.Base(action.Target)),
		logging.String("code", code.String()),
		logging.Bool("from_name", fromName))
	return action
}

// contentCode scans the image content for a code, consulting the cache when
// one is wired. Cache failures degrade to a plain scan; they never fail the
// item.
func (t *Tagger) contentCode(ctx context.Context, path string, family disccode.Family) (disccode.Code, bool, error) {
	logger := logging.WithContext(ctx, t.logger)

	info, err := os.Stat(path)
	if err != nil {
		return "", false, err
	}

	if entry, hit, lookupErr := t.cache.Lookup(ctx, path, info.Size(), info.ModTime()); lookupErr != nil {
		logger.Warn("scan cache lookup failed",
			logging.String("file", filepath.Base(path)),
			logging.Error(lookupErr))
	} else if hit {
		return entry.Code, entry.Found, nil
	}

	code, found, err := family.ScanFile(path, t.scanOptions())
	if err != nil {
		return "", false, err
	}

	if recordErr := t.cache.Record(ctx, codecache.Entry{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Code:    code,
		Found:   found,
	}); recordErr != nil {
		logger.Warn("scan cache record failed",
			logging.String("file", filepath.Base(path)),
			logging.Error(recordErr))
	}
	return code, found, nil
}

func (t *Tagger) scanOptions() disccode.ScanOptions {
	if t.cfg == nil {
		return disccode.ScanOptions{}
	}
	return disccode.ScanOptions{
		ChunkBytes: t.cfg.Scan.ChunkBytes,
		MaxBytes:   t.cfg.Scan.MaxBytes,
	}
}

// Apply executes the plan. Per-item failures are logged and counted; the
// batch keeps going. The returned error is non-nil only when the context is
// cancelled.
func (t *Tagger) Apply(ctx context.Context, actions []Action) (Summary, error) {
	logger := logging.WithContext(ctx, t.logger)

	var summary Summary
	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if !action.Actionable() {
			summary.Skipped++
			continue
		}
		if err := t.applyOne(ctx, action); err != nil {
			summary.Failed++
			logger.Error("tagging failed",
				logging.String("file", filepath.Base(action.Source)),
				logging.Error(err))
			continue
		}
		summary.Applied++
		logger.Info("tagged",
			logging.String("file", filepath.Base(action.Source)),
			logging.String("target", filepath.Base(action.Target)),
			logging.String("code", action.Code.String()))
	}
	return summary, nil
}

func (t *Tagger) applyOne(ctx context.Context, action Action) error {
	logger := logging.WithContext(ctx, t.logger)

	if action.CueSource != "" {
		changed, err := cuesheet.Retarget(action.CueSource, filepath.Base(action.Target))
		if err != nil {
			return services.Wrap(services.ErrTransient, "tagging", "retarget cue", "Failed to rewrite cue FILE directives", err)
		}
		if !changed {
			logger.Warn("no FILE directive found in cue",
				logging.String("cue", filepath.Base(action.CueSource)))
		}
	}
	if action.Target != action.Source {
		if err := os.Rename(action.Source, action.Target); err != nil {
			return services.Wrap(services.ErrTransient, "tagging", "rename image", "Failed to rename disc image", err)
		}
	}
	if action.CueSource != "" && action.CueTarget != action.CueSource {
		if err := os.Rename(action.CueSource, action.CueTarget); err != nil {
			return services.Wrap(services.ErrTransient, "tagging", "rename cue", "Failed to rename cue sheet", err)
		}
	}
	return nil
}

// findCueSibling locates the cue sheet sharing a stem with the image,
// trying both extension spellings.
func findCueSibling(imagePath string) (string, bool) {
	base := strings.TrimSuffix(imagePath, filepath.Ext(imagePath))
	for _, ext := range []string{".cue", ".CUE"} {
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
