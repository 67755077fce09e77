package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"jewelcase/internal/config"
	"jewelcase/internal/logging"
	"jewelcase/internal/services"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		c.applyOverrides(cfg)
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) applyOverrides(cfg *config.Config) {
	if c.logLevelFlag != nil {
		if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
			cfg.Logging.Level = level
		}
	}
	if c.logFormatFlag != nil {
		if format := strings.TrimSpace(*c.logFormatFlag); format != "" {
			cfg.Logging.Format = format
		}
	}
}

// runEnv bundles what an operational command needs: the effective config,
// a logger writing to the per-run log file, and a context carrying the
// command name and run id correlation fields.
type runEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	ctx    context.Context
}

func (c *commandContext) newRunEnv(cmd *cobra.Command) (*runEnv, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, logPath, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     cfg.Paths.LogDir,
		Pattern: logging.RunLogPattern,
		Exclude: []string{logPath},
	})

	ctx := services.WithCommand(cmd.Context(), cmd.Name())
	ctx = services.WithRequestID(ctx, uuid.NewString())
	return &runEnv{cfg: cfg, logger: logger, ctx: ctx}, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
